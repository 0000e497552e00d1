package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/autofinder/internal/infra/config"
	"github.com/xavierca1/autofinder/internal/infra/database"
	"github.com/xavierca1/autofinder/internal/infra/http/handlers"
	"github.com/xavierca1/autofinder/internal/infra/http/middleware"
	"github.com/xavierca1/autofinder/internal/infra/integration/gemini"
	"github.com/xavierca1/autofinder/internal/infra/integration/n8n"
	"github.com/xavierca1/autofinder/internal/infra/mail"
	"github.com/xavierca1/autofinder/internal/infra/queue"
	"github.com/xavierca1/autofinder/internal/infra/worker"
	"github.com/xavierca1/autofinder/internal/usecase"
	"github.com/xavierca1/autofinder/internal/wizard"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App é o contexto da aplicação: criado uma vez no start, fechado na saída.
// Todas as dependências nascem aqui e chegam aos handlers por construtor.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB       *database.Conn
	Rabbit   *queue.RabbitMQ // nil sem AMQP_URL
	Consumer *queue.Worker
	Wizards  *wizard.Store
	FollowUp *worker.FollowUpWorker
	Limiter  *middleware.RateLimiter
	Router   http.Handler
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	// 1. Banco
	conn, err := database.NewDBConnection(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.DB = conn
	if cfg.DatabaseAutoMigrate {
		if err := database.Migrate(ctx, conn); err != nil {
			a.Close()
			return nil, err
		}
	}

	// 2. Repositórios
	clients := database.NewClientRepository(conn)
	diagnostics := database.NewDiagnosticRepository(conn)
	quotes := database.NewQuoteRepository(conn)
	emails := database.NewEmailRepository(conn)

	// 3. Integrações. Interfaces ficam nil (não typed-nil) sem credencial.
	var (
		analysisModel usecase.AnalysisModel
		draftModel    usecase.DraftModel
	)
	if cfg.GeminiAPIKey != "" {
		g, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:        cfg.GeminiAPIKey,
			AnalysisModel: cfg.GeminiModel,
			DraftModel:    cfg.GeminiDraftModel,
			BaseURL:       cfg.GeminiBaseURL,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		analysisModel, draftModel = g, g
	} else {
		logger.Warn("GEMINI_API_KEY ausente: análises usam o modo degradado")
	}

	transport := newTransport(cfg, logger)

	// 4. Eventos: RabbitMQ quando configurado, senão no próprio processo
	manage := usecase.NewManageClientsUseCase(clients, logger.Named("clients"))
	eventHandler := usecase.NewPipelineEventHandler(manage, logger.Named("events"))

	var events usecase.EventPublisher
	if cfg.AMQPURL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Rabbit = rabbit
		events = queue.NewProducer(rabbit.Ch)
		a.Consumer = queue.NewWorker(rabbit.Ch, eventHandler, logger.Named("consumer"))
	} else {
		events = queue.NewLocalDispatcher(eventHandler, logger.Named("events"))
	}

	// 5. UseCases
	analyze := usecase.NewAnalyzeDiagnosticUseCase(analysisModel, cfg.AnalysisFallback, logger.Named("analysis"))
	save := usecase.NewSaveDiagnosticUseCase(clients, diagnostics, events, logger.Named("persister"))
	run := usecase.NewRunDiagnosticUseCase(analyze, save, logger.Named("diagnostic"))
	pipeline := usecase.NewListPipelineUseCase(diagnostics, quotes, emails)
	generate := usecase.NewGenerateQuoteUseCase(diagnostics, quotes, events, cfg.PublicOrigin, logger.Named("quotes"))
	draft := usecase.NewDraftQuoteEmailUseCase(quotes, draftModel, cfg.PublicOrigin, logger.Named("drafts"))
	send := usecase.NewSendQuoteEmailUseCase(quotes, emails, transport, events, logger.Named("email"))
	report := usecase.NewGetPublicReportUseCase(quotes, logger.Named("share"))
	dashboard := usecase.NewDashboardUseCase(clients, pipeline)

	// 6. Workers
	maxAudio := cfg.MaxAudioBytes
	a.Wizards = wizard.NewStore(cfg.WizardSessionTTL, func() wizard.Recorder {
		return wizard.NewBufferRecorder(maxAudio, "audio/webm")
	}, logger.Named("wizard"))
	a.FollowUp = worker.NewFollowUpWorker(pipeline, cfg.FollowUpCron, cfg.FollowUpAfter, logger.Named("followup"))
	a.Limiter = middleware.NewRateLimiter(cfg.PublicRateLimit, time.Minute)

	// 7. Handlers + router
	var auth *middleware.Auth
	if cfg.AuthJWTSecret != "" {
		auth = middleware.NewAuth(cfg.AuthJWTSecret)
	} else {
		logger.Warn("AUTH_JWT_SECRET ausente: rotas do consultor sem autenticação")
	}

	var broker handlers.Broker
	if a.Rabbit != nil {
		broker = a.Rabbit.Conn
	}

	a.Router = handlers.NewRouter(handlers.Routes{
		Health: handlers.NewHealthHandler(conn, broker, map[string]bool{
			"gemini":  analysisModel != nil,
			"email":   transportConfigured(cfg),
			"auth":    auth != nil,
			"storage": true,
		}),
		Wizard:        handlers.NewWizardHandler(a.Wizards, run, logger),
		Diagnostics:   handlers.NewDiagnosticHandler(analyze, run, pipeline, logger),
		Quotes:        handlers.NewQuoteHandler(generate, draft, send, pipeline, cfg.PublicOrigin, logger),
		Emails:        handlers.NewEmailHandler(pipeline, logger),
		Public:        handlers.NewPublicHandler(report, cfg.PublicOrigin, logger),
		Clients:       handlers.NewClientHandler(manage, logger),
		Dashboard:     handlers.NewDashboardHandler(dashboard, logger),
		Auth:          auth,
		PublicLimiter: a.Limiter,
		CORSOrigins:   cfg.CORSAllowedOrigins,
		Logger:        logger.Named("http"),
	})

	return a, nil
}

func newTransport(cfg *config.Config, logger *zap.Logger) usecase.EmailTransport {
	if cfg.EmailTransport == "smtp" {
		logger.Info("e-mail via SMTP", zap.String("host", cfg.MailHost))
		return mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	}
	if cfg.N8NWebhookURL == "" {
		logger.Warn("N8N_WEBHOOK_URL ausente: envio de e-mail vai falhar")
	}
	return n8n.NewWebhookClient(cfg.N8NWebhookURL)
}

func transportConfigured(cfg *config.Config) bool {
	if cfg.EmailTransport == "smtp" {
		return cfg.MailHost != ""
	}
	return cfg.N8NWebhookURL != ""
}

// Run sobe o servidor HTTP e os workers; retorna quando ctx acaba e tudo parou.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("servidor iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.Logger.Info("encerrando servidor")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		a.Wizards.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.Limiter.Cleanup(gctx, 5*time.Minute)
		return nil
	})
	g.Go(func() error {
		return a.FollowUp.Start(gctx)
	})
	if a.Consumer != nil {
		g.Go(func() error {
			return a.Consumer.Start(gctx, queue.QueueName)
		})
	}

	return g.Wait()
}

func (a *App) Close() {
	if a.Rabbit != nil {
		if err := a.Rabbit.Close(); err != nil {
			a.Logger.Warn("erro ao fechar RabbitMQ", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("erro ao fechar banco", zap.Error(err))
		}
	}
}
