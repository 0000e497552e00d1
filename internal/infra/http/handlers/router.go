package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/xavierca1/autofinder/internal/infra/http/middleware"
	"go.uber.org/zap"
)

// Routes junta os handlers montados pelo container da aplicação.
type Routes struct {
	Health      *HealthHandler
	Wizard      *WizardHandler
	Diagnostics *DiagnosticHandler
	Quotes      *QuoteHandler
	Emails      *EmailHandler
	Public      *PublicHandler
	Clients     *ClientHandler
	Dashboard   *DashboardHandler

	Auth          *middleware.Auth // nil = rotas do consultor sem login (dev)
	PublicLimiter *middleware.RateLimiter
	CORSOrigins   []string
	Logger        *zap.Logger
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(rt.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", middleware.MetricsHandler())
	r.Get("/catalog", CatalogHandler)

	r.Route("/share/{token}", func(r chi.Router) {
		if rt.PublicLimiter != nil {
			r.Use(rt.PublicLimiter.Middleware)
		}
		r.Get("/", rt.Public.ReportHandler)
		r.Get("/report.pdf", rt.Public.PDFHandler)
	})

	r.Group(func(r chi.Router) {
		if rt.Auth != nil {
			r.Use(rt.Auth.Middleware)
		}
		r.Use(chimw.Timeout(90 * time.Second))

		r.Route("/wizard", rt.Wizard.Routes)

		r.Route("/diagnostics", func(r chi.Router) {
			r.Post("/analyze", rt.Diagnostics.AnalyzeHandler)
			r.Post("/", rt.Diagnostics.CreateHandler)
			r.Get("/", rt.Diagnostics.ListHandler)
			r.Get("/{id}", rt.Diagnostics.GetHandler)
			r.Post("/{id}/quotes", rt.Quotes.CreateHandler)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", rt.Quotes.ListHandler)
			r.Get("/{id}/qr.png", rt.Quotes.QRCodeHandler)
			r.Post("/{id}/draft", rt.Quotes.DraftHandler)
			r.Post("/{id}/insert-link", rt.Quotes.InsertLinkHandler)
			r.Post("/{id}/emails", rt.Quotes.SendEmailHandler)
		})

		r.Get("/emails", rt.Emails.HistoryHandler)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", rt.Clients.ListHandler)
			r.Get("/export.xlsx", rt.Clients.ExportHandler)
			r.Get("/{id}", rt.Clients.GetHandler)
			r.Patch("/{id}", rt.Clients.UpdateHandler)
		})

		r.Get("/dashboard", rt.Dashboard.Handle)
	})

	return r
}
