package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xavierca1/autofinder/internal/app"
	"github.com/xavierca1/autofinder/internal/infra/config"
	"github.com/xavierca1/autofinder/internal/infra/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("falha ao iniciar aplicação", zap.Error(err))
	}
	defer a.Close()

	log.Info("🔥 AutoFinder API",
		zap.String("env", cfg.AppEnv),
		zap.String("db_driver", cfg.DatabaseDriver),
		zap.String("email_transport", cfg.EmailTransport),
		zap.Bool("amqp", cfg.AMQPURL != ""),
	)

	if err := a.Run(ctx); err != nil {
		log.Error("aplicação encerrada com erro", zap.Error(err))
		return
	}
	log.Info("aplicação encerrada")
}
