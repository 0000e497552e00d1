package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/xavierca1/autofinder/internal/infra/integration/n8n"
	"github.com/xavierca1/autofinder/internal/infra/logger"
	"github.com/xavierca1/autofinder/internal/infra/mail"
	"go.uber.org/zap"
)

// Dispara uma mensagem de teste no webhook de e-mail do n8n.
// Uso: TEST_EMAIL_TO=voce@empresa.com go run ./sample/send-test-email
func main() {
	log, _ := logger.New("development", "info")
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Warn("arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	webhook := os.Getenv("N8N_WEBHOOK_URL")
	to := os.Getenv("TEST_EMAIL_TO")
	if webhook == "" || to == "" {
		log.Fatal("N8N_WEBHOOK_URL e TEST_EMAIL_TO devem estar configurados")
	}

	subject, body, err := mail.RenderQuoteDraft(mail.QuoteDraftData{
		ClientName:    "Juan Prueba",
		CompanyName:   "Empresa Demo",
		AnnualSavings: "$48,000",
		Opportunities: []string{"Automatizar facturación", "Bot de seguimiento de leads"},
		ShareLink:     "http://localhost:5173/share/demo",
	}, mail.DraftWithoutModel)
	if err != nil {
		log.Fatal("erro ao montar rascunho", zap.Error(err))
	}

	fmt.Println("🔄 Enviando e-mail de teste...")
	fmt.Printf("   Para: %s\n", to)
	fmt.Printf("   Assunto: %s\n\n", subject)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client := n8n.NewWebhookClient(webhook)
	if err := client.Send(ctx, mail.Message{To: to, Subject: subject, Body: body}); err != nil {
		log.Fatal("webhook recusou o envio", zap.Error(err))
	}

	fmt.Println("✅ E-mail aceito pelo webhook")
}
