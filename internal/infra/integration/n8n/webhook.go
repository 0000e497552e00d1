package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/autofinder/internal/infra/mail"
)

// WebhookClient entrega o e-mail da cotação para o workflow do n8n.
type WebhookClient struct {
	url  string
	http *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send só retorna nil quando o webhook confirma o envio:
// status 2xx e corpo sem {"success":false} ou {"error":...}. 2xx sem JSON conta como sucesso.
func (c *WebhookClient) Send(ctx context.Context, msg mail.Message) error {
	if strings.TrimSpace(c.url) == "" {
		return ErrWebhookNotConfigured
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao chamar webhook: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = resp.Status
		}
		return fmt.Errorf("webhook error (%d): %s", resp.StatusCode, detail)
	}

	var parsed webhookResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}
	if msg := errorText(parsed.Error); msg != "" {
		return fmt.Errorf("webhook error: %s", msg)
	}
	if parsed.Success != nil && !*parsed.Success {
		return fmt.Errorf("webhook error: n8n devolvió un estado de fallo")
	}
	return nil
}

func errorText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "false" || string(raw) == `""` {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// 0 também é falso
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil && n == 0 {
		return ""
	}
	return string(raw)
}
