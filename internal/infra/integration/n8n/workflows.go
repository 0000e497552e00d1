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
)

// WorkflowClient fala com a API pública do n8n (/api/v1).
type WorkflowClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewWorkflowClient(baseURL, apiKey string) (*WorkflowClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrMissingBaseURL
	}
	return &WorkflowClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// CreateWorkflow envia a definição como está e devolve o id criado.
func (c *WorkflowClient) CreateWorkflow(ctx context.Context, definition json.RawMessage) (*Workflow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/workflows", bytes.NewReader(definition))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-N8N-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro ao chamar n8n: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("erro ao criar workflow: %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var wf Workflow
	if err := json.Unmarshal(body, &wf); err != nil {
		return nil, fmt.Errorf("resposta inválida do n8n: %w", err)
	}
	if wf.ID == "" {
		return nil, fmt.Errorf("n8n não devolveu id do workflow")
	}
	return &wf, nil
}
