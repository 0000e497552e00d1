package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xavierca1/autofinder/internal/entity"
	"google.golang.org/genai"
)

const (
	DefaultAnalysisModel = "gemini-2.5-flash"
	DefaultDraftModel    = "gemini-2.0-flash"
)

type Client struct {
	genai         *genai.Client
	analysisModel string
	draftModel    string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.AnalysisModel == "" {
		cfg.AnalysisModel = DefaultAnalysisModel
	}
	if cfg.DraftModel == "" {
		cfg.DraftModel = DefaultDraftModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar client gemini: %w", err)
	}

	return &Client{
		genai:         client,
		analysisModel: cfg.AnalysisModel,
		draftModel:    cfg.DraftModel,
	}, nil
}

// Analyze manda instrução + áudio (opcional) numa única requisição e exige JSON
// no formato de AnalysisResult.
func (c *Client) Analyze(ctx context.Context, req AnalysisRequest) (*entity.AnalysisResult, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Audio != nil && len(req.Audio.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Audio.Data, req.Audio.MIMEType))
	}

	text, err := c.generate(ctx, c.analysisModel, parts, analysisSchema)
	if err != nil {
		return nil, err
	}

	var result entity.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSchemaMismatch, err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Draft(ctx context.Context, req DraftRequest) (Draft, error) {
	text, err := c.generate(ctx, c.draftModel, []*genai.Part{genai.NewPartFromText(req.Prompt)}, draftSchema)
	if err != nil {
		return Draft{}, err
	}

	var d Draft
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", entity.ErrSchemaMismatch, err)
	}
	if strings.TrimSpace(d.Subject) == "" || strings.TrimSpace(d.Body) == "" {
		return Draft{}, fmt.Errorf("%w: draft sem subject/body", entity.ErrSchemaMismatch)
	}
	return d, nil
}

func (c *Client) generate(ctx context.Context, model string, parts []*genai.Part, schema *genai.Schema) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.genai.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate falhou: %w", err)
	}

	text := stripFences(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// O modelo às vezes embrulha o JSON em ```json ... ```
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
