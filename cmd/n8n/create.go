package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/xavierca1/autofinder/internal/infra/integration/n8n"
	"gopkg.in/yaml.v3"
)

type createOptions struct {
	envFile string
	timeout time.Duration
	quiet   bool
}

func newCreateCmd() *cobra.Command {
	opts := &createOptions{}
	cmd := &cobra.Command{
		Use:   "create [json|arquivo|-]",
		Short: "Cria um workflow a partir de uma definição JSON (ou YAML)",
		Long: `Envia a definição para <N8N_BASE_URL>/api/v1/workflows.

A definição pode vir inline, de um arquivo ou do stdin:
  n8n create '{"name":"Quote emails","nodes":[],"connections":{}}'
  n8n create workflow.yaml
  cat workflow.json | n8n create`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env.local", "arquivo com N8N_API_KEY e N8N_BASE_URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "tempo máximo da chamada")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "sem spinner")
	return cmd
}

func runCreate(ctx context.Context, cmd *cobra.Command, opts *createOptions, args []string) error {
	baseURL, apiKey, err := loadCredentials(opts.envFile)
	if err != nil {
		return err
	}

	raw, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	definition, err := parseDefinition(raw)
	if err != nil {
		return err
	}

	client, err := n8n.NewWorkflowClient(baseURL, apiKey)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	var s *spinner.Spinner
	if !opts.quiet {
		s = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = " criando workflow em " + baseURL
		s.Start()
	}
	wf, err := client.CreateWorkflow(ctx, definition)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen, color.Bold).Fprintf(out, "✓ workflow criado\n")
	fmt.Fprintf(out, "  id:     %s\n", color.CyanString(wf.ID))
	if wf.Name != "" {
		fmt.Fprintf(out, "  nome:   %s\n", wf.Name)
	}
	fmt.Fprintf(out, "  ativo:  %t\n", wf.Active)
	return nil
}

// loadCredentials lê o arquivo de env; variáveis do ambiente valem como fallback.
func loadCredentials(path string) (baseURL, apiKey string, err error) {
	env, readErr := godotenv.Read(path)
	if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
		return "", "", fmt.Errorf("erro ao ler %s: %w", path, readErr)
	}

	baseURL = firstNonEmpty(env["N8N_BASE_URL"], os.Getenv("N8N_BASE_URL"))
	apiKey = firstNonEmpty(env["N8N_API_KEY"], os.Getenv("N8N_API_KEY"))
	if apiKey == "" {
		return "", "", n8n.ErrMissingAPIKey
	}
	if baseURL == "" {
		return "", "", n8n.ErrMissingBaseURL
	}
	return strings.TrimRight(baseURL, "/"), apiKey, nil
}

// readInput: JSON inline, caminho de arquivo, ou stdin ("-" / sem argumento).
func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler stdin: %w", err)
		}
		return data, nil
	}

	arg := strings.TrimSpace(args[0])
	if json.Valid([]byte(arg)) {
		return []byte(arg), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler %s: %w", arg, err)
	}
	return data, nil
}

// parseDefinition aceita JSON ou YAML e sempre devolve JSON de um objeto.
func parseDefinition(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("definição vazia")
	}

	if json.Valid(raw) {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, errors.New("a definição precisa ser um objeto JSON")
		}
		return json.RawMessage(raw), nil
	}

	var obj map[string]any
	if err := yaml.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, errors.New("definição inválida: esperado JSON ou YAML com um objeto")
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("definição inválida: %w", err)
	}
	return data, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
