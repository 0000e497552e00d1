package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPAddr           string
	PublicOrigin       string
	CORSAllowedOrigins []string
	PublicRateLimit    int // requisições por minuto por IP nas rotas públicas

	DatabaseDriver      string
	DatabaseURL         string
	DatabaseAutoMigrate bool

	GeminiAPIKey     string
	GeminiModel      string
	GeminiDraftModel string
	GeminiBaseURL    string
	AnalysisFallback bool

	EmailTransport string // webhook | smtp
	N8NWebhookURL  string
	MailHost       string
	MailPort       int
	MailUser       string
	MailPass       string
	MailFrom       string

	AMQPURL string // vazio = eventos processados no próprio processo

	AuthJWTSecret string // vazio = rotas internas sem auth

	FollowUpCron     string
	FollowUpAfter    time.Duration
	WizardSessionTTL time.Duration
	MaxAudioBytes    int
}

// Load lê .env (se existir) e depois o ambiente.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		PublicOrigin:       strings.TrimRight(getEnv("PUBLIC_ORIGIN", "http://localhost:5173"), "/"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "pgx"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiDraftModel: getEnv("GEMINI_DRAFT_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),

		EmailTransport: getEnv("EMAIL_TRANSPORT", "webhook"),
		N8NWebhookURL:  os.Getenv("N8N_WEBHOOK_URL"),
		MailHost:       os.Getenv("MAIL_HOST"),
		MailUser:       os.Getenv("MAIL_USER"),
		MailPass:       os.Getenv("MAIL_PASS"),
		MailFrom:       getEnv("MAIL_FROM", "no-reply@autofinder.app"),

		AMQPURL:       os.Getenv("AMQP_URL"),
		AuthJWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		FollowUpCron:  getEnv("FOLLOWUP_CRON", "0 9 * * *"),
	}

	var err error
	if cfg.PublicRateLimit, err = getInt("PUBLIC_RATE_LIMIT", 60); err != nil {
		return nil, err
	}
	if cfg.MailPort, err = getInt("MAIL_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.MaxAudioBytes, err = getInt("MAX_AUDIO_BYTES", 10<<20); err != nil {
		return nil, err
	}
	if cfg.DatabaseAutoMigrate, err = getBool("DATABASE_AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.AnalysisFallback, err = getBool("ANALYSIS_FALLBACK", true); err != nil {
		return nil, err
	}
	if cfg.FollowUpAfter, err = getDuration("FOLLOWUP_AFTER", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.WizardSessionTTL, err = getDuration("WIZARD_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL é obrigatório")
	}
	switch c.EmailTransport {
	case "webhook", "smtp":
	default:
		return fmt.Errorf("EMAIL_TRANSPORT inválido: %q (use webhook ou smtp)", c.EmailTransport)
	}
	if c.EmailTransport == "smtp" && c.MailHost == "" {
		return fmt.Errorf("MAIL_HOST é obrigatório com EMAIL_TRANSPORT=smtp")
	}
	if c.PublicRateLimit <= 0 {
		return fmt.Errorf("PUBLIC_RATE_LIMIT deve ser positivo")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s inválido: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
