package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/infra/config"
	"github.com/xavierca1/autofinder/internal/infra/database"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:              "test",
		HTTPAddr:            "127.0.0.1:0",
		PublicOrigin:        "http://localhost:5173",
		CORSAllowedOrigins:  []string{"http://localhost:5173"},
		PublicRateLimit:     60,
		DatabaseDriver:      database.DriverSQLite,
		DatabaseURL:         "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite",
		DatabaseAutoMigrate: true,
		AnalysisFallback:    true,
		EmailTransport:      "webhook",
		FollowUpCron:        "@daily",
		FollowUpAfter:       72 * time.Hour,
		WizardSessionTTL:    time.Minute,
		MaxAudioBytes:       1 << 20,
	}
}

func TestNewWiresInProcessStack(t *testing.T) {
	a, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Rabbit)
	assert.Nil(t, a.Consumer)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"gemini":"not configured"`)
	assert.Contains(t, rec.Body.String(), `"rabbitmq":"in-process"`)

	// sem AUTH_JWT_SECRET as rotas internas ficam abertas
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewFailsOnBadDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseDriver = "mysql"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
