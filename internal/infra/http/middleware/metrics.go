package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	analysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autofinder_analysis_total",
			Help: "Analysis requests by outcome (model, fallback_no_model, fallback_error, failed)",
		},
		[]string{"outcome"},
	)

	diagnosticsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autofinder_diagnostics_saved_total",
			Help: "Diagnostic persistence attempts by result",
		},
		[]string{"result"},
	)

	quotesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autofinder_quotes_created_total",
			Help: "Total number of quotes created",
		},
	)

	quoteEmails = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autofinder_quote_emails_total",
			Help: "Quote email attempts by final state",
		},
		[]string{"state"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autofinder_integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)

	quotesAwaitingEmail = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "autofinder_quotes_awaiting_email",
			Help: "Pending quotes older than the follow-up window without a sent email",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// Usa o padrão da rota (/share/{token}) para não explodir a cardinalidade
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func RecordAnalysis(outcome string) {
	analysisTotal.WithLabelValues(outcome).Inc()
}

func RecordDiagnosticSaved(saved bool) {
	result := "saved"
	if !saved {
		result = "not_saved"
	}
	diagnosticsSaved.WithLabelValues(result).Inc()
}

func RecordQuoteCreated() {
	quotesCreated.Inc()
}

func RecordQuoteEmail(state string) {
	quoteEmails.WithLabelValues(state).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

func SetQuotesAwaitingEmail(n int) {
	quotesAwaitingEmail.Set(float64(n))
}
