package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Broker é a conexão AMQP (IsClosed). nil quando os eventos rodam em processo.
type Broker interface {
	IsClosed() bool
}

type HealthHandler struct {
	DB           Pinger
	Broker       Broker
	Integrations map[string]bool
	StartTime    time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

const Version = "1.0.0"

func NewHealthHandler(db Pinger, broker Broker, integrations map[string]bool) *HealthHandler {
	return &HealthHandler{
		DB:           db,
		Broker:       broker,
		Integrations: integrations,
		StartTime:    time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	degraded := false

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.DB.Ping(ctx)
		cancel()
		if err != nil {
			deps["database"] = fmt.Sprintf("unhealthy: %v", err)
			degraded = true
		} else {
			deps["database"] = "healthy"
		}
	} else {
		deps["database"] = "not configured"
	}

	switch {
	case h.Broker == nil:
		deps["rabbitmq"] = "in-process"
	case h.Broker.IsClosed():
		deps["rabbitmq"] = "unhealthy: connection closed"
		degraded = true
	default:
		deps["rabbitmq"] = "healthy"
	}

	for name, ok := range h.Integrations {
		if ok {
			deps[name] = "configured"
		} else {
			deps[name] = "not configured"
		}
	}

	status := "healthy"
	code := http.StatusOK
	if degraded {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
