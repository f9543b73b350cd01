package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const defaultPingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler. db may be nil, in which case
// only liveness is reported.
func NewHealthHandler(db Pinger, timeout time.Duration, logger *slog.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	return &HealthHandler{
		db:      db,
		timeout: timeout,
		logger:  logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}

	if h.db == nil {
		WriteJSON(w, http.StatusOK, response, h.logger)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
		response.Status = "unhealthy"
		response.Database = "down"
		response.Error = msgDatabaseUnavailable
		WriteJSON(w, http.StatusServiceUnavailable, response, h.logger)
		return
	}

	response.Database = "up"
	WriteJSON(w, http.StatusOK, response, h.logger)
}
