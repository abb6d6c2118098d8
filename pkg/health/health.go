package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/etokheim/scene-extrapolation/pkg/mqtt"
	"github.com/etokheim/scene-extrapolation/pkg/postgres"
	"github.com/etokheim/scene-extrapolation/pkg/redis"
)

// Checker provides health check functionality for the agent. Redis and
// Postgres are optional; a nil client means the deployment does not use
// that backend and it must not count against the health status.
type Checker struct {
	mqtt     mqtt.Client
	redis    redis.Client
	postgres postgres.Client
	logger   *slog.Logger
}

// NewChecker creates a new health checker with the given dependencies
func NewChecker(mqttClient mqtt.Client, redisClient redis.Client, logger *slog.Logger) *Checker {
	return &Checker{
		mqtt:   mqttClient,
		redis:  redisClient,
		logger: logger,
	}
}

// SetPostgres adds an optional Postgres client to the detailed report
func (h *Checker) SetPostgres(client postgres.Client) {
	h.postgres = client
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// Services represents the status of external dependencies
type Services struct {
	MQTT     string `json:"mqtt"`
	Redis    string `json:"redis"`
	Postgres string `json:"postgres,omitempty"`
}

// HandlerFunc returns an HTTP handler function for health checks.
// Returns 200 if the process is alive without checking dependencies,
// keeping the check fast for the orchestrator.
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}

// DetailedHandlerFunc returns a handler that reports dependency status.
// Only configured backends participate in the degraded computation.
func (h *Checker) DetailedHandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := &Services{}
		degraded := false

		if h.mqtt != nil && h.mqtt.IsConnected() {
			services.MQTT = "connected"
		} else {
			services.MQTT = "disconnected"
			degraded = true
		}

		// Redis is reported as wired, not pinged; a ping here would slow
		// the check
		if h.redis != nil {
			services.Redis = "connected"
		} else {
			services.Redis = "not_configured"
		}

		if h.postgres != nil {
			status, err := h.postgres.HealthCheck(r.Context())
			if err == nil && status.Connected {
				services.Postgres = "connected"
			} else {
				services.Postgres = "disconnected"
				degraded = true
				if err != nil {
					h.logger.Warn("Postgres health check failed", "error", err)
				} else if status.Error != "" {
					h.logger.Warn("Postgres health check failed", "error", status.Error)
				}
			}
		}

		status := "healthy"
		statusCode := http.StatusOK
		if degraded {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			Services:  services,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)

		if err := json.NewEncoder(w).Encode(response); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}
