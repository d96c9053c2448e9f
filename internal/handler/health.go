package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/pension-verification/pkg/response"
)

// Pinger is a dependency that can report its own reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

type check struct {
	name string
	ping func(ctx context.Context) error
}

type HealthHandler struct {
	checks  []check
	timeout time.Duration
}

func NewHealthHandler(db *sqlx.DB, rdb *redis.Client, store Pinger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		checks: []check{
			{name: "database", ping: db.PingContext},
			{name: "redis", ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
			{name: "storage", ping: store.Ping},
		},
		timeout: timeout,
	}
}

type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health performs a basic health check
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	response.Success(w, status)
}

// Ready pings every dependency, each under its own timeout
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Checks:    make(map[string]string, len(h.checks)),
	}

	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		err := c.ping(ctx)
		cancel()

		if err != nil {
			status.Status = "error"
			status.Checks[c.name] = "failed: " + err.Error()
		} else {
			status.Checks[c.name] = "ok"
		}
	}

	if status.Status == "error" {
		response.JSON(w, http.StatusServiceUnavailable, status)
		return
	}

	response.Success(w, status)
}
