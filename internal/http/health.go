package http

import (
	"context"
	"net/http"
	"time"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks,omitempty"`
	Catalog string            `json:"catalog,omitempty"`
}

// Health always answers 200 while the process is up. A failing dependency
// degrades the status, since the shop keeps working on built-in products.
func Health(timeout time.Duration, breakerState func() string, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(deps))}
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}
		if breakerState != nil {
			resp.Catalog = breakerState()
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
