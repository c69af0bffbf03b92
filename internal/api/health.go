package api

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "message": "API is running"})
}

// Ready pings every configured dependency.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.deps.Checks))
	ready := true

	for _, c := range h.deps.Checks {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			ready = false
			checks[c.Name()] = err.Error()
			h.log(r).Warn("Readiness check failed", map[string]interface{}{
				"dependency": c.Name(),
				"error":      err.Error(),
			})
			continue
		}
		checks[c.Name()] = "ok"
	}

	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "not_ready", "checks": checks})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ready", "checks": checks})
}
