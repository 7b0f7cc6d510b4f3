package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tienditalabs/tiendita-backend/api/responses"
	"github.com/tienditalabs/tiendita-backend/pkg/config"
	"github.com/tienditalabs/tiendita-backend/pkg/logger"
)

// Pinger is the readiness probe contract backing dependencies satisfy.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive answers as soon as the process is serving traffic.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tiendita-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing dependencies before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP, storageP Pinger) http.HandlerFunc {
	deps := []struct {
		name string
		dep  Pinger
	}{
		{"database", dbP},
		{"redis", redisP},
		{"storage", storageP},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tiendita-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		ready := true
		for _, probe := range deps {
			if probe.dep == nil {
				continue
			}
			if err := probe.dep.Ping(ctx); err != nil {
				ready = false
				checks[probe.name] = "down"
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", probe.name), "health.check_failed", err)
				}
				continue
			}
			checks[probe.name] = "up"
		}

		if !ready {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status": "degraded",
				"checks": checks,
			})
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
