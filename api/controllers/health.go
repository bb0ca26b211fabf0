package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/migapan/storefront-backend/api/responses"
	"github.com/migapan/storefront-backend/pkg/config"
	"github.com/migapan/storefront-backend/pkg/logger"
)

const healthTimeout = 3 * time.Second

// Pinger is any dependency with a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck pings the database, plus Redis when one is configured.
func HealthCheck(cfg *config.Config, db Pinger, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-Bakery-Env", cfg.App.Env)
		}

		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		body := map[string]string{"status": "ok", "database": "connected"}
		status := http.StatusOK

		if db == nil {
			body["database"] = "disconnected"
			status = http.StatusInternalServerError
		} else if err := db.Ping(ctx); err != nil {
			body["database"] = "disconnected"
			status = http.StatusInternalServerError
			if logg != nil {
				logg.Error(ctx, "health.database_ping_failed", err)
			}
		}

		if cache != nil {
			body["redis"] = "connected"
			if err := cache.Ping(ctx); err != nil {
				body["redis"] = "disconnected"
				status = http.StatusInternalServerError
				if logg != nil {
					logg.Error(ctx, "health.redis_ping_failed", err)
				}
			}
		}

		if status != http.StatusOK {
			body["status"] = "error"
		}
		responses.WriteJSON(w, status, body)
	}
}
