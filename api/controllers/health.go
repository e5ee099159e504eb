package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/rohanverma/vastra-backend/api/responses"
	"github.com/rohanverma/vastra-backend/pkg/config"
	pkgerrors "github.com/rohanverma/vastra-backend/pkg/errors"
	"github.com/rohanverma/vastra-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vastra-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every hard dependency and reports the first window in
// which all of them answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, db, redis pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Vastra-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs error
		checks := map[string]pinger{
			"database": db,
			"redis":    redis,
		}
		status := map[string]string{}
		for name, dep := range checks {
			if dep == nil {
				status[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				status[name] = "down"
				errs = multierr.Append(errs, err)
				continue
			}
			status[name] = "up"
		}

		if errs != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ready",
			"checks": status,
		})
	}
}
