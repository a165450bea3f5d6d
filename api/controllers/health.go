package controllers

import (
	"net/http"

	"github.com/xdieuxd/BOOKNEST-ETL/api/responses"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/config"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/db"
	pkgerrors "github.com/xdieuxd/BOOKNEST-ETL/pkg/errors"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/logger"
	"github.com/xdieuxd/BOOKNEST-ETL/pkg/redis"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Booknest-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the pipeline's backing services answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbPinger db.Pinger, redisPinger redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Booknest-Env", cfg.App.Env)

		if dbPinger != nil {
			if err := dbPinger.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisPinger != nil {
			if err := redisPinger.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
