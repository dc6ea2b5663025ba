package controllers

import (
	"net/http"

	"github.com/Lee-Rose/python-final-diplom/api/responses"
	"github.com/Lee-Rose/python-final-diplom/pkg/config"
	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
	"github.com/Lee-Rose/python-final-diplom/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Retail-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports not-ready as soon as either backing store stops
// answering.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Retail-Env", cfg.App.Env)

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
