package controllers

import (
	"net/http"

	"github.com/rajagrocer/storefront-backend/api/responses"
	"github.com/rajagrocer/storefront-backend/pkg/config"
	pkgdb "github.com/rajagrocer/storefront-backend/pkg/db"
	pkgerrors "github.com/rajagrocer/storefront-backend/pkg/errors"
	"github.com/rajagrocer/storefront-backend/pkg/logger"
	pkgredis "github.com/rajagrocer/storefront-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RajaGrocer-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, db pkgdb.Pinger, redis pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RajaGrocer-Env", cfg.App.Env)
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database not ready"))
				return
			}
		}
		if redis != nil {
			if err := redis.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis not ready"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
