package controllers

import (
	"net/http"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
	pkgredis "github.com/bafnatoys/bafnatoys-backend/pkg/redis"
)

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"status": "ok"})
	}
}

// HealthReady reports readiness by pinging the datasource and, when
// configured, the cache. A nil cache is treated as intentionally absent.
func HealthReady(database db.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"database": "ok"}

		if err := database.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
			return
		}

		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache ping"))
				return
			}
			checks["cache"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
