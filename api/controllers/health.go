package controllers

import (
	"context"
	"net/http"

	"github.com/lkiparis/printforge-backend/api/responses"
	"github.com/lkiparis/printforge-backend/pkg/config"
	pkgerrors "github.com/lkiparis/printforge-backend/pkg/errors"
	"github.com/lkiparis/printforge-backend/pkg/logger"
)

// StoragePinger is the readiness probe over the record directories.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PrintForge-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, storage StoragePinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PrintForge-Env", cfg.App.Env)

		if storage != nil {
			if err := storage.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "storage not ready"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
