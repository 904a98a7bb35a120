package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lkiparis/printforge-backend/api/responses"
	"github.com/lkiparis/printforge-backend/internal/production"
	"github.com/lkiparis/printforge-backend/pkg/logger"
)

// ProductionLaunch snapshots the cart into a new timestamped batch.
func ProductionLaunch(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Launch(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// BatchList returns every batch with its derived progress, newest first.
func BatchList(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batches, err := svc.ListBatches(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"batches": batches, "count": len(batches)})
	}
}

// BatchDetail returns one batch: items, derived status, and the manifest
// written at launch time.
func BatchDetail(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		detail, err := svc.GetBatch(r.Context(), chi.URLParam(r, "batchId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// BatchItemDone records that one batch item has been produced.
func BatchItemDone(svc production.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := itemIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.MarkDone(r.Context(), chi.URLParam(r, "batchId"), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
