package controllers

import (
	"errors"
	"net/http"

	"github.com/lkiparis/printforge-backend/api/responses"
	"github.com/lkiparis/printforge-backend/api/validators"
	"github.com/lkiparis/printforge-backend/internal/geometry"
	"github.com/lkiparis/printforge-backend/internal/pricing"
	pkgerrors "github.com/lkiparis/printforge-backend/pkg/errors"
	"github.com/lkiparis/printforge-backend/pkg/logger"
)

type priceRequest struct {
	VolumeCM3 float64 `json:"volume_cm3" validate:"min=0"`
	Material  string  `json:"material" validate:"required"`
	Infill    int     `json:"infill" validate:"min=0,max=100"`
}

// QuoteAnalyze measures the enclosed volume of an uploaded model without
// staging anything.
func QuoteAnalyze(maxUploadMB int, logg *logger.Logger) http.HandlerFunc {
	maxBytes := int64(maxUploadMB) << 20
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, _, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file upload is required"))
			return
		}
		defer file.Close()

		volume, err := geometry.MeasureVolume(file)
		if err != nil {
			if errors.Is(err, geometry.ErrMalformed) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable model file"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "analyze model"))
			return
		}

		responses.WriteSuccess(w, map[string]float64{"volume_cm3": volume})
	}
}

// QuotePrice turns a measured volume plus print settings into a price.
func QuotePrice(est *pricing.Estimator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req priceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := est.Estimate(req.VolumeCM3, req.Material, req.Infill)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// QuoteMaterials lists the printable material catalogue.
func QuoteMaterials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, pricing.Materials())
	}
}
