package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/settings"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// SettingGet returns the raw payload stored under a key.
func SettingGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := svc.Get(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}

// SettingPut stores an arbitrary JSON object under a key.
func SettingPut(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		data, err := svc.Put(r.Context(), chi.URLParam(r, "key"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, data)
	}
}

// ShippingSettingGet returns the shipping charge configuration, seeding the
// defaults on first read.
func ShippingSettingGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setting, err := svc.CurrentShippingSetting(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShippingSettingDTO(setting))
	}
}

// ShippingSettingPut updates the shipping charge and free-shipping threshold.
func ShippingSettingPut(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ShippingCharge        float64 `json:"shippingCharge" validate:"min=0"`
			FreeShippingThreshold float64 `json:"freeShippingThreshold" validate:"min=0"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setting, err := svc.UpdateShippingSetting(r.Context(), body.ShippingCharge, body.FreeShippingThreshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toShippingSettingDTO(setting))
	}
}
