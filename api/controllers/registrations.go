package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/registrations"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

type registrationCreateBody struct {
	FirmName        string `json:"firmName" validate:"required"`
	ShopName        string `json:"shopName" validate:"required"`
	State           string `json:"state" validate:"required"`
	City            string `json:"city" validate:"required"`
	Zip             string `json:"zip" validate:"required"`
	OTPMobile       string `json:"otpMobile" validate:"required"`
	Whatsapp        string `json:"whatsapp"`
	Password        string `json:"password"`
	VisitingCardURL string `json:"visitingCardUrl"`
}

type registrationUpdateBody struct {
	FirmName        *string `json:"firmName"`
	ShopName        *string `json:"shopName"`
	State           *string `json:"state"`
	City            *string `json:"city"`
	Zip             *string `json:"zip"`
	OTPMobile       *string `json:"otpMobile"`
	Whatsapp        *string `json:"whatsapp"`
	VisitingCardURL *string `json:"visitingCardUrl"`
}

// RegistrationCreate onboards a new wholesale buyer in pending state.
func RegistrationCreate(svc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registrationCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reg, err := svc.Create(r.Context(), registrations.CreateInput{
			FirmName:        body.FirmName,
			ShopName:        body.ShopName,
			State:           body.State,
			City:            body.City,
			Zip:             body.Zip,
			OTPMobile:       body.OTPMobile,
			Whatsapp:        body.Whatsapp,
			Password:        body.Password,
			VisitingCardURL: body.VisitingCardURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toRegistrationDTO(reg))
	}
}

// RegistrationList returns every registration for the admin review queue.
func RegistrationList(svc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regs, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRegistrationDTOs(regs))
	}
}

// RegistrationGetByPhone looks up a registration by its mobile number.
func RegistrationGetByPhone(svc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, err := svc.GetByPhone(r.Context(), chi.URLParam(r, "phone"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRegistrationDTO(reg))
	}
}

// RegistrationUpdate edits profile fields on an existing registration.
func RegistrationUpdate(svc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body registrationUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		reg, err := svc.Update(r.Context(), id, registrations.UpdateInput{
			FirmName:        body.FirmName,
			ShopName:        body.ShopName,
			State:           body.State,
			City:            body.City,
			Zip:             body.Zip,
			OTPMobile:       body.OTPMobile,
			Whatsapp:        body.Whatsapp,
			VisitingCardURL: body.VisitingCardURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toRegistrationDTO(reg))
	}
}

// RegistrationSetApproval approves or rejects a pending registration.
func RegistrationSetApproval(svc registrations.Service, logg *logger.Logger, approved bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetApproval(r.Context(), id, approved); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "approved": approved})
	}
}

// RegistrationDelete removes a registration entirely.
func RegistrationDelete(svc registrations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
