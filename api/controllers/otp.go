// Package controllers holds the HTTP handlers. Each handler decodes input,
// calls one service, and writes the shared envelope.
package controllers

import (
	"net/http"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/otp"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// OTPSend dispatches a login code to the supplied phone.
func OTPSend(svc *otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "otp service unavailable"))
			return
		}

		var body struct {
			Phone string `json:"phone" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RequestCode(r.Context(), body.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]any{
			"phone":      result.Phone,
			"expires_in": int(result.ExpiresIn.Seconds()),
		})
	}
}

// OTPVerify checks a code without issuing a token. The storefront uses it to
// confirm the phone during registration, before an account exists.
func OTPVerify(svc *otp.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "otp service unavailable"))
			return
		}

		var body struct {
			Phone string `json:"phone" validate:"required"`
			OTP   string `json:"otp" validate:"required,len=6"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		phone, err := svc.VerifyCode(r.Context(), body.Phone, body.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"phone":    phone,
			"verified": true,
		})
	}
}
