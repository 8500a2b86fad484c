package controllers

import (
	"net/http"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/authn"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// AuthLogin exchanges a verified OTP for a customer access token.
func AuthLogin(svc *authn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
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

		result, err := svc.CustomerLogin(r.Context(), body.Phone, body.OTP)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"token":        result.Token,
			"registration": toRegistrationDTO(result.Registration),
		})
	}
}

// AdminAuthLogin exchanges admin email/password credentials for a token.
func AdminAuthLogin(svc *authn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminLogin(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"token": result.Token,
			"email": result.Admin.Email,
		})
	}
}
