package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/api/middleware"
	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/addresses"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

type addressBody struct {
	FullName  string `json:"fullName" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Line1     string `json:"line1" validate:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Zip       string `json:"zip" validate:"required"`
	Label     string `json:"label"`
	IsDefault bool   `json:"isDefault"`
}

func (b addressBody) toInput() addresses.Input {
	return addresses.Input{
		FullName:  b.FullName,
		Phone:     b.Phone,
		Line1:     b.Line1,
		Line2:     b.Line2,
		City:      b.City,
		State:     b.State,
		Zip:       b.Zip,
		Label:     b.Label,
		IsDefault: b.IsDefault,
	}
}

func actorCustomerID(r *http.Request) (uuid.UUID, error) {
	id := middleware.CustomerIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return id, nil
}

// AddressCreate saves a delivery address for the signed-in customer.
func AddressCreate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addressBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Create(r.Context(), customerID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toAddressDTO(address))
	}
}

// AddressList returns the signed-in customer's address book.
func AddressList(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAddressDTOs(list))
	}
}

// AddressUpdate rewrites one of the customer's addresses.
func AddressUpdate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addressBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		address, err := svc.Update(r.Context(), customerID, id, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toAddressDTO(address))
	}
}

// AddressDelete removes one of the customer's addresses.
func AddressDelete(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), customerID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
