package controllers

import (
	"net/http"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/payments"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// PaymentOrderCreate opens a gateway order for the given rupee amount.
func PaymentOrderCreate(client *payments.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount float64 `json:"amount" validate:"required,gt=0"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := client.CreateOrder(r.Context(), body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// PaymentVerify checks the gateway's payment signature.
func PaymentVerify(client *payments.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OrderID   string `json:"orderId" validate:"required"`
			PaymentID string `json:"paymentId" validate:"required"`
			Signature string `json:"signature" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := client.VerifySignature(body.OrderID, body.PaymentID, body.Signature); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"verified": true})
	}
}
