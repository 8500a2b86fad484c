package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/shipping"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// ShippingBook books a courier consignment for an order and records the
// waybill on it.
func ShippingBook(svc *shipping.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OrderID uuid.UUID `json:"orderId" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Book(r.Context(), body.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(order))
	}
}
