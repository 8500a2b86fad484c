package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/api/middleware"
	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/orders"
	pkgauth "github.com/bafnatoys/bafnatoys-backend/pkg/auth"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
	"github.com/bafnatoys/bafnatoys-backend/pkg/pagination"
)

type orderItemBody struct {
	ProductID      *uuid.UUID `json:"productId"`
	Name           string     `json:"name"`
	Image          string     `json:"image"`
	Qty            int        `json:"qty" validate:"min=1"`
	Price          float64    `json:"price"`
	PiecesPerInner int        `json:"piecesPerInner"`
}

type orderShippingBody struct {
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email"`
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required"`
	Notes    string `json:"notes"`
}

type orderCreateBody struct {
	Items       []orderItemBody   `json:"items" validate:"required,min=1,dive"`
	PaymentMode string            `json:"paymentMode"`
	AdvancePaid float64           `json:"advancePaid" validate:"min=0"`
	Shipping    orderShippingBody `json:"shippingAddress"`
}

type orderPage struct {
	Orders     []orderDTO `json:"orders"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// OrderCreate places an order for the signed-in customer. Line prices and
// shipping charge are recomputed server-side.
func OrderCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorCustomerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.LineItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, orders.LineItemInput{
				ProductID:      item.ProductID,
				Name:           item.Name,
				Image:          item.Image,
				Qty:            item.Qty,
				Price:          item.Price,
				PiecesPerInner: item.PiecesPerInner,
			})
		}

		order, err := svc.Create(r.Context(), orders.CreateInput{
			CustomerID:  customerID,
			Items:       items,
			PaymentMode: body.PaymentMode,
			AdvancePaid: body.AdvancePaid,
			Shipping: orders.ShippingInput{
				FullName: body.Shipping.FullName,
				Phone:    body.Shipping.Phone,
				Email:    body.Shipping.Email,
				Street:   body.Shipping.Street,
				City:     body.Shipping.City,
				State:    body.Shipping.State,
				Pincode:  body.Shipping.Pincode,
				Notes:    body.Shipping.Notes,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderDTO(order))
	}
}

// OrderList returns orders newest first. Admins see everything and may filter
// by ?customerId=; customers only ever see their own orders.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var filters orders.ListFilters
		if middleware.RoleFromContext(ctx) == string(pkgauth.RoleAdmin) {
			if raw := strings.TrimSpace(r.URL.Query().Get("customerId")); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w,
						pkgerrors.New(pkgerrors.CodeValidation, "invalid customerId"))
					return
				}
				filters.CustomerID = &id
			}
		} else {
			customerID, err := actorCustomerID(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			filters.CustomerID = &customerID
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		if limit > 0 || cursor != "" {
			page, next, err := svc.ListPage(ctx, filters, pagination.Params{Limit: limit, Cursor: cursor})
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, orderPage{Orders: toOrderDTOs(page), NextCursor: next})
			return
		}

		list, err := svc.List(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTOs(list))
	}
}

// OrderGet returns a single order. Customers may only read their own.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if middleware.RoleFromContext(r.Context()) != string(pkgauth.RoleAdmin) {
			customerID, err := actorCustomerID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if order.CustomerID != customerID {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
				return
			}
		}

		responses.WriteSuccess(w, toOrderDTO(order))
	}
}

// OrderUpdateStatus moves an order through its lifecycle.
func OrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Status string `json:"status" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderDTO(order))
	}
}

// OrderDelete removes an order and its line items.
func OrderDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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
