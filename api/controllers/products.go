package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/catalog"
	"github.com/bafnatoys/bafnatoys-backend/pkg/db/models"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

type productCreateBody struct {
	Name        string            `json:"name" validate:"required"`
	SKU         string            `json:"sku" validate:"required"`
	Price       float64           `json:"price" validate:"min=0"`
	MRP         float64           `json:"mrp" validate:"min=0"`
	Stock       int               `json:"stock" validate:"min=0"`
	Unit        string            `json:"unit"`
	Description string            `json:"description"`
	Tagline     string            `json:"tagline"`
	PackSize    string            `json:"packSize"`
	Images      []string          `json:"images"`
	CategoryID  *uuid.UUID        `json:"categoryId"`
	BulkPricing []models.BulkTier `json:"bulkPricing"`
	TaxFields   []string          `json:"taxFields"`
}

type productUpdateBody struct {
	Name        *string            `json:"name"`
	SKU         *string            `json:"sku"`
	Price       *float64           `json:"price"`
	MRP         *float64           `json:"mrp"`
	Stock       *int               `json:"stock"`
	Unit        *string            `json:"unit"`
	Description *string            `json:"description"`
	Tagline     *string            `json:"tagline"`
	PackSize    *string            `json:"packSize"`
	Images      *[]string          `json:"images"`
	CategoryID  *uuid.UUID         `json:"categoryId"`
	BulkPricing *[]models.BulkTier `json:"bulkPricing"`
	TaxFields   *[]string          `json:"taxFields"`
}

// ProductCreate adds a catalog entry at the end of its category's ordering.
func ProductCreate(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), catalog.CreateProductInput{
			Name:        body.Name,
			SKU:         body.SKU,
			Price:       body.Price,
			MRP:         body.MRP,
			Stock:       body.Stock,
			Unit:        body.Unit,
			Description: body.Description,
			Tagline:     body.Tagline,
			PackSize:    body.PackSize,
			Images:      body.Images,
			CategoryID:  body.CategoryID,
			BulkPricing: body.BulkPricing,
			TaxFields:   body.TaxFields,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toProductDTO(product))
	}
}

// ProductList returns the catalog in display order.
func ProductList(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductDTOs(products))
	}
}

// ProductGet returns a single product by id.
func ProductGet(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toProductDTO(product))
	}
}

// ProductUpdate applies partial edits to a product.
func ProductUpdate(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, catalog.UpdateProductInput{
			Name:        body.Name,
			SKU:         body.SKU,
			Price:       body.Price,
			MRP:         body.MRP,
			Stock:       body.Stock,
			Unit:        body.Unit,
			Description: body.Description,
			Tagline:     body.Tagline,
			PackSize:    body.PackSize,
			Images:      body.Images,
			CategoryID:  body.CategoryID,
			BulkPricing: body.BulkPricing,
			TaxFields:   body.TaxFields,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductDTO(product))
	}
}

// ProductDelete removes a product from the catalog.
func ProductDelete(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
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

// ProductReorder rewrites the catalog's display ordering from the posted
// id sequence.
func ProductReorder(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OrderedIDs []uuid.UUID `json:"orderedIds" validate:"required,min=1"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reorder(r.Context(), body.OrderedIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"reordered": len(body.OrderedIDs)})
	}
}
