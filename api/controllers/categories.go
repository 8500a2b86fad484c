package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/catalog"
	pkgerrors "github.com/bafnatoys/bafnatoys-backend/pkg/errors"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// CategoryCreate adds a category at the bottom of the display ordering.
func CategoryCreate(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toCategoryDTO(category))
	}
}

// CategoryList returns all categories in display order.
func CategoryList(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCategoryDTOs(categories))
	}
}

// CategoryRename changes a category's name, refreshing its slug.
func CategoryRename(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Name string `json:"name" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Rename(r.Context(), id, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCategoryDTO(category))
	}
}

// CategoryMove shifts a category one slot up or down in the ordering.
func CategoryMove(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body struct {
			Direction string `json:"direction" validate:"required,oneof=up down"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		direction := catalog.MoveDirection(body.Direction)
		if direction != catalog.MoveUp && direction != catalog.MoveDown {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "direction must be up or down"))
			return
		}

		if err := svc.Move(r.Context(), id, direction); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"moved": true})
	}
}

// CategoryDelete removes a category and detaches its products.
func CategoryDelete(svc catalog.CategoryService, logg *logger.Logger) http.HandlerFunc {
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
