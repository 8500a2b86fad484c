package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bafnatoys/bafnatoys-backend/api/responses"
	"github.com/bafnatoys/bafnatoys-backend/api/validators"
	"github.com/bafnatoys/bafnatoys-backend/internal/catalog"
	"github.com/bafnatoys/bafnatoys-backend/pkg/logger"
)

// BannerCreate registers a storefront banner.
func BannerCreate(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Title        string `json:"title"`
			ImageURL     string `json:"imageUrl" validate:"required"`
			Link         string `json:"link"`
			DisplayOrder int    `json:"displayOrder"`
			IsActive     *bool  `json:"isActive"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		active := true
		if body.IsActive != nil {
			active = *body.IsActive
		}

		banner, err := svc.Create(r.Context(), catalog.CreateBannerInput{
			Title:        body.Title,
			ImageURL:     body.ImageURL,
			Link:         body.Link,
			DisplayOrder: body.DisplayOrder,
			IsActive:     active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toBannerDTO(banner))
	}
}

// BannerList returns banners ordered for display.
func BannerList(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		banners, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBannerDTOs(banners))
	}
}

// BannerDelete removes a banner.
func BannerDelete(svc catalog.BannerService, logg *logger.Logger) http.HandlerFunc {
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
