package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velstore/catalog-backend/api/responses"
	"github.com/velstore/catalog-backend/api/validators"
	"github.com/velstore/catalog-backend/internal/catalog"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/logger"
)

type createCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type categoryResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

func newCategoryResponse(category models.Category) categoryResponse {
	return categoryResponse{Slug: category.Slug, Name: category.Name}
}

// CategoryList returns every category as slug+name pairs.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]categoryResponse, len(categories))
		for i, category := range categories {
			out[i] = newCategoryResponse(category)
		}
		responses.WriteSuccess(w, map[string]any{"categories": out})
	}
}

// CategoryGet looks a single category up by slug.
func CategoryGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := svc.GetCategory(r.Context(), chi.URLParam(r, "categorySlug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"category": newCategoryResponse(*category)})
	}
}

// CategoryCreate registers a category; the slug is derived from the name when
// omitted.
func CategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), catalog.CreateCategoryInput{
			Name: payload.Name,
			Slug: payload.Slug,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"category": newCategoryResponse(*category)})
	}
}
