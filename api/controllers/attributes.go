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

type saveAttributeRequest struct {
	Name       string   `json:"name" validate:"required"`
	Regex      *string  `json:"regex"`
	Mask       *string  `json:"mask"`
	Options    []string `json:"options"`
	Categories []string `json:"categories"`
}

type attributeResponse struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Regex      *string  `json:"regex,omitempty"`
	Mask       *string  `json:"mask,omitempty"`
	Options    []string `json:"options"`
	Categories []string `json:"categories"`
}

func newAttributeResponse(schema models.AttributeSchema) attributeResponse {
	return attributeResponse{
		ID:         schema.ID,
		Name:       schema.Name,
		Regex:      schema.Regex,
		Mask:       schema.Mask,
		Options:    schema.Options,
		Categories: schema.Categories,
	}
}

// AttributeList returns attribute schemas, optionally narrowed to those
// applicable to one category.
func AttributeList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schemas, err := svc.ListAttributes(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]attributeResponse, len(schemas))
		for i, schema := range schemas {
			out[i] = newAttributeResponse(schema)
		}
		responses.WriteSuccess(w, map[string]any{"attributes": out})
	}
}

// AttributeCreate registers a new attribute schema.
func AttributeCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saveAttributeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.SaveAttribute(r.Context(), catalog.SaveAttributeInput{
			Name:       payload.Name,
			Regex:      payload.Regex,
			Mask:       payload.Mask,
			Options:    payload.Options,
			Categories: payload.Categories,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"attribute_id": id})
	}
}

// AttributeUpdate overwrites an existing attribute schema.
func AttributeUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "attributeID"), "attributeID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveAttributeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.SaveAttribute(r.Context(), catalog.SaveAttributeInput{
			ID:         id,
			Name:       payload.Name,
			Regex:      payload.Regex,
			Mask:       payload.Mask,
			Options:    payload.Options,
			Categories: payload.Categories,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"attribute_id": id})
	}
}
