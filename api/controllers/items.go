package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velstore/catalog-backend/api/responses"
	"github.com/velstore/catalog-backend/api/validators"
	"github.com/velstore/catalog-backend/internal/catalog"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/logger"
)

const maxListLimit = 100

type attributeValuePayload struct {
	SchemaID int64  `json:"schema_id" validate:"required"`
	Value    string `json:"value" validate:"required"`
}

type saveItemRequest struct {
	Article    string                  `json:"article"`
	Title      string                  `json:"title"`
	Short      string                  `json:"short"`
	Body       string                  `json:"body"`
	Imgs       []string                `json:"imgs"`
	Tags       []string                `json:"tags"`
	Categories []string                `json:"categories"`
	Cost       int                     `json:"cost" validate:"min=0"`
	Discount   int                     `json:"discount" validate:"min=0,max=100"`
	Quantity   int                     `json:"quantity" validate:"min=0"`
	Attributes []attributeValuePayload `json:"attributes" validate:"dive"`
}

func (r saveItemRequest) toInput(id int64) catalog.SaveItemInput {
	attributes := make([]models.AttributeValue, len(r.Attributes))
	for i, attr := range r.Attributes {
		attributes[i] = models.AttributeValue{SchemaID: attr.SchemaID, Value: attr.Value}
	}
	return catalog.SaveItemInput{
		ID:         id,
		Article:    r.Article,
		Title:      r.Title,
		Short:      r.Short,
		Body:       r.Body,
		Imgs:       r.Imgs,
		Tags:       r.Tags,
		Categories: r.Categories,
		Cost:       r.Cost,
		Discount:   r.Discount,
		Quantity:   r.Quantity,
		Attributes: attributes,
	}
}

type itemResponse struct {
	ID               int64                   `json:"id"`
	Article          string                  `json:"article,omitempty"`
	Title            string                  `json:"title"`
	Short            string                  `json:"short,omitempty"`
	Body             string                  `json:"body,omitempty"`
	Imgs             []string                `json:"imgs"`
	Tags             []string                `json:"tags"`
	Categories       []string                `json:"categories"`
	Cost             int                     `json:"cost"`
	Discount         int                     `json:"discount"`
	CostWithDiscount int                     `json:"cost_with_discount"`
	Quantity         int                     `json:"quantity"`
	Attributes       []models.AttributeValue `json:"attributes"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

func newItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:               item.ID,
		Article:          item.Article,
		Title:            item.Title,
		Short:            item.Short,
		Body:             item.Body,
		Imgs:             item.Imgs,
		Tags:             item.Tags,
		Categories:       item.Categories,
		Cost:             item.Cost,
		Discount:         item.Discount,
		CostWithDiscount: item.CostWithDiscount(),
		Quantity:         item.Quantity,
		Attributes:       item.Attributes,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ItemGet returns a single item with its body.
func ItemGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"item": newItemResponse(item)})
	}
}

// ItemCreate persists a new item under the next sequential id.
func ItemCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload saveItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.SaveItem(r.Context(), payload.toInput(0))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"item_id": id})
	}
}

// ItemUpdate overwrites an existing item in place.
func ItemUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload saveItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.SaveItem(r.Context(), payload.toInput(id)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"item_id": id})
	}
}

// ItemDelete removes an item and reports whether anything was deleted.
func ItemDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": deleted})
	}
}

// ItemList returns newest-first item summaries without bodies.
func ItemList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultListLimit, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		exceptIDs, err := validators.ParseQueryInt64List(r, "except_ids")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListItems(r.Context(), catalog.ListItemsInput{
			Category:  r.URL.Query().Get("category"),
			Slug:      r.URL.Query().Get("slug"),
			Tag:       r.URL.Query().Get("tag"),
			Limit:     limit,
			ExceptIDs: exceptIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries := make([]itemResponse, len(items))
		for i := range items {
			summaries[i] = newItemResponse(&items[i])
		}
		responses.WriteSuccess(w, map[string]any{"items": summaries})
	}
}
