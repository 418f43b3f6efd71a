package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velstore/catalog-backend/api/responses"
	"github.com/velstore/catalog-backend/api/validators"
	customersvc "github.com/velstore/catalog-backend/internal/customers"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/logger"
)

type ensureCustomerRequest struct {
	Name string `json:"name"`
}

type customerResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name,omitempty"`
	CartID     int64     `json:"cart_id"`
	WishlistID int64     `json:"wishlist_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCustomerResponse(customer *models.Customer) customerResponse {
	return customerResponse{
		ID:         customer.ID,
		Name:       customer.Name,
		CartID:     customer.CartID,
		WishlistID: customer.WishlistID,
		CreatedAt:  customer.CreatedAt,
	}
}

// CustomerEnsure creates the customer with an empty cart and wishlist on
// first sight. Safe to call repeatedly.
func CustomerEnsure(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithCustomerID(r.Context(), id)

		var payload ensureCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		customer, err := svc.EnsureExistence(ctx, id, payload.Name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer": newCustomerResponse(customer)})
	}
}

// CustomerGet returns the customer or the not-found taxonomy error.
func CustomerGet(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithCustomerID(r.Context(), id)
		customer, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customer": newCustomerResponse(customer)})
	}
}
