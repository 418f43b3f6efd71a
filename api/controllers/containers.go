package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velstore/catalog-backend/api/responses"
	"github.com/velstore/catalog-backend/api/validators"
	cartsvc "github.com/velstore/catalog-backend/internal/cart"
	customersvc "github.com/velstore/catalog-backend/internal/customers"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	"github.com/velstore/catalog-backend/pkg/logger"
)

type containerLineRequest struct {
	ItemID int64 `json:"item_id" validate:"required"`
	Qty    int   `json:"qty" validate:"required,min=1"`
}

// resolveContainerID maps a customer path id to the container backing the
// requested kind.
func resolveContainerID(r *http.Request, customers customersvc.Service, kind enums.ContainerKind) (int64, error) {
	customerID, err := validators.PathInt64(chi.URLParam(r, "customerID"), "customerID")
	if err != nil {
		return 0, err
	}
	customer, err := customers.Get(r.Context(), customerID)
	if err != nil {
		return 0, err
	}
	return containerIDFor(customer, kind), nil
}

func containerIDFor(customer *models.Customer, kind enums.ContainerKind) int64 {
	if kind == enums.ContainerKindWishlist {
		return customer.WishlistID
	}
	return customer.CartID
}

func containerKey(kind enums.ContainerKind) string {
	return kind.String()
}

// ContainerGet returns the container with derived quantity and total.
func ContainerGet(customers customersvc.Service, carts cartsvc.Service, kind enums.ContainerKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID, err := resolveContainerID(r, customers, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.GetOrCreate(r.Context(), kind, containerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{containerKey(kind): view})
	}
}

// ContainerAddItem appends a line for the item; repeats produce extra lines.
func ContainerAddItem(customers customersvc.Service, carts cartsvc.Service, kind enums.ContainerKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID, err := resolveContainerID(r, customers, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload containerLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.AddItem(r.Context(), kind, containerID, payload.ItemID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{containerKey(kind): view})
	}
}

// ContainerSetQuantity collapses the item's lines into a single one with the
// requested quantity at the end of the container.
func ContainerSetQuantity(customers customersvc.Service, carts cartsvc.Service, kind enums.ContainerKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID, err := resolveContainerID(r, customers, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload containerLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.SetQuantity(r.Context(), kind, containerID, payload.ItemID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{containerKey(kind): view})
	}
}

// ContainerRemoveItem drops every line referencing the item.
func ContainerRemoveItem(customers customersvc.Service, carts cartsvc.Service, kind enums.ContainerKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID, err := resolveContainerID(r, customers, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := validators.PathInt64(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.RemoveItem(r.Context(), kind, containerID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{containerKey(kind): view})
	}
}

// ContainerClear drops every line.
func ContainerClear(customers customersvc.Service, carts cartsvc.Service, kind enums.ContainerKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		containerID, err := resolveContainerID(r, customers, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.Clear(r.Context(), kind, containerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{containerKey(kind): view})
	}
}

// WishlistCopyToCart appends the wishlist's lines to the cart with fresh
// snapshots; the wishlist keeps its lines.
func WishlistCopyToCart(customers customersvc.Service, carts cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.PathInt64(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := customers.Get(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := carts.CopyTo(r.Context(),
			enums.ContainerKindWishlist, customer.WishlistID,
			enums.ContainerKindCart, customer.CartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"cart": view})
	}
}
