package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/velstore/catalog-backend/api/responses"
	"github.com/velstore/catalog-backend/api/validators"
	ordersvc "github.com/velstore/catalog-backend/internal/orders"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/logger"
)

type registerPaymentRequest struct {
	AmountCents int `json:"amount_cents" validate:"required,min=1"`
}

type orderLineResponse struct {
	ItemID    int64  `json:"item_id"`
	Qty       int    `json:"qty"`
	Title     string `json:"title"`
	CostCents int    `json:"cost_cents"`
}

type orderResponse struct {
	ID              int64               `json:"id"`
	CustomerID      int64               `json:"customer_id"`
	Status          string              `json:"status"`
	Quantity        int                 `json:"quantity"`
	TotalCents      int                 `json:"total_cents"`
	PaymentReceived *int                `json:"payment_received_cents,omitempty"`
	Lines           []orderLineResponse `json:"lines"`
	CreatedAt       time.Time           `json:"created_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
}

func newOrderResponse(order *models.Order) orderResponse {
	lines := make([]orderLineResponse, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = orderLineResponse{
			ItemID:    line.ItemID,
			Qty:       line.Qty,
			Title:     line.Title,
			CostCents: line.CostCents,
		}
	}
	return orderResponse{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Status:          order.Status.String(),
		Quantity:        order.Quantity,
		TotalCents:      order.TotalCents,
		PaymentReceived: order.PaymentReceived,
		Lines:           lines,
		CreatedAt:       order.CreatedAt,
		CompletedAt:     order.CompletedAt,
	}
}

// OrderCreate snapshots the customer's cart into a new order. The cart is
// left as is.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.PathInt64(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"order": newOrderResponse(order)})
	}
}

// OrderList returns the customer's orders newest first, optionally narrowed
// to a single lifecycle status via ?status=.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.PathInt64(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var status *enums.OrderStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		orders, err := svc.ListByCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(orders))
		for i := range orders {
			if status != nil && orders[i].Status != *status {
				continue
			}
			out = append(out, newOrderResponse(&orders[i]))
		}
		responses.WriteSuccess(w, map[string]any{"orders": out})
	}
}

// OrderGet returns one order with its line snapshots.
func OrderGet(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": newOrderResponse(order)})
	}
}

// OrderAdvance moves the order one step along its lifecycle.
func OrderAdvance(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Advance(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": newOrderResponse(order)})
	}
}

// OrderRegisterPayment records the amount received for the order.
func OrderRegisterPayment(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathInt64(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload registerPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RegisterPayment(r.Context(), id, payload.AmountCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": newOrderResponse(order)})
	}
}
