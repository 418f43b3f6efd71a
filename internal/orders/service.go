package orders

import (
	"context"
	"errors"
	"time"

	"github.com/velstore/catalog-backend/internal/cart"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

// Store is the persistence surface the order service needs. *Repository is
// the production implementation.
type Store interface {
	Insert(ctx context.Context, order *models.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus, completedAt *time.Time) (bool, error)
	SetPayment(ctx context.Context, id int64, amountCents int) error
}

// customerLoader resolves the ordering customer and their cart reference.
type customerLoader interface {
	Get(ctx context.Context, id int64) (*models.Customer, error)
}

// cartViewer reads the customer's cart with live-priced totals.
type cartViewer interface {
	GetOrCreate(ctx context.Context, kind enums.ContainerKind, id int64) (*cart.View, error)
}

// Service manages the order lifecycle: creation from a cart snapshot, the
// linear status progression and payment registration.
type Service interface {
	// Create snapshots the customer's cart into a new order. The cart is
	// left untouched; clearing it is the caller's decision.
	Create(ctx context.Context, customerID int64) (*models.Order, error)
	Get(ctx context.Context, id int64) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	// Advance moves the order to its next status. Orders that are already
	// done cannot advance.
	Advance(ctx context.Context, id int64) (*models.Order, error)
	RegisterPayment(ctx context.Context, id int64, amountCents int) (*models.Order, error)
}

type service struct {
	repo      Store
	customers customerLoader
	carts     cartViewer
	now       func() time.Time
}

func NewService(repo Store, customers customerLoader, carts cartViewer) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders service requires a store")
	}
	if customers == nil {
		return nil, errors.New("orders service requires a customer loader")
	}
	if carts == nil {
		return nil, errors.New("orders service requires a cart viewer")
	}
	return &service{repo: repo, customers: customers, carts: carts, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, customerID int64) (*models.Order, error) {
	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	view, err := s.carts.GetOrCreate(ctx, enums.ContainerKindCart, customer.CartID)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot create an order from an empty cart")
	}

	order := &models.Order{
		CustomerID: customer.ID,
		Status:     enums.OrderStatusCreated,
		Quantity:   view.Quantity,
		TotalCents: view.TotalCents,
		Lines:      make([]models.OrderLine, 0, len(view.Lines)),
	}
	for _, line := range view.Lines {
		order.Lines = append(order.Lines, models.OrderLine{
			ItemID:    line.ItemID,
			Qty:       line.Qty,
			Title:     line.Title,
			CostCents: line.UnitCents,
		})
	}

	if _, err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	if _, err := s.customers.Get(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) Advance(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already in its final status")
	}

	var completedAt *time.Time
	if next == enums.OrderStatusDone {
		now := s.now()
		completedAt = &now
	}

	moved, err := s.repo.UpdateStatus(ctx, id, order.Status, next, completedAt)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
	}

	order.Status = next
	order.CompletedAt = completedAt
	return order, nil
}

func (s *service) RegisterPayment(ctx context.Context, id int64, amountCents int) (*models.Order, error) {
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}
	if err := s.repo.SetPayment(ctx, id, amountCents); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
