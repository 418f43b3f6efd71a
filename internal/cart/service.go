package cart

import (
	"context"
	"errors"

	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

// Store is the persistence surface the container service needs. *Repository
// is the production implementation.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Container, error)
	Ensure(ctx context.Context, kind enums.ContainerKind, id int64) (*models.Container, error)
	ReplaceLines(ctx context.Context, containerID int64, lines []models.ContainerLine) error
}

// itemLoader resolves catalog items for snapshots and live repricing.
type itemLoader interface {
	FindItemByID(ctx context.Context, id int64) (*models.Item, error)
}

// Line is a container line as presented to callers: the stored snapshot plus
// the unit cost currently in effect.
type Line struct {
	ItemID        int64  `json:"item_id"`
	Qty           int    `json:"qty"`
	Title         string `json:"title"`
	UnitCents     int    `json:"unit_cents"`
	SubtotalCents int    `json:"subtotal_cents"`
}

// View is the derived read model of a container. Quantity and TotalCents are
// recomputed on every read; for carts the totals follow the item's current
// discounted cost, falling back to the snapshot when the item is gone.
type View struct {
	ID         int64               `json:"id"`
	Kind       enums.ContainerKind `json:"kind"`
	Lines      []Line              `json:"lines"`
	Quantity   int                 `json:"quantity"`
	TotalCents int                 `json:"total_cents"`
}

// Service manages carts and wishlists. Mutating operations materialize the
// container on first touch, so callers never create one explicitly.
type Service interface {
	GetExisting(ctx context.Context, id int64) (*View, error)
	GetOrCreate(ctx context.Context, kind enums.ContainerKind, id int64) (*View, error)
	AddItem(ctx context.Context, kind enums.ContainerKind, containerID, itemID int64, qty int) (*View, error)
	RemoveItem(ctx context.Context, kind enums.ContainerKind, containerID, itemID int64) (*View, error)
	SetQuantity(ctx context.Context, kind enums.ContainerKind, containerID, itemID int64, qty int) (*View, error)
	Clear(ctx context.Context, kind enums.ContainerKind, containerID int64) (*View, error)
	CopyTo(ctx context.Context, fromKind enums.ContainerKind, fromID int64, toKind enums.ContainerKind, toID int64) (*View, error)
}

type service struct {
	repo  Store
	items itemLoader
}

func NewService(repo Store, items itemLoader) (Service, error) {
	if repo == nil {
		return nil, errors.New("cart service requires a container store")
	}
	if items == nil {
		return nil, errors.New("cart service requires an item loader")
	}
	return &service{repo: repo, items: items}, nil
}

// GetExisting returns the container view, or (nil, nil) when no container
// exists under the id.
func (s *service) GetExisting(ctx context.Context, id int64) (*View, error) {
	container, err := s.repo.FindByID(ctx, id)
	if err != nil || container == nil {
		return nil, err
	}
	return s.buildView(ctx, container)
}

func (s *service) GetOrCreate(ctx context.Context, kind enums.ContainerKind, id int64) (*View, error) {
	container, err := s.repo.Ensure(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, container)
}

// AddItem appends a line snapshotting the item's current title and discounted
// cost. Repeated adds of the same item keep separate lines.
func (s *service) AddItem(ctx context.Context, kind enums.ContainerKind, containerID, itemID int64, qty int) (*View, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	container, err := s.repo.Ensure(ctx, kind, containerID)
	if err != nil {
		return nil, err
	}
	item, err := s.items.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	lines := append(container.Lines, models.ContainerLine{
		ItemID:    itemID,
		Qty:       qty,
		Title:     item.Title,
		CostCents: item.CostWithDiscount(),
	})
	return s.persist(ctx, container, lines)
}

// RemoveItem drops every line referencing the item.
func (s *service) RemoveItem(ctx context.Context, kind enums.ContainerKind, containerID, itemID int64) (*View, error) {
	container, err := s.repo.Ensure(ctx, kind, containerID)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, container, withoutItem(container.Lines, itemID))
}

// SetQuantity is remove-then-add: every existing line for the item is
// dropped, then a single fresh line with the requested quantity is appended
// at the end with a new snapshot. A non-positive quantity only removes.
func (s *service) SetQuantity(ctx context.Context, kind enums.ContainerKind, containerID, itemID int64, qty int) (*View, error) {
	container, err := s.repo.Ensure(ctx, kind, containerID)
	if err != nil {
		return nil, err
	}

	lines := withoutItem(container.Lines, itemID)
	if qty <= 0 {
		return s.persist(ctx, container, lines)
	}

	item, err := s.items.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	lines = append(lines, models.ContainerLine{
		ItemID:    itemID,
		Qty:       qty,
		Title:     item.Title,
		CostCents: item.CostWithDiscount(),
	})
	return s.persist(ctx, container, lines)
}

func (s *service) Clear(ctx context.Context, kind enums.ContainerKind, containerID int64) (*View, error) {
	container, err := s.repo.Ensure(ctx, kind, containerID)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, container, nil)
}

// CopyTo appends the source container's lines to the target, re-snapshotting
// from the live item when it still exists.
func (s *service) CopyTo(ctx context.Context, fromKind enums.ContainerKind, fromID int64, toKind enums.ContainerKind, toID int64) (*View, error) {
	source, err := s.repo.Ensure(ctx, fromKind, fromID)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.Ensure(ctx, toKind, toID)
	if err != nil {
		return nil, err
	}

	lines := target.Lines
	for _, line := range source.Lines {
		title, cost := line.Title, line.CostCents
		if item, err := s.items.FindItemByID(ctx, line.ItemID); err == nil {
			title, cost = item.Title, item.CostWithDiscount()
		}
		lines = append(lines, models.ContainerLine{
			ItemID:    line.ItemID,
			Qty:       line.Qty,
			Title:     title,
			CostCents: cost,
		})
	}
	return s.persist(ctx, target, lines)
}

func (s *service) persist(ctx context.Context, container *models.Container, lines []models.ContainerLine) (*View, error) {
	if err := s.repo.ReplaceLines(ctx, container.ID, lines); err != nil {
		return nil, err
	}
	container.Lines = lines
	return s.buildView(ctx, container)
}

func (s *service) buildView(ctx context.Context, container *models.Container) (*View, error) {
	view := &View{
		ID:    container.ID,
		Kind:  container.Kind,
		Lines: make([]Line, 0, len(container.Lines)),
	}
	for _, line := range container.Lines {
		unit := line.CostCents
		title := line.Title
		if item, err := s.items.FindItemByID(ctx, line.ItemID); err == nil {
			unit = item.CostWithDiscount()
			title = item.Title
		}
		view.Lines = append(view.Lines, Line{
			ItemID:        line.ItemID,
			Qty:           line.Qty,
			Title:         title,
			UnitCents:     unit,
			SubtotalCents: unit * line.Qty,
		})
		view.Quantity += line.Qty
		view.TotalCents += unit * line.Qty
	}
	return view, nil
}

func withoutItem(lines []models.ContainerLine, itemID int64) []models.ContainerLine {
	kept := make([]models.ContainerLine, 0, len(lines))
	for _, line := range lines {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	return kept
}
