package customers

import (
	"context"
	"errors"

	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

// Store is the persistence surface the customer service needs. *Repository
// is the production implementation.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	Insert(ctx context.Context, customer *models.Customer) (alreadyExists bool, err error)
	UpdateName(ctx context.Context, id int64, name string) error
}

// containerCreator allocates fresh cart and wishlist containers for new
// customers.
type containerCreator interface {
	Create(ctx context.Context, kind enums.ContainerKind) (*models.Container, error)
}

// Service manages customer records. Customer ids come from the caller, most
// commonly an upstream identity system.
type Service interface {
	// EnsureExistence returns the customer, creating it together with an
	// empty cart and wishlist on first sight. Idempotent and safe under
	// concurrent calls for the same id.
	EnsureExistence(ctx context.Context, id int64, name string) (*models.Customer, error)
	// Get returns the customer or CustomerNotFound.
	Get(ctx context.Context, id int64) (*models.Customer, error)
}

type service struct {
	repo       Store
	containers containerCreator
}

func NewService(repo Store, containers containerCreator) (Service, error) {
	if repo == nil {
		return nil, errors.New("customers service requires a store")
	}
	if containers == nil {
		return nil, errors.New("customers service requires a container creator")
	}
	return &service{repo: repo, containers: containers}, nil
}

func (s *service) EnsureExistence(ctx context.Context, id int64, name string) (*models.Customer, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id must be positive")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if name != "" && name != existing.Name {
			if err := s.repo.UpdateName(ctx, id, name); err != nil {
				return nil, err
			}
			existing.Name = name
		}
		return existing, nil
	}

	cart, err := s.containers.Create(ctx, enums.ContainerKindCart)
	if err != nil {
		return nil, err
	}
	wishlist, err := s.containers.Create(ctx, enums.ContainerKindWishlist)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		ID:         id,
		Name:       name,
		CartID:     cart.ID,
		WishlistID: wishlist.ID,
	}
	alreadyExists, err := s.repo.Insert(ctx, customer)
	if err != nil {
		return nil, err
	}
	if alreadyExists {
		// Lost the race; the winner's record is the one that counts.
		winner, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer vanished after duplicate insert")
		}
		return winner, nil
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCustomerNotFound, "customer not found")
	}
	return customer, nil
}
