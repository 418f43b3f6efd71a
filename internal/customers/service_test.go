package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

type stubCustomerStore struct {
	customers map[int64]*models.Customer

	// raceOnInsert simulates a concurrent creation winning between the
	// initial read and the insert.
	raceOnInsert *models.Customer
}

func newStubCustomerStore() *stubCustomerStore {
	return &stubCustomerStore{customers: map[int64]*models.Customer{}}
}

func (s *stubCustomerStore) FindByID(_ context.Context, id int64) (*models.Customer, error) {
	return s.customers[id], nil
}

func (s *stubCustomerStore) Insert(_ context.Context, customer *models.Customer) (bool, error) {
	if s.raceOnInsert != nil {
		s.customers[s.raceOnInsert.ID] = s.raceOnInsert
		s.raceOnInsert = nil
		return true, nil
	}
	if _, ok := s.customers[customer.ID]; ok {
		return true, nil
	}
	s.customers[customer.ID] = customer
	return false, nil
}

func (s *stubCustomerStore) UpdateName(_ context.Context, id int64, name string) error {
	customer, ok := s.customers[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeCustomerNotFound, "customer not found")
	}
	customer.Name = name
	return nil
}

type stubContainerCreator struct {
	nextID int64
	kinds  []enums.ContainerKind
}

func (s *stubContainerCreator) Create(_ context.Context, kind enums.ContainerKind) (*models.Container, error) {
	s.nextID++
	s.kinds = append(s.kinds, kind)
	return &models.Container{ID: s.nextID, Kind: kind}, nil
}

func newTestService(t *testing.T, store *stubCustomerStore, containers *stubContainerCreator) Service {
	t.Helper()
	svc, err := NewService(store, containers)
	require.NoError(t, err)
	return svc
}

func TestEnsureExistenceCreatesCustomerWithContainers(t *testing.T) {
	store := newStubCustomerStore()
	containers := &stubContainerCreator{}
	svc := newTestService(t, store, containers)

	customer, err := svc.EnsureExistence(context.Background(), 101, "Dana")
	require.NoError(t, err)
	assert.Equal(t, int64(101), customer.ID)
	assert.Equal(t, "Dana", customer.Name)
	assert.Equal(t, int64(1), customer.CartID)
	assert.Equal(t, int64(2), customer.WishlistID)
	assert.Equal(t, []enums.ContainerKind{enums.ContainerKindCart, enums.ContainerKindWishlist}, containers.kinds)
}

func TestEnsureExistenceIsIdempotent(t *testing.T) {
	store := newStubCustomerStore()
	containers := &stubContainerCreator{}
	svc := newTestService(t, store, containers)

	first, err := svc.EnsureExistence(context.Background(), 101, "Dana")
	require.NoError(t, err)
	second, err := svc.EnsureExistence(context.Background(), 101, "Dana")
	require.NoError(t, err)

	assert.Equal(t, first.CartID, second.CartID)
	assert.Equal(t, first.WishlistID, second.WishlistID)
	assert.Len(t, containers.kinds, 2)
}

func TestEnsureExistenceUpdatesName(t *testing.T) {
	store := newStubCustomerStore()
	svc := newTestService(t, store, &stubContainerCreator{})

	_, err := svc.EnsureExistence(context.Background(), 101, "Dana")
	require.NoError(t, err)
	customer, err := svc.EnsureExistence(context.Background(), 101, "Dana K.")
	require.NoError(t, err)

	assert.Equal(t, "Dana K.", customer.Name)
	assert.Equal(t, "Dana K.", store.customers[101].Name)
}

func TestEnsureExistenceLosesCreationRace(t *testing.T) {
	store := newStubCustomerStore()
	winner := &models.Customer{ID: 101, Name: "Winner", CartID: 90, WishlistID: 91}
	store.raceOnInsert = winner
	svc := newTestService(t, store, &stubContainerCreator{})

	customer, err := svc.EnsureExistence(context.Background(), 101, "Loser")
	require.NoError(t, err)
	assert.Equal(t, winner, customer)
}

func TestEnsureExistenceRejectsNonPositiveID(t *testing.T) {
	svc := newTestService(t, newStubCustomerStore(), &stubContainerCreator{})

	_, err := svc.EnsureExistence(context.Background(), 0, "Dana")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestGet(t *testing.T) {
	store := newStubCustomerStore()
	store.customers[101] = &models.Customer{ID: 101, Name: "Dana"}
	svc := newTestService(t, store, &stubContainerCreator{})

	customer, err := svc.Get(context.Background(), 101)
	require.NoError(t, err)
	assert.Equal(t, "Dana", customer.Name)

	_, err = svc.Get(context.Background(), 102)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeCustomerNotFound, pkgerrors.CodeOf(err))
}
