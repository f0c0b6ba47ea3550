package services

import (
	"context"
	"errors"
	"testing"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTx satisfies pgx.Tx for the commit/rollback bookkeeping the services
// do; everything else goes through the store fakes.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type cartKey struct {
	userID, perfumeID int64
	size              string
}

type fakeCartStore struct {
	rows    map[cartKey]int
	cleared bool
	lastTx  *fakeTx
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{rows: map[cartKey]int{}}
}

func (f *fakeCartStore) Begin(ctx context.Context) (pgx.Tx, error) {
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeCartStore) QuantityTx(ctx context.Context, tx pgx.Tx, userID, perfumeID int64, size string) (int, error) {
	return f.rows[cartKey{userID, perfumeID, size}], nil
}

func (f *fakeCartStore) UpsertTx(ctx context.Context, tx pgx.Tx, userID, perfumeID int64, size string, qty int) error {
	f.rows[cartKey{userID, perfumeID, size}] = qty
	return nil
}

func (f *fakeCartStore) List(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return nil, nil
}

func (f *fakeCartStore) Remove(ctx context.Context, userID, perfumeID int64) error {
	return nil
}

func (f *fakeCartStore) ClearTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	f.cleared = true
	return nil
}

type fakeStockStore struct {
	perfumes map[int64]repository.LockedPerfume
}

func (f *fakeStockStore) LockForUpdateTx(ctx context.Context, tx pgx.Tx, perfumeID int64) (*repository.LockedPerfume, error) {
	p, ok := f.perfumes[perfumeID]
	if !ok {
		return nil, repository.ErrPerfumeNotAvailable
	}
	return &p, nil
}

func (f *fakeStockStore) DecrementStockTx(ctx context.Context, tx pgx.Tx, perfumeID int64, qty int) error {
	p, ok := f.perfumes[perfumeID]
	if !ok || p.Stock < qty {
		return errors.New("insufficient stock")
	}
	p.Stock -= qty
	f.perfumes[perfumeID] = p
	return nil
}

func newCartFixture() (*CartService, *fakeCartStore, *fakeStockStore) {
	cart := newFakeCartStore()
	stock := &fakeStockStore{perfumes: map[int64]repository.LockedPerfume{
		5: {Name: "Oud Royale", Price: 75, Stock: 10, Size: "50ml"},
	}}
	return NewCartService(cart, stock, zap.NewNop()), cart, stock
}

func TestAddAccumulatesAcrossCalls(t *testing.T) {
	svc, cart, _ := newCartFixture()

	added, itemErrs, err := svc.Add(context.Background(), 1, []model.CartAddItem{{PerfumeID: 5, Quantity: 2}})
	require.NoError(t, err)
	require.Empty(t, itemErrs)
	require.Len(t, added, 1)
	assert.Equal(t, 2, added[0].TotalInCart)
	assert.Equal(t, "50ml", added[0].Size) // canonical size fills the blank

	added, itemErrs, err = svc.Add(context.Background(), 1, []model.CartAddItem{{PerfumeID: 5, Quantity: 3}})
	require.NoError(t, err)
	require.Empty(t, itemErrs)
	require.Len(t, added, 1)
	assert.Equal(t, 5, added[0].TotalInCart)
	assert.Equal(t, 5, cart.rows[cartKey{1, 5, "50ml"}])
	assert.True(t, cart.lastTx.committed)
}

func TestAddCapsAtStock(t *testing.T) {
	svc, cart, _ := newCartFixture()
	cart.rows[cartKey{1, 5, "50ml"}] = 5

	added, itemErrs, err := svc.Add(context.Background(), 1, []model.CartAddItem{{PerfumeID: 5, Quantity: 6, Size: "50ml"}})
	require.NoError(t, err)
	assert.Empty(t, added)
	require.Len(t, itemErrs, 1)
	assert.Equal(t, "Only 10 in stock (you have 5)", itemErrs[0].Error)
	assert.Equal(t, 5, cart.rows[cartKey{1, 5, "50ml"}])
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	svc, _, _ := newCartFixture()

	added, itemErrs, err := svc.Add(context.Background(), 1, []model.CartAddItem{{PerfumeID: 5}})
	require.NoError(t, err)
	require.Empty(t, itemErrs)
	require.Len(t, added, 1)
	assert.Equal(t, 1, added[0].TotalInCart)
}

func TestAddPartialSuccessStillCommits(t *testing.T) {
	svc, cart, _ := newCartFixture()

	added, itemErrs, err := svc.Add(context.Background(), 1, []model.CartAddItem{
		{PerfumeID: 5, Quantity: 2},
		{PerfumeID: 9, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Len(t, itemErrs, 1)
	assert.Equal(t, "Perfume not available", itemErrs[0].Error)
	assert.Equal(t, 2, cart.rows[cartKey{1, 5, "50ml"}])
	assert.True(t, cart.lastTx.committed)
}

func TestAddEmptyBatch(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, _, err := svc.Add(context.Background(), 1, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "No items provided", apiErr.Message)
}
