package services

import (
	"context"
	"strings"
	"testing"

	"PerfumeStoreAPI/internal/model"
	"PerfumeStoreAPI/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderStore struct {
	lastTx    *fakeTx
	itemCount int
	status    string
}

func (f *fakeOrderStore) Begin(ctx context.Context) (pgx.Tx, error) {
	f.lastTx = &fakeTx{}
	return f.lastTx, nil
}

func (f *fakeOrderStore) CreateTx(ctx context.Context, tx pgx.Tx, userID int64, reference string,
	ship model.ShippingAddress, paymentMethod string, totalAmount, shippingCost, taxAmount float64) (int64, error) {
	return 77, nil
}

func (f *fakeOrderStore) InsertItemTx(ctx context.Context, tx pgx.Tx, orderID, perfumeID int64, qty int, size string, unitPrice float64) error {
	f.itemCount++
	return nil
}

func (f *fakeOrderStore) SetStatusTx(ctx context.Context, tx pgx.Tx, orderID int64, status string) error {
	f.status = status
	return nil
}

type fakePaymentStore struct {
	last4, holder, expiry string
}

func (f *fakePaymentStore) InsertTx(ctx context.Context, tx pgx.Tx, orderID int64, last4, holderName, expiry string) error {
	f.last4, f.holder, f.expiry = last4, holderName, expiry
	return nil
}

func newCheckoutFixture() (*CheckoutService, *fakeOrderStore, *fakeCartStore, *fakeStockStore, *fakePaymentStore) {
	orders := &fakeOrderStore{}
	cart := newFakeCartStore()
	stock := &fakeStockStore{perfumes: map[int64]repository.LockedPerfume{
		5: {Name: "Oud Royale", Price: 75, Stock: 10, Size: "50ml"},
	}}
	payments := &fakePaymentStore{}
	return NewCheckoutService(orders, cart, stock, payments, zap.NewNop()), orders, cart, stock, payments
}

func checkoutPayload() *model.CheckoutRequest {
	total, tax, shipping := 150.0, 12.0, 5.0
	return &model.CheckoutRequest{
		Shipping: &model.ShippingAddress{
			FirstName: "Daisy", LastName: "Prasad", Email: "daisy@example.com",
			Phone: "9999999999", Address: "12 Rose St", City: "Hyderabad",
			State: "TS", Zip: "500001",
		},
		PaymentMethod: "cod",
		Items:         []model.CheckoutItem{{PerfumeID: 5, Quantity: 2, Price: 75}},
		TotalPrice:    &total,
		Tax:           &tax,
		ShippingCost:  &shipping,
	}
}

// Payload validation happens before any transaction is opened, so these run
// against a zero-value service.
func TestCheckoutRejectsInvalidPayload(t *testing.T) {
	svc := &CheckoutService{}

	_, err := svc.Checkout(context.Background(), 1, &model.CheckoutRequest{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Missing required field: shipping", apiErr.Message)
}

func TestCheckoutRejectsBadPaymentMethod(t *testing.T) {
	svc := &CheckoutService{}

	req := checkoutPayload()
	req.PaymentMethod = "paypal"
	_, err := svc.Checkout(context.Background(), 1, req)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "payment_method must be 'card' or 'cod'", apiErr.Message)
}

func TestCheckoutCODClearsCartAndSetsStatus(t *testing.T) {
	svc, orders, cart, stock, payments := newCheckoutFixture()
	cart.rows[cartKey{1, 5, "50ml"}] = 2

	res, err := svc.Checkout(context.Background(), 1, checkoutPayload())
	require.NoError(t, err)
	assert.Equal(t, int64(77), res.OrderID)
	assert.True(t, strings.HasPrefix(res.Reference, "ORD-"))
	assert.Equal(t, model.StatusCODPending, res.Status)
	assert.InDelta(t, 167.0, res.Total, 0.0001)

	assert.True(t, orders.lastTx.committed)
	assert.Equal(t, model.StatusCODPending, orders.status)
	assert.Equal(t, 1, orders.itemCount)
	assert.True(t, cart.cleared)
	assert.Equal(t, 8, stock.perfumes[5].Stock)
	assert.Empty(t, payments.last4) // cod stores no card record
}

func TestCheckoutCardStoresMaskedPayment(t *testing.T) {
	svc, orders, _, _, payments := newCheckoutFixture()
	req := checkoutPayload()
	req.PaymentMethod = "card"
	req.CardDetails = &model.CardDetails{
		CardName: "Daisy Prasad", CardNumber: "4111 1111 1111 1111",
		Expiry: "12/27", CVV: "123",
	}

	res, err := svc.Checkout(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, res.Status)
	assert.Equal(t, model.StatusPaid, orders.status)
	assert.Equal(t, "1111", payments.last4)
	assert.Equal(t, "Daisy Prasad", payments.holder)
}

func TestCheckoutRollsBackWhenStockShort(t *testing.T) {
	svc, orders, cart, stock, _ := newCheckoutFixture()
	cart.rows[cartKey{1, 5, "50ml"}] = 2
	stock.perfumes[5] = repository.LockedPerfume{Name: "Oud Royale", Price: 75, Stock: 1, Size: "50ml"}

	_, err := svc.Checkout(context.Background(), 1, checkoutPayload())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Only 1 left of Oud Royale", apiErr.Message)

	assert.True(t, orders.lastTx.rolledBack)
	assert.False(t, orders.lastTx.committed)
	assert.False(t, cart.cleared)
	assert.Equal(t, 1, stock.perfumes[5].Stock)
	assert.Equal(t, 2, cart.rows[cartKey{1, 5, "50ml"}])
}

func TestCheckoutRejectsPriceMismatch(t *testing.T) {
	svc, orders, _, _, _ := newCheckoutFixture()
	req := checkoutPayload()
	req.Items[0].Price = 60

	_, err := svc.Checkout(context.Background(), 1, req)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "Price mismatch for Oud Royale", apiErr.Message)
	assert.True(t, orders.lastTx.rolledBack)
}

func TestCheckoutUnknownPerfume(t *testing.T) {
	svc, orders, _, _, _ := newCheckoutFixture()
	req := checkoutPayload()
	req.Items[0].PerfumeID = 9

	_, err := svc.Checkout(context.Background(), 1, req)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, "Perfume ID 9 not found or unavailable", apiErr.Message)
	assert.True(t, orders.lastTx.rolledBack)
}
