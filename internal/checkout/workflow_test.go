package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldt/go_storefront/internal/cart"
	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

type mockCartStore struct {
	mu    sync.Mutex
	lines map[int64]domain.CartLine
}

func newMockCartStore() *mockCartStore {
	return &mockCartStore{lines: make(map[int64]domain.CartLine)}
}

func (m *mockCartStore) BulkRead(context.Context, string) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartLine, 0, len(m.lines))
	for _, l := range m.lines {
		out = append(out, l)
	}
	return out, nil
}

func (m *mockCartStore) UpsertIncrement(_ context.Context, line domain.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.lines[line.ProductID]; ok {
		existing.Quantity += line.Quantity
		m.lines[line.ProductID] = existing
		return nil
	}
	m.lines[line.ProductID] = line
	return nil
}

func (m *mockCartStore) SetQuantity(_ context.Context, _ string, productID int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lines[productID]
	if !ok {
		return repository.ErrLineNotFound
	}
	l.Quantity = quantity
	m.lines[productID] = l
	return nil
}

func (m *mockCartStore) Delete(_ context.Context, _ string, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lines[productID]; !ok {
		return repository.ErrLineNotFound
	}
	delete(m.lines, productID)
	return nil
}

func (m *mockCartStore) ClearAll(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = make(map[int64]domain.CartLine)
	return nil
}

func (m *mockCartStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

type mockCatalog struct{}

func (mockCatalog) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	return domain.Product{}, repository.ErrProductNotFound
}

type mockOrderStore struct {
	mu      sync.Mutex
	created []domain.Order
	err     error
}

func (m *mockOrderStore) Create(_ context.Context, order domain.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	order.OrderID = "ORDTEST12345"
	m.created = append(m.created, order)
	return order.OrderID, nil
}

func (m *mockOrderStore) ListByAccount(_ context.Context, accountID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, o := range m.created {
		if o.AccountID == accountID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.created)
}

func validAddress() domain.ShippingAddress {
	return domain.ShippingAddress{
		Street:     "1 Main St",
		City:       "Springfield",
		Region:     "IL",
		PostalCode: "62704",
		Country:    "US",
	}
}

func newTestWorkflow(cartStore *mockCartStore, orders *mockOrderStore) (*Workflow, *cart.Engine) {
	engine := cart.NewEngine("alice@example.com", cartStore, nil, mockCatalog{}, zerolog.Nop())
	return NewWorkflow(engine, orders, zerolog.Nop()), engine
}

func fillCart(t *testing.T, engine *cart.Engine) {
	t.Helper()
	engine.AddItem(domain.Product{ID: 1, Name: "widget", Price: decimal.NewFromInt(100)})
	engine.Wait()
	require.NoError(t, engine.UpdateQuantity(context.Background(), 1, 2))
	engine.AddItem(domain.Product{ID: 2, Name: "gadget", Price: decimal.NewFromInt(50)})
	engine.Wait()
}

func TestSubmitOrder_EmptyCartRejectedBeforeStoreCall(t *testing.T) {
	orders := &mockOrderStore{}
	w, _ := newTestWorkflow(newMockCartStore(), orders)

	_, err := w.SubmitOrder(context.Background(), validAddress())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, orders.count())
}

func TestSubmitOrder_MissingShippingFieldRejectedBeforeStoreCall(t *testing.T) {
	orders := &mockOrderStore{}
	w, engine := newTestWorkflow(newMockCartStore(), orders)
	fillCart(t, engine)

	addr := validAddress()
	addr.City = ""
	_, err := w.SubmitOrder(context.Background(), addr)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, orders.count())
	assert.Len(t, engine.Lines(), 2, "cart untouched")
}

func TestSubmitOrder_Totals(t *testing.T) {
	orders := &mockOrderStore{}
	w, engine := newTestWorkflow(newMockCartStore(), orders)
	fillCart(t, engine) // 100 x2 + 50 x1

	order, err := w.SubmitOrder(context.Background(), validAddress())
	require.NoError(t, err)

	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(250)), "subtotal %s", order.Subtotal)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(10)), "shipping %s", order.ShippingCost)
	assert.True(t, order.Tax.Equal(decimal.NewFromInt(25)), "tax %s", order.Tax)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(285)), "total %s", order.Total)

	// The store received exactly these numbers.
	require.Equal(t, 1, orders.count())
	stored := orders.created[0]
	assert.True(t, stored.Subtotal.Equal(decimal.NewFromInt(250)))
	assert.True(t, stored.Tax.Equal(decimal.NewFromInt(25)))
	assert.True(t, stored.Total.Equal(decimal.NewFromInt(285)))
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, 2, stored.Lines[0].Quantity)
}

func TestSubmitOrder_SuccessClearsCartAndRecordsOrder(t *testing.T) {
	cartStore := newMockCartStore()
	orders := &mockOrderStore{}
	w, engine := newTestWorkflow(cartStore, orders)
	fillCart(t, engine)

	order, err := w.SubmitOrder(context.Background(), validAddress())
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)

	assert.Empty(t, engine.Lines(), "local view cleared")
	engine.Wait()
	assert.Zero(t, cartStore.size(), "remote lines cleared")

	last, ok := w.LastOrder()
	require.True(t, ok)
	assert.Equal(t, order.OrderID, last.OrderID)

	listed, err := orders.ListByAccount(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, order.OrderID, listed[0].OrderID)

	assert.False(t, w.AbortToCart(), "just-placed guard holds the empty-cart check off")
}

func TestSubmitOrder_StoreFailureKeepsCart(t *testing.T) {
	cartStore := newMockCartStore()
	orders := &mockOrderStore{err: assert.AnError}
	w, engine := newTestWorkflow(cartStore, orders)
	fillCart(t, engine)

	_, err := w.SubmitOrder(context.Background(), validAddress())

	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Len(t, engine.Lines(), 2, "cart kept for retry")
	_, ok := w.LastOrder()
	assert.False(t, ok)
	assert.False(t, w.AbortToCart(), "cart is non-empty")
}

func TestAbortToCart_EmptyCartNoOrder(t *testing.T) {
	w, _ := newTestWorkflow(newMockCartStore(), &mockOrderStore{})
	assert.True(t, w.AbortToCart())
}

func TestSubmitOrder_NoAccountRejected(t *testing.T) {
	engine := cart.NewEngine("", newMockCartStore(), nil, mockCatalog{}, zerolog.Nop())
	w := NewWorkflow(engine, &mockOrderStore{}, zerolog.Nop())

	_, err := w.SubmitOrder(context.Background(), validAddress())
	assert.ErrorIs(t, err, domain.ErrAuth)
}
