// Package checkout converts a synchronized cart into a priced, persisted
// order and clears the cart afterwards.
//
// Order creation and cart clearing are two independent calls with no
// atomicity between them. A crash in between leaves the order placed and the
// cart populated; the next cart view shows stale lines until they are cleared
// by hand or hydrated away. That is accepted for this domain.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/veldt/go_storefront/internal/cart"
	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to check out")

// Workflow drives order placement for one session.
type Workflow struct {
	engine *cart.Engine
	orders repository.OrderStore
	logger zerolog.Logger

	mu         sync.Mutex
	lastOrder  *domain.Order
	justPlaced bool
}

func NewWorkflow(engine *cart.Engine, orders repository.OrderStore, logger zerolog.Logger) *Workflow {
	return &Workflow{
		engine: engine,
		orders: orders,
		logger: logger.With().Str("component", "checkout").Str("account", engine.AccountID()).Logger(),
	}
}

// SubmitOrder validates the shipping address, prices the current local cart,
// persists the order, then clears the cart remotely and locally. On any
// failure before the order-create call succeeds, nothing is cleared and the
// caller may retry from the same local cart state.
//
// Resubmission after a lost success response can create a duplicate order;
// there is no idempotency key. Known gap, kept deliberately.
func (w *Workflow) SubmitOrder(ctx context.Context, address domain.ShippingAddress) (*domain.Order, error) {
	if w.engine.AccountID() == "" {
		return nil, fmt.Errorf("%w: no signed-in account", domain.ErrAuth)
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	lines := w.engine.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	totals := Price(lines)
	order := domain.Order{
		AccountID:    w.engine.AccountID(),
		Shipping:     address,
		Lines:        snapshotLines(lines),
		Subtotal:     totals.Subtotal,
		ShippingCost: totals.Shipping,
		Tax:          totals.Tax,
		Total:        totals.Total,
		PlacedAt:     time.Now().Truncate(24 * time.Hour),
	}

	orderID, err := w.orders.Create(ctx, order)
	if err != nil {
		w.logger.Error().Err(err).Msg("order creation failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	order.OrderID = orderID

	w.mu.Lock()
	w.lastOrder = &order
	w.justPlaced = true
	w.mu.Unlock()

	// Remote first, then local, matching the post-checkout clear order. The
	// remote clear is fire-and-forget like every other reconciliation call.
	w.engine.ClearRemote()
	w.engine.ClearLocal()

	w.logger.Info().Str("order_id", orderID).Int("lines", len(order.Lines)).Msg("order placed")
	return &order, nil
}

// LastOrder returns the most recently placed order for this session, if any.
// Backs the order-confirmation view.
func (w *Workflow) LastOrder() (*domain.Order, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.lastOrder == nil {
		return nil, false
	}
	o := *w.lastOrder
	return &o, true
}

// AbortToCart reports whether an open checkout view should route back to the
// cart: the local view is empty and no order has just been placed. The
// just-placed guard keeps the emptiness check from misfiring during the
// post-submit transition.
func (w *Workflow) AbortToCart() bool {
	w.mu.Lock()
	placed := w.justPlaced
	w.mu.Unlock()
	return len(w.engine.Lines()) == 0 && !placed
}

func snapshotLines(lines []domain.CartLine) []domain.OrderLine {
	out := make([]domain.OrderLine, len(lines))
	for i, l := range lines {
		out[i] = domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
	}
	return out
}
