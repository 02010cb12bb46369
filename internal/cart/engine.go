// Package cart implements the per-session cart view and its reconciliation
// protocol against the cart record store.
//
// The local view is authoritative for the session: every mutation updates it
// synchronously and returns, then a background reconciliation call pushes the
// change to storage. Reconciliation calls are fire-and-forget; no ordering is
// guaranteed between overlapping calls for the same account beyond what each
// call's own semantics provide (delta-increment for add, absolute set for
// update, delete for remove). Divergence is tolerated and self-corrects on
// the next Hydrate.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/veldt/go_storefront/internal/cache"
	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

// ProductCatalog resolves a product's canonical name and price. Used only by
// the UpdateQuantity repair path when the local line is missing.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

const defaultSyncTimeout = 5 * time.Second

// Engine holds one session's in-memory cart view and reconciles it with the
// cart record store.
type Engine struct {
	accountID string
	store     repository.CartStore
	cache     cache.CartCache
	catalog   ProductCatalog
	logger    zerolog.Logger

	syncTimeout time.Duration

	mu    sync.Mutex
	lines []domain.CartLine

	sfg singleflight.Group
	wg  sync.WaitGroup
}

func NewEngine(accountID string, store repository.CartStore, cartCache cache.CartCache, catalog ProductCatalog, logger zerolog.Logger) *Engine {
	return &Engine{
		accountID:   accountID,
		store:       store,
		cache:       cartCache,
		catalog:     catalog,
		logger:      logger.With().Str("component", "cart_engine").Str("account", accountID).Logger(),
		syncTimeout: defaultSyncTimeout,
	}
}

func (e *Engine) AccountID() string {
	return e.accountID
}

// Lines returns a copy of the current local view, in insertion order.
func (e *Engine) Lines() []domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// AddItem inserts a new line with quantity 1, snapshotting the product's name
// and price, or increments an existing line. The local view is updated before
// this returns; the store is reconciled in the background with a delta of 1.
func (e *Engine) AddItem(product domain.Product) []domain.CartLine {
	e.mu.Lock()
	e.addLocked(product)
	view := e.snapshotLocked()
	e.mu.Unlock()

	e.reconcile("add", product.ID, func(ctx context.Context) error {
		return e.store.UpsertIncrement(ctx, domain.CartLine{
			AccountID:   e.accountID,
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    1,
		})
	})

	return view
}

// UpdateQuantity sets a line's quantity to exactly newQuantity. Zero routes
// to RemoveItem. If the line is missing locally (a hydrate may have replaced
// the view), the product is re-resolved from the catalog and inserted first,
// so the final local quantity is newQuantity, not newQuantity+1.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int64, newQuantity int) error {
	if newQuantity == 0 {
		e.RemoveItem(productID)
		return nil
	}
	if newQuantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", domain.ErrValidation)
	}

	e.mu.Lock()
	_, exists := e.findLocked(productID)
	e.mu.Unlock()

	if !exists {
		product, err := e.catalog.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("failed to resolve product %d: %w", productID, err)
		}
		e.AddItem(product)
	}

	e.mu.Lock()
	if i, ok := e.findLocked(productID); ok {
		e.lines[i].Quantity = newQuantity
	}
	e.mu.Unlock()

	e.reconcile("set_quantity", productID, func(ctx context.Context) error {
		return e.store.SetQuantity(ctx, e.accountID, productID, newQuantity)
	})
	return nil
}

// RemoveItem deletes the line unconditionally. Removing an absent line is a
// no-op, locally and remotely.
func (e *Engine) RemoveItem(productID int64) {
	e.mu.Lock()
	if i, ok := e.findLocked(productID); ok {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	}
	e.mu.Unlock()

	e.reconcile("remove", productID, func(ctx context.Context) error {
		err := e.store.Delete(ctx, e.accountID, productID)
		if errors.Is(err, repository.ErrLineNotFound) {
			return nil
		}
		return err
	})
}

// ClearLocal empties the local view without contacting storage. Used right
// after a confirmed order so the old cart never flashes back before the next
// hydrate.
func (e *Engine) ClearLocal() {
	e.mu.Lock()
	e.lines = nil
	e.mu.Unlock()
}

// ClearRemote issues a bulk delete for the account's stored lines. Used in
// the same post-checkout moment as ClearLocal, and on logout.
func (e *Engine) ClearRemote() {
	e.reconcile("clear", 0, func(ctx context.Context) error {
		return e.store.ClearAll(ctx, e.accountID)
	})
}

// Hydrate replaces the entire local view with a fresh bulk read. Performed at
// session boundaries; staleness between hydrates is accepted.
func (e *Engine) Hydrate(ctx context.Context) error {
	v, err, _ := e.sfg.Do(e.accountID, func() (interface{}, error) {
		if e.cache != nil {
			lines, errGet := e.cache.Get(ctx, e.accountID)
			if errGet == nil {
				return lines, nil
			}
			if !errors.Is(errGet, cache.ErrCacheMiss) {
				e.logger.Warn().Err(errGet).Msg("cart cache get failed")
			}
		}

		lines, err := e.store.BulkRead(ctx, e.accountID)
		if err != nil {
			return nil, err
		}

		if e.cache != nil {
			e.wg.Add(1)
			go func() {
				defer e.wg.Done()
				setCtx, cancel := context.WithTimeout(context.Background(), e.syncTimeout)
				defer cancel()
				if errSet := e.cache.Set(setCtx, e.accountID, lines); errSet != nil {
					e.logger.Warn().Err(errSet).Msg("cart cache set failed")
				}
			}()
		}
		return lines, nil
	})
	if err != nil {
		return fmt.Errorf("failed to hydrate cart: %w", err)
	}

	lines := v.([]domain.CartLine)
	e.mu.Lock()
	e.lines = make([]domain.CartLine, len(lines))
	copy(e.lines, lines)
	e.mu.Unlock()
	return nil
}

// Wait blocks until all in-flight reconciliation calls have finished. Used by
// graceful shutdown and tests; normal operation never waits.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) addLocked(product domain.Product) {
	if i, ok := e.findLocked(product.ID); ok {
		e.lines[i].Quantity++
		return
	}
	e.lines = append(e.lines, domain.CartLine{
		AccountID:   e.accountID,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    1,
		AddedAt:     time.Now(),
	})
}

func (e *Engine) findLocked(productID int64) (int, bool) {
	for i, line := range e.lines {
		if line.ProductID == productID {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) snapshotLocked() []domain.CartLine {
	out := make([]domain.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}

// reconcile fires a background storage call. Failures are logged, never
// surfaced: the local view stays authoritative for the session and storage
// catches up on the next hydrate. Once fired, a call is not cancellable and
// carries no sequencing token.
func (e *Engine) reconcile(op string, productID int64, fn func(ctx context.Context) error) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), e.syncTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			e.logger.Error().
				Err(err).
				Str("op", op).
				Int64("product", productID).
				Msg("cart reconciliation failed")
			return
		}
		e.invalidateCache()
	}()
}

func (e *Engine) invalidateCache() {
	if e.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := e.cache.Delete(ctx, e.accountID); err != nil {
		e.logger.Warn().Err(err).Msg("cart cache invalidate failed")
	}
}
