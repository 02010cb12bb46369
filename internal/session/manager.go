// Package session holds the explicit per-account application state that the
// storefront's page views operate on: the cart engine and the checkout
// workflow, constructed on login and torn down on logout. Two sessions of the
// same account each hold their own local cart view; the shared state lives in
// the record store and is re-read on hydrate.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/veldt/go_storefront/internal/cache"
	"github.com/veldt/go_storefront/internal/cart"
	"github.com/veldt/go_storefront/internal/checkout"
	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

type Session struct {
	ID        string
	AccountID string
	FirstName string
	LastName  string
	CreatedAt time.Time

	Engine   *cart.Engine
	Checkout *checkout.Workflow
}

type Manager struct {
	cartStore repository.CartStore
	orders    repository.OrderStore
	cartCache cache.CartCache
	catalog   cart.ProductCatalog
	logger    zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cartStore repository.CartStore, orders repository.OrderStore, cartCache cache.CartCache, catalog cart.ProductCatalog, logger zerolog.Logger) *Manager {
	return &Manager{
		cartStore: cartStore,
		orders:    orders,
		cartCache: cartCache,
		catalog:   catalog,
		logger:    logger,
		sessions:  make(map[string]*Session),
	}
}

// Start builds the session state for a verified account and hydrates its
// cart view from the record store.
func (m *Manager) Start(ctx context.Context, account domain.Account) (*Session, error) {
	if account.Email == "" {
		return nil, fmt.Errorf("%w: account email is required", domain.ErrValidation)
	}

	engine := cart.NewEngine(account.Email, m.cartStore, m.cartCache, m.catalog, m.logger)
	if err := engine.Hydrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to hydrate session cart: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		AccountID: account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		CreatedAt: time.Now(),
		Engine:    engine,
	}
	s.Checkout = checkout.NewWorkflow(engine, m.orders, m.logger)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().Str("account", account.Email).Str("session", s.ID).Msg("session started")
	return s, nil
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// End tears a session down: the stored cart lines are cleared along with the
// local view, and the session is forgotten. Ending an unknown session is a
// no-op.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return
	}
	s.Engine.ClearRemote()
	s.Engine.ClearLocal()
	m.logger.Info().Str("account", s.AccountID).Str("session", id).Msg("session ended")
}

// Shutdown waits for every session's in-flight reconciliation calls.
func (m *Manager) Shutdown() {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		s.Engine.Wait()
	}
}
