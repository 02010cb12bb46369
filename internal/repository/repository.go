package repository

import (
	"context"
	"fmt"

	"github.com/veldt/go_storefront/internal/domain"
)

// Sentinel errors for absent records. Each wraps the coarse taxonomy error
// (domain.ErrNotFound, or domain.ErrValidation for the duplicate-account
// case) so callers can branch with errors.Is at either granularity.
var (
	ErrLineNotFound     = fmt.Errorf("cart line: %w", domain.ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product: %w", domain.ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category: %w", domain.ErrNotFound)
	ErrAccountNotFound  = fmt.Errorf("account: %w", domain.ErrNotFound)
	ErrDuplicateAccount = fmt.Errorf("email already registered: %w", domain.ErrValidation)
)

// CartStore is the persistent keyed collection of cart lines, addressable by
// (account, product). Shared across all sessions of the same account.
type CartStore interface {
	// BulkRead returns every line for the account, oldest first.
	BulkRead(ctx context.Context, accountID string) ([]domain.CartLine, error)
	// UpsertIncrement adds line.Quantity to the stored quantity, creating the
	// line (with the given name/price snapshot) if absent. The delta form is
	// what lets concurrent sessions converge instead of last-write-wins.
	UpsertIncrement(ctx context.Context, line domain.CartLine) error
	// SetQuantity overwrites the stored quantity. Quantity must be >= 1;
	// zero is routed to Delete by the caller.
	SetQuantity(ctx context.Context, accountID string, productID int64, quantity int) error
	// Delete removes one line. Returns ErrLineNotFound if absent.
	Delete(ctx context.Context, accountID string, productID int64) error
	// ClearAll removes every line for the account.
	ClearAll(ctx context.Context, accountID string) error
}

// OrderStore is the append-only collection of placed orders.
type OrderStore interface {
	// Create persists the order and returns the generated order identifier.
	Create(ctx context.Context, order domain.Order) (string, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Order, error)
}

// CatalogStore serves read-only product and category data.
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
}

// AccountStore holds registered accounts keyed by email.
type AccountStore interface {
	Create(ctx context.Context, account domain.Account) error
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
}
