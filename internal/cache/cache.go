package cache

import (
	"context"
	"errors"

	"github.com/veldt/go_storefront/internal/domain"
)

// CartCache fronts the cart record store on the hydrate path. A nil slice is
// a valid cached value (empty cart); absence is signalled by ErrCacheMiss.
type CartCache interface {
	Get(ctx context.Context, accountID string) ([]domain.CartLine, error)
	Set(ctx context.Context, accountID string, lines []domain.CartLine) error
	Delete(ctx context.Context, accountID string) error
}

var ErrCacheMiss = errors.New("cache miss")
