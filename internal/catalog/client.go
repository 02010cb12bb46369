// Package catalog wraps the product catalog behind a circuit breaker. The
// cart engine's missing-line repair path depends on it; a misbehaving catalog
// should degrade that path fast instead of stacking up slow lookups.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/veldt/go_storefront/internal/domain"
	"github.com/veldt/go_storefront/internal/repository"
)

type Client struct {
	store repository.CatalogStore
	cb    *gobreaker.CircuitBreaker[domain.Product]
}

func NewClient(store repository.CatalogStore) *Client {
	settings := gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// A missing product is an answer, not a catalog outage.
			return err == nil || errors.Is(err, domain.ErrNotFound)
		},
	}

	return &Client{
		store: store,
		cb:    gobreaker.NewCircuitBreaker[domain.Product](settings),
	}
}

func (c *Client) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	return c.cb.Execute(func() (domain.Product, error) {
		return c.store.GetProduct(ctx, id)
	})
}
