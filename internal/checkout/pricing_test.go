package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/veldt/go_storefront/internal/domain"
)

func TestPrice_EmptyCart(t *testing.T) {
	totals := Price(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(10)), "shipping still applies")
}

func TestPrice_FractionalPricesStayExact(t *testing.T) {
	lines := []domain.CartLine{
		{UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3},
	}
	totals := Price(lines)

	// 0.1*3 = 0.3 exactly; float arithmetic would drift here.
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("0.30")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("0.03")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("10.33")), "total %s", totals.Total)
}
