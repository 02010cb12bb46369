package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/veldt/go_storefront/internal/domain"
)

// Flat shipping and tax rate. Totals are computed once at submission and
// stored unrounded; rounding to two places is a display concern.
var (
	shippingCost = decimal.NewFromInt(10)
	taxRate      = decimal.RequireFromString("0.1")
)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func Price(lines []domain.CartLine) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shippingCost,
		Tax:      tax,
		Total:    subtotal.Add(shippingCost).Add(tax),
	}
}
