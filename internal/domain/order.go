package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine is a line item copied out of the cart at submission time. It holds
// no reference back to the CartLine it came from.
type OrderLine struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Validate checks that every shipping field is present. No format validation
// beyond presence.
func (a ShippingAddress) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"region", a.Region},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("%w: missing shipping field %q", ErrValidation, f.name)
		}
	}
	return nil
}

// Order is an immutable snapshot of a completed purchase. Totals are computed
// once at submission and never recomputed.
type Order struct {
	OrderID      string          `json:"orderId"`
	AccountID    string          `json:"accountId"`
	Shipping     ShippingAddress `json:"shipping"`
	Lines        []OrderLine     `json:"lines"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	PlacedAt     time.Time       `json:"placedAt"`
}

// PlacedDate is the day-precision placement date stored with the order.
const PlacedDateFormat = "2006-01-02"

func (o Order) PlacedDate() string {
	return o.PlacedAt.Format(PlacedDateFormat)
}
