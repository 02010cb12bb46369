package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product's presence in one account's cart. Name and price are
// snapshotted when the line is first added and never refreshed from the catalog.
type CartLine struct {
	AccountID   string          `json:"accountId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"addedAt"`
}

// LineTotal is unit price times quantity, unrounded. Rounding to two decimal
// places happens at display time only.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
