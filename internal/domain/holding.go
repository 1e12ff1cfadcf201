// internal/domain/holding.go
package domain

import (
	"github.com/shopspring/decimal"
)

// Holding is a user's current position in one symbol. At most one row exists
// per (user_id, symbol); a holding with zero shares is deleted, not kept.
//
// Price and Total are a cached display snapshot refreshed whenever the
// portfolio is viewed. They are never used to enforce an invariant; the
// trade ledger is the source of truth for share counts.
type Holding struct {
	UserID int64           `db:"user_id" json:"user_id"`
	Symbol string          `db:"symbol" json:"symbol"`
	Name   string          `db:"name" json:"name"`
	Shares int64           `db:"shares" json:"shares"` // Always > 0 while the row exists
	Price  decimal.Decimal `db:"price" json:"price"`   // Snapshot unit price
	Total  decimal.Decimal `db:"total" json:"total"`   // Snapshot shares × price
}

// NewHolding creates a Holding for a first purchase of a symbol.
func NewHolding(userID int64, symbol, name string, shares int64, price decimal.Decimal) *Holding {
	return &Holding{
		UserID: userID,
		Symbol: symbol,
		Name:   name,
		Shares: shares,
		Price:  price,
		Total:  price.Mul(decimal.NewFromInt(shares)),
	}
}
