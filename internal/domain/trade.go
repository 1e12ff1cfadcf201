// internal/domain/trade.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is one completed buy or sell, recorded append-only. Shares is signed:
// positive for a buy, negative for a sell. Rows are never mutated or deleted,
// so the sum of Shares per (user, symbol) is the authoritative share count.
type Trade struct {
	ID        int64           `db:"id" json:"id"`                 // Primary key, BIGSERIAL in DB
	UserID    int64           `db:"user_id" json:"user_id"`       // Foreign key to User
	Symbol    string          `db:"symbol" json:"symbol"`         // Ticker symbol
	Shares    int64           `db:"shares" json:"shares"`         // Signed share count
	Price     decimal.Decimal `db:"price" json:"price"`           // Unit price at transaction time
	CreatedAt time.Time       `db:"created_at" json:"created_at"` // Timestamp of record creation
}

// NewTrade creates a Trade record for a completed buy (positive shares) or
// sell (negative shares).
func NewTrade(userID int64, symbol string, shares int64, price decimal.Decimal) *Trade {
	return &Trade{
		UserID:    userID,
		Symbol:    symbol,
		Shares:    shares,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
}

// IsBuy reports whether the trade added shares.
func (t *Trade) IsBuy() bool { return t.Shares > 0 }
