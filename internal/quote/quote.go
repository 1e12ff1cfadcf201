// internal/quote/quote.go
package quote

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is the current market view of one symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Service resolves a ticker symbol to its current quote.
// An unknown symbol fails with util.ErrInvalidSymbol.
type Service interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}
