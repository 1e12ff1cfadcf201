// internal/repository/trade_repo.go
package repository

import (
	"context"

	"papertrade/internal/domain"
)

// TradeRepository defines the interface for the append-only trade ledger.
type TradeRepository interface {
	// CreateTrade appends a completed buy or sell to the ledger.
	CreateTrade(ctx context.Context, q DBExecutor, trade *domain.Trade) error
	// ListTradesByUser retrieves the user's full history in creation order.
	ListTradesByUser(ctx context.Context, q DBExecutor, userID int64) ([]domain.Trade, error)
}
