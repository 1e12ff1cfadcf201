// internal/repository/postgres/trade_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
)

// TradeRepository implements repository.TradeRepository for PostgreSQL.
type TradeRepository struct {
}

// NewTradeRepository creates a new TradeRepository.
func NewTradeRepository(db *sqlx.DB) repository.TradeRepository {
	return &TradeRepository{}
}

// CreateTrade appends a ledger row using the provided DBExecutor.
func (r *TradeRepository) CreateTrade(ctx context.Context, q repository.DBExecutor, trade *domain.Trade) error {
	query := `INSERT INTO trades (user_id, symbol, shares, price, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		trade.UserID,
		trade.Symbol,
		trade.Shares,
		trade.Price,
		trade.CreatedAt,
	).Scan(&trade.ID)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// ListTradesByUser retrieves the user's full trade history in creation order
// using the provided DBExecutor.
func (r *TradeRepository) ListTradesByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Trade, error) {
	trades := []domain.Trade{}
	query := `
		SELECT id, user_id, symbol, shares, price, created_at
		FROM trades
		WHERE user_id = $1
		ORDER BY id`
	if err := q.SelectContext(ctx, &trades, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch trades for user %d: %w", userID, err)
	}
	return trades, nil
}
