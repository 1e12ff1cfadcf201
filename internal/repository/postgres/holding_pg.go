// internal/repository/postgres/holding_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
	"papertrade/internal/repository"
	"papertrade/internal/util"
)

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct {
}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository(db *sqlx.DB) repository.HoldingRepository {
	return &HoldingRepository{}
}

// GetHolding retrieves the user's position in one symbol using the provided DBExecutor.
func (r *HoldingRepository) GetHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (*domain.Holding, error) {
	var holding domain.Holding
	query := `SELECT user_id, symbol, name, shares, price, total FROM holdings WHERE user_id = $1 AND symbol = $2`
	err := q.GetContext(ctx, &holding, query, userID, symbol)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding %s for user %d: %w", symbol, userID, err)
	}
	return &holding, nil
}

// ListHoldings retrieves all of the user's positions using the provided DBExecutor.
func (r *HoldingRepository) ListHoldings(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `SELECT user_id, symbol, name, shares, price, total FROM holdings WHERE user_id = $1 ORDER BY symbol`
	if err := q.SelectContext(ctx, &holdings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list holdings for user %d: %w", userID, err)
	}
	return holdings, nil
}

// CreateHolding inserts a new position using the provided DBExecutor.
func (r *HoldingRepository) CreateHolding(ctx context.Context, q repository.DBExecutor, holding *domain.Holding) error {
	query := `INSERT INTO holdings (user_id, symbol, name, shares, price, total)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.ExecContext(ctx, query, holding.UserID, holding.Symbol, holding.Name, holding.Shares, holding.Price, holding.Total)
	if err != nil {
		return fmt.Errorf("failed to create holding %s for user %d: %w", holding.Symbol, holding.UserID, err)
	}
	return nil
}

// UpdateShares sets the position's share count using the provided DBExecutor.
func (r *HoldingRepository) UpdateShares(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, shares int64) error {
	query := `UPDATE holdings SET shares = $1 WHERE user_id = $2 AND symbol = $3`
	result, err := q.ExecContext(ctx, query, shares, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update shares of %s for user %d: %w", symbol, userID, err)
	}
	return requireRowsAffected(result, symbol, userID)
}

// UpdateSnapshot refreshes the cached display price and total using the provided DBExecutor.
func (r *HoldingRepository) UpdateSnapshot(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, price, total decimal.Decimal) error {
	query := `UPDATE holdings SET price = $1, total = $2 WHERE user_id = $3 AND symbol = $4`
	result, err := q.ExecContext(ctx, query, price, total, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update snapshot of %s for user %d: %w", symbol, userID, err)
	}
	return requireRowsAffected(result, symbol, userID)
}

// DeleteHolding removes the position using the provided DBExecutor.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) error {
	query := `DELETE FROM holdings WHERE user_id = $1 AND symbol = $2`
	result, err := q.ExecContext(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s for user %d: %w", symbol, userID, err)
	}
	return requireRowsAffected(result, symbol, userID)
}

func requireRowsAffected(result sql.Result, symbol string, userID int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for holding %s of user %d: %w", symbol, userID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected for holding %s of user %d, holding might not exist", symbol, userID)
	}
	return nil
}
