// internal/repository/holding_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// HoldingRepository defines the interface for portfolio position operations.
type HoldingRepository interface {
	// GetHolding retrieves the user's position in one symbol, or
	// util.ErrNotFound when the user holds no shares of it.
	GetHolding(ctx context.Context, q DBExecutor, userID int64, symbol string) (*domain.Holding, error)
	// ListHoldings retrieves all of the user's positions ordered by symbol.
	ListHoldings(ctx context.Context, q DBExecutor, userID int64) ([]domain.Holding, error)
	// CreateHolding inserts a position for a first purchase of a symbol.
	CreateHolding(ctx context.Context, q DBExecutor, holding *domain.Holding) error
	// UpdateShares sets the position's share count to the given value.
	UpdateShares(ctx context.Context, q DBExecutor, userID int64, symbol string, shares int64) error
	// UpdateSnapshot refreshes the cached display price and total.
	UpdateSnapshot(ctx context.Context, q DBExecutor, userID int64, symbol string, price, total decimal.Decimal) error
	// DeleteHolding removes the position; used when shares reach exactly zero.
	DeleteHolding(ctx context.Context, q DBExecutor, userID int64, symbol string) error
}
