// internal/service/trading_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/auth"
	"papertrade/internal/domain"
	"papertrade/internal/quote"
	"papertrade/internal/repository"
	"papertrade/internal/util"
	"papertrade/pkg/db"
)

// maxCashTopUp is the largest amount a single add-cash request may credit.
var maxCashTopUp = decimal.NewFromInt(10000)

// PortfolioView is the rendered state of a user's account: every holding
// with a freshly refreshed price snapshot, current cash, and the grand total
// (sum of holding totals plus cash).
type PortfolioView struct {
	Holdings []domain.Holding
	Cash     decimal.Decimal
	Total    decimal.Decimal
}

// TradingService implements the account and trading operations. Buy, Sell
// and the portfolio snapshot refresh each run as one database transaction:
// if any step fails, no partial state change is visible.
type TradingService interface {
	// Register creates an account with the default cash balance. A duplicate
	// username fails with util.ErrUsernameTaken.
	Register(ctx context.Context, username, password, confirmation string) (*domain.User, error)
	// Login verifies credentials. Unknown usernames and wrong passwords both
	// fail with util.ErrInvalidCredentials so usernames cannot be enumerated.
	Login(ctx context.Context, username, password string) (*domain.User, error)
	// Quote resolves a symbol to its current price. No side effects.
	Quote(ctx context.Context, symbol string) (*quote.Quote, error)
	// Buy purchases shares at the current price, debiting cash.
	Buy(ctx context.Context, userID int64, symbol string, shares int64) error
	// Sell disposes of shares at the current price, crediting cash.
	Sell(ctx context.Context, userID int64, symbol string, shares int64) error
	// AddCash credits the account with up to $10,000 of virtual cash.
	AddCash(ctx context.Context, userID int64, amount int64) error
	// Portfolio returns all holdings with refreshed price snapshots.
	Portfolio(ctx context.Context, userID int64) (*PortfolioView, error)
	// History returns the user's full trade ledger in creation order.
	History(ctx context.Context, userID int64) ([]domain.Trade, error)
}

// tradingService implements the TradingService interface.
type tradingService struct {
	dbBeginner  db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor  repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	userRepo    repository.UserRepository
	holdingRepo repository.HoldingRepository
	tradeRepo   repository.TradeRepository
	quotes      quote.Service
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewTradingService creates a new instance of TradingService.
func NewTradingService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	holdingRepo repository.HoldingRepository,
	tradeRepo repository.TradeRepository,
	quotes quote.Service,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TradingService {
	return &tradingService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		userRepo:    userRepo,
		holdingRepo: holdingRepo,
		tradeRepo:   tradeRepo,
		quotes:      quotes,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// Register creates a new account. The database's unique constraint on
// username is the only duplicate check, so two concurrent registrations with
// the same name cannot both succeed.
func (s *tradingService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	if username == "" {
		return nil, util.ErrMissingUsername
	}
	if password == "" {
		return nil, util.ErrMissingPassword
	}
	if password != confirmation {
		return nil, util.ErrPasswordMismatch
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := domain.NewUser(username, hash)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			return nil, util.ErrUsernameTaken
		}
		return nil, fmt.Errorf("register: failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies the supplied credentials against the stored hash.
func (s *tradingService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" {
		return nil, util.ErrMissingUsername
	}
	if password == "" {
		return nil, util.ErrMissingPassword
	}

	user, err := s.userRepo.GetUserByUsername(ctx, s.dbExecutor, username)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

// Quote resolves the symbol via the price lookup service.
func (s *tradingService) Quote(ctx context.Context, symbol string) (*quote.Quote, error) {
	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, util.ErrInvalidSymbol) {
			return nil, util.ErrInvalidSymbol
		}
		return nil, fmt.Errorf("quote: %w", err)
	}
	return q, nil
}

// Buy purchases shares of a stock. Ledger append, cash debit and portfolio
// upsert commit together or not at all.
func (s *tradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) error {
	if shares <= 0 {
		return util.ErrInvalidShares
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, util.ErrInvalidSymbol) {
			return util.ErrInvalidSymbol
		}
		return fmt.Errorf("buy: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return fmt.Errorf("buy: failed to get user %d: %w", userID, err)
	}

	cost := q.Price.Mul(decimal.NewFromInt(shares))
	if user.Cash.LessThan(cost) {
		return util.ErrInsufficientFunds
	}

	trade := domain.NewTrade(userID, q.Symbol, shares, q.Price)
	if err := s.tradeRepo.CreateTrade(ctx, txExecutor, trade); err != nil {
		return fmt.Errorf("buy: failed to record trade: %w", err)
	}

	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, cost.Neg()); err != nil {
		return fmt.Errorf("buy: failed to debit cash: %w", err)
	}

	holding, err := s.holdingRepo.GetHolding(ctx, txExecutor, userID, q.Symbol)
	switch {
	case errors.Is(err, util.ErrNotFound):
		if err := s.holdingRepo.CreateHolding(ctx, txExecutor, domain.NewHolding(userID, q.Symbol, q.Name, shares, q.Price)); err != nil {
			return fmt.Errorf("buy: failed to create holding: %w", err)
		}
	case err != nil:
		return fmt.Errorf("buy: failed to get holding: %w", err)
	default:
		newShares := holding.Shares + shares
		if err := s.holdingRepo.UpdateShares(ctx, txExecutor, userID, q.Symbol, newShares); err != nil {
			return fmt.Errorf("buy: failed to update shares: %w", err)
		}
		newTotal := q.Price.Mul(decimal.NewFromInt(newShares))
		if err := s.holdingRepo.UpdateSnapshot(ctx, txExecutor, userID, q.Symbol, q.Price, newTotal); err != nil {
			return fmt.Errorf("buy: failed to refresh snapshot: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("buy: failed to commit transaction: %w", err)
	}
	return nil
}

// Sell disposes of shares of a stock. The holding row is deleted when the
// share count reaches exactly zero.
func (s *tradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) error {
	if shares <= 0 {
		return util.ErrInvalidShares
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		if errors.Is(err, util.ErrInvalidSymbol) {
			return util.ErrInvalidSymbol
		}
		return fmt.Errorf("sell: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("sell: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("sell: transaction controller does not implement DBExecutor")
	}

	holding, err := s.holdingRepo.GetHolding(ctx, txExecutor, userID, q.Symbol)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return util.ErrInsufficientShares
		}
		return fmt.Errorf("sell: failed to get holding: %w", err)
	}
	if holding.Shares < shares {
		return util.ErrInsufficientShares
	}

	trade := domain.NewTrade(userID, q.Symbol, -shares, q.Price)
	if err := s.tradeRepo.CreateTrade(ctx, txExecutor, trade); err != nil {
		return fmt.Errorf("sell: failed to record trade: %w", err)
	}

	proceeds := q.Price.Mul(decimal.NewFromInt(shares))
	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, proceeds); err != nil {
		return fmt.Errorf("sell: failed to credit cash: %w", err)
	}

	remaining := holding.Shares - shares
	if remaining == 0 {
		if err := s.holdingRepo.DeleteHolding(ctx, txExecutor, userID, q.Symbol); err != nil {
			return fmt.Errorf("sell: failed to delete holding: %w", err)
		}
	} else {
		if err := s.holdingRepo.UpdateShares(ctx, txExecutor, userID, q.Symbol, remaining); err != nil {
			return fmt.Errorf("sell: failed to update shares: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("sell: failed to commit transaction: %w", err)
	}
	return nil
}

// AddCash credits the account with virtual cash, capped per request.
func (s *tradingService) AddCash(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return util.ErrInvalidAmount
	}
	credit := decimal.NewFromInt(amount)
	if credit.GreaterThan(maxCashTopUp) {
		return util.ErrAmountTooLarge
	}

	if err := s.userRepo.AdjustCash(ctx, s.dbExecutor, userID, credit); err != nil {
		return fmt.Errorf("add cash: %w", err)
	}
	return nil
}

// Portfolio re-resolves the current price of every holding, persists the
// refreshed snapshot, and returns the view. The snapshot write happens on
// every view, not just after trades, so all updates commit as one unit.
func (s *tradingService) Portfolio(ctx context.Context, userID int64) (*PortfolioView, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("portfolio: transaction controller does not implement DBExecutor")
	}

	holdings, err := s.holdingRepo.ListHoldings(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to list holdings: %w", err)
	}

	holdingsTotal := decimal.Zero
	for i := range holdings {
		q, err := s.quotes.Lookup(ctx, holdings[i].Symbol)
		if err != nil {
			return nil, fmt.Errorf("portfolio: failed to refresh price of %s: %w", holdings[i].Symbol, err)
		}
		total := q.Price.Mul(decimal.NewFromInt(holdings[i].Shares))
		if err := s.holdingRepo.UpdateSnapshot(ctx, txExecutor, userID, holdings[i].Symbol, q.Price, total); err != nil {
			return nil, fmt.Errorf("portfolio: failed to persist snapshot of %s: %w", holdings[i].Symbol, err)
		}
		holdings[i].Price = q.Price
		holdings[i].Total = total
		holdingsTotal = holdingsTotal.Add(total)
	}

	user, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("portfolio: failed to get user %d: %w", userID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("portfolio: failed to commit transaction: %w", err)
	}

	return &PortfolioView{
		Holdings: holdings,
		Cash:     user.Cash,
		Total:    holdingsTotal.Add(user.Cash),
	}, nil
}

// History returns the user's full trade ledger in creation order.
func (s *tradingService) History(ctx context.Context, userID int64) ([]domain.Trade, error) {
	trades, err := s.tradeRepo.ListTradesByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("history: failed to retrieve trades: %w", err)
	}
	return trades, nil
}
