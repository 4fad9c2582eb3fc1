package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs
	// are simply absent from the map; the caller decides whether that is fatal.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of active accounts for a company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable account fields (never NormalBalance or Balance).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTxOperator defines account operations that run on a transaction owned
// by someone else: the journal repository during posting/voiding, or a
// document service during auto-posting.
type AccountTxOperator interface {
	// FindAccountsByIDsForUpdate retrieves accounts by IDs and locks the rows
	// (SELECT ... FOR UPDATE). Fails with ErrNotFound if any ID is missing.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// FindActiveAccountByTypeForUpdate resolves the unique active account of a
	// given account-type name for the company and locks its row. Returns
	// ErrNotFound when no active account of that type exists.
	FindActiveAccountByTypeForUpdate(ctx context.Context, tx pgx.Tx, companyID string, accountType string) (*domain.Account, error)

	// IncrementAccountBalancesInTx applies signed balance deltas as SQL-side
	// increments (balance = balance + delta) within the transaction.
	IncrementAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTxOperator
}
