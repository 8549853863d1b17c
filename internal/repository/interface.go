package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"seat-service/internal/models"
)

// AccountStore defines the contract for seat account persistence.
// This allows for different implementations (postgres, mock, etc.)
type AccountStore interface {
	// Insert persists a new account and assigns its ID
	Insert(ctx context.Context, account *models.Account, actor string) error

	// Update persists a full-field update of an existing account
	Update(ctx context.Context, account *models.Account, actor string) error

	// SoftDelete flags an account as deleted without removing the row
	SoftDelete(ctx context.Context, id uuid.UUID, actor string) error

	// GetByID retrieves an account by ID; returns (nil, nil) when missing
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// GetByEmail retrieves an account by seat email; returns (nil, nil) when missing
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// ListActive retrieves all non-deleted accounts
	ListActive(ctx context.Context) ([]models.Account, error)

	// ListByOrder retrieves all non-deleted accounts bound to an order
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Account, error)

	// ListExpiring retrieves non-deleted accounts whose subscription window
	// ends within the given number of days of the reference date
	ListExpiring(ctx context.Context, reference time.Time, days int) ([]models.Account, error)

	// ListAssignable retrieves accounts eligible for order assignment:
	// status RESET_READY or SUBS_ACTIVE, either unbound or bound to
	// excludeOrderID, optionally filtered by product, ordered by email
	ListAssignable(ctx context.Context, productID, excludeOrderID *uuid.UUID) ([]models.Account, error)
}

// UsageLogStore defines the contract for the append-only usage trail
type UsageLogStore interface {
	// Append records a new usage-log entry
	Append(ctx context.Context, entry *models.AccountUsageLog, actor string) error

	// Query retrieves usage logs matching the filter, newest first
	Query(ctx context.Context, filter models.UsageLogFilter) ([]models.AccountUsageLog, int64, error)

	// CountByAccount returns the number of entries for an account
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
}

// TxManager runs a unit of work against both stores in one transaction.
// The mutate-then-log pair for an account must commit or roll back together.
type TxManager interface {
	InTx(ctx context.Context, fn func(accounts AccountStore, logs UsageLogStore) error) error
}

// Ensure the gorm implementations satisfy the contracts
var (
	_ AccountStore  = (*AccountRepository)(nil)
	_ UsageLogStore = (*UsageLogRepository)(nil)
	_ TxManager     = (*Store)(nil)
)
