package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the gorm-backed repositories and provides the transaction
// boundary the lifecycle engine runs its mutate-then-log pairs inside.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store over the given database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Accounts returns the account store bound to the base connection
func (s *Store) Accounts() AccountStore {
	return NewAccountRepository(s.db)
}

// UsageLogs returns the usage-log store bound to the base connection
func (s *Store) UsageLogs() UsageLogStore {
	return NewUsageLogRepository(s.db)
}

// InTx runs fn with stores bound to a single database transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) InTx(ctx context.Context, fn func(accounts AccountStore, logs UsageLogStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewAccountRepository(tx), NewUsageLogRepository(tx))
	})
}
