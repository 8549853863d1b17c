package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"seat-service/internal/models"
	"seat-service/internal/repository"
)

// memStore is an in-memory implementation of the store contracts used by
// the service tests. InTx snapshots state up front and restores it when the
// unit of work fails, mirroring a database rollback.
type memStore struct {
	accounts map[uuid.UUID]models.Account
	logs     []models.AccountUsageLog

	// error injection
	updateErr map[uuid.UUID]error
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:  make(map[uuid.UUID]models.Account),
		updateErr: make(map[uuid.UUID]error),
	}
}

var (
	_ repository.AccountStore  = (*memStore)(nil)
	_ repository.UsageLogStore = (*memStore)(nil)
	_ repository.TxManager     = (*memStore)(nil)
)

func (m *memStore) InTx(ctx context.Context, fn func(repository.AccountStore, repository.UsageLogStore) error) error {
	snapshotAccounts := make(map[uuid.UUID]models.Account, len(m.accounts))
	for k, v := range m.accounts {
		snapshotAccounts[k] = v
	}
	snapshotLogs := make([]models.AccountUsageLog, len(m.logs))
	copy(snapshotLogs, m.logs)

	if err := fn(m, m); err != nil {
		m.accounts = snapshotAccounts
		m.logs = snapshotLogs
		return err
	}
	return nil
}

func (m *memStore) Insert(ctx context.Context, account *models.Account, actor string) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.CreatedBy = actor
	account.UpdatedAt = now
	account.UpdatedBy = actor
	m.accounts[account.ID] = *account
	return nil
}

func (m *memStore) Update(ctx context.Context, account *models.Account, actor string) error {
	if err := m.updateErr[account.ID]; err != nil {
		return err
	}
	account.UpdatedAt = time.Now()
	account.UpdatedBy = actor
	m.accounts[account.ID] = *account
	return nil
}

func (m *memStore) SoftDelete(ctx context.Context, id uuid.UUID, actor string) error {
	account, ok := m.accounts[id]
	if !ok {
		return nil
	}
	account.IsDeleted = true
	account.UpdatedAt = time.Now()
	account.UpdatedBy = actor
	m.accounts[id] = account
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := account
	return &copied, nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, account := range m.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) ListActive(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, account := range m.accounts {
		if !account.IsDeleted {
			out = append(out, account)
		}
	}
	sortByEmail(out)
	return out, nil
}

func (m *memStore) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Account, error) {
	var out []models.Account
	for _, account := range m.accounts {
		if !account.IsDeleted && account.OrderID != nil && *account.OrderID == orderID {
			out = append(out, account)
		}
	}
	sortByEmail(out)
	return out, nil
}

func (m *memStore) ListExpiring(ctx context.Context, reference time.Time, days int) ([]models.Account, error) {
	cutoff := reference.AddDate(0, 0, days)
	var out []models.Account
	for _, account := range m.accounts {
		if account.IsDeleted || account.SubscriptionEndDate == nil {
			continue
		}
		if !account.SubscriptionEndDate.After(cutoff) {
			out = append(out, account)
		}
	}
	sortByEmail(out)
	return out, nil
}

func (m *memStore) ListAssignable(ctx context.Context, productID, excludeOrderID *uuid.UUID) ([]models.Account, error) {
	var out []models.Account
	for _, account := range m.accounts {
		if account.IsDeleted {
			continue
		}
		if account.Status != models.StatusResetReady && account.Status != models.StatusSubsActive {
			continue
		}
		if account.OrderID != nil {
			if excludeOrderID == nil || *account.OrderID != *excludeOrderID {
				continue
			}
		}
		if productID != nil && account.ProductID != *productID {
			continue
		}
		out = append(out, account)
	}
	sortByEmail(out)
	return out, nil
}

func (m *memStore) Append(ctx context.Context, entry *models.AccountUsageLog, actor string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedBy = actor
	m.logs = append(m.logs, *entry)
	return nil
}

func (m *memStore) Query(ctx context.Context, filter models.UsageLogFilter) ([]models.AccountUsageLog, int64, error) {
	var out []models.AccountUsageLog
	for _, entry := range m.logs {
		if filter.AccountID != uuid.Nil && entry.AccountID != filter.AccountID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		out = append(out, entry)
	}
	// Newest first
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memStore) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	for _, entry := range m.logs {
		if entry.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

// logsFor returns the entries for an account in append order
func (m *memStore) logsFor(accountID uuid.UUID) []models.AccountUsageLog {
	var out []models.AccountUsageLog
	for _, entry := range m.logs {
		if entry.AccountID == accountID {
			out = append(out, entry)
		}
	}
	return out
}

func sortByEmail(accounts []models.Account) {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Email < accounts[j].Email })
}
