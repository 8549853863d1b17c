package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"seat-service/internal/models"
	seatnats "seat-service/internal/nats"
	"seat-service/internal/repository"
)

// LifecycleService is the sole entry point for legal state changes on seat
// accounts. Every operation reads current state, validates the transition,
// mutates, and appends a usage-log entry in the same transaction.
//
// Guarded operations (Deliver, MarkResetReady, Reuse, UpdateBasicInfo) fail
// fast with typed errors. Soft operations (Update, SoftDelete, ChangeStatus,
// Cancel) treat a missing account as a harmless no-op; callers such as the
// batch loops and idempotent retries depend on that asymmetry.
type LifecycleService struct {
	store     repository.TxManager
	logger    *logrus.Logger
	publisher *seatnats.Publisher

	// now is the clock used for "today"; replaceable in tests
	now func() time.Time
}

// NewLifecycleService creates a new lifecycle service
func NewLifecycleService(store repository.TxManager, logger *logrus.Logger, publisher *seatnats.Publisher) *LifecycleService {
	return &LifecycleService{
		store:     store,
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

// ReuseParams carries the replacement sale details for recycling a seat
type ReuseParams struct {
	CustomerID   uuid.UUID
	ProductID    uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	OrderID      *uuid.UUID
	DeliveryDate *time.Time
}

// statuses from which CancelSubscription actually cancels
var cancellableStatuses = map[models.AccountStatus]bool{
	models.StatusInUse:      true,
	models.StatusExpiring:   true,
	models.StatusSubsActive: true,
	models.StatusDelivered:  true,
	models.StatusCreated:    true,
}

// Create registers a new seat account. Status defaults to SUBS_ACTIVE when
// unset. Returns the assigned account ID.
func (s *LifecycleService) Create(ctx context.Context, account *models.Account, actor string) (uuid.UUID, error) {
	if account.Status == "" {
		account.Status = models.StatusSubsActive
	}
	if !account.Status.Valid() {
		return uuid.Nil, NewValidationError("status", fmt.Sprintf("unknown status code: %s", account.Status))
	}
	if err := validateWindow(account.SubscriptionStartDate, account.SubscriptionEndDate); err != nil {
		return uuid.Nil, err
	}

	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		if err := accounts.Insert(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to insert account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionCreate,
			fmt.Sprintf("seat account created: %s", account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.publish(entry)
	s.logger.WithFields(logrus.Fields{
		"account_id": account.ID,
		"email":      account.Email,
		"status":     account.Status,
	}).Info("Seat account created")
	return account.ID, nil
}

// Update performs an unconditional full-field update for free-form edits
// outside the guarded transitions. Missing accounts are a no-op.
func (s *LifecycleService) Update(ctx context.Context, account *models.Account, actor string) error {
	if err := validateWindow(account.SubscriptionStartDate, account.SubscriptionEndDate); err != nil {
		return err
	}

	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		existing, err := accounts.GetByID(ctx, account.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return nil
		}
		account.CreatedAt = existing.CreatedAt
		account.CreatedBy = existing.CreatedBy
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionStatusChange, "account info updated")
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// SoftDelete deactivates an account without removing the row. Missing
// accounts are a no-op.
func (s *LifecycleService) SoftDelete(ctx context.Context, id uuid.UUID, actor string) error {
	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return nil
		}
		if err := accounts.SoftDelete(ctx, id, actor); err != nil {
			return fmt.Errorf("failed to soft-delete account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionStatusChange,
			fmt.Sprintf("seat account deactivated: %s", account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// ChangeStatus moves an account to a new status. Missing accounts and
// same-status calls are a no-op. The log description defaults to
// "<old> -> <new>" unless an explicit one is supplied.
func (s *LifecycleService) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus models.AccountStatus, actor, description string) error {
	if !newStatus.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown status code: %s", newStatus))
	}

	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil || account.Status == newStatus {
			return nil
		}
		oldStatus := account.Status
		account.Status = newStatus
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account status: %w", err)
		}
		if description == "" {
			description = fmt.Sprintf("%s -> %s", oldStatus, newStatus)
		}
		entry = s.usageEntry(account, models.ActionStatusChange, description)
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// Deliver marks a seat as handed over to its customer. The account must be
// CREATED or SUBS_ACTIVE and already have a customer and order assigned.
func (s *LifecycleService) Deliver(ctx context.Context, id uuid.UUID, deliveryDate *time.Time, actor string) error {
	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return NewNotFoundError("account", id.String())
		}
		if (account.Status != models.StatusCreated && account.Status != models.StatusSubsActive) ||
			account.CustomerID == nil || account.OrderID == nil {
			return NewPreconditionError("deliver",
				"must be delivered from CREATED/SUBS_ACTIVE with customer and order already assigned")
		}

		account.Status = models.StatusDelivered
		if deliveryDate != nil {
			d := DateOnly(*deliveryDate)
			account.DeliveryDate = &d
		} else {
			d := DateOnly(s.now())
			account.DeliveryDate = &d
		}
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionDeliver,
			fmt.Sprintf("seat delivered: %s", account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// CancelSubscription moves an account to CANCELED. Already-canceled and
// reset-ready accounts, missing accounts, and accounts outside the
// cancellable set are all silent no-ops.
func (s *LifecycleService) CancelSubscription(ctx context.Context, id uuid.UUID, actor string) error {
	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return nil
		}
		if account.Status == models.StatusCanceled || account.Status == models.StatusResetReady {
			return nil
		}
		if !cancellableStatuses[account.Status] {
			return nil
		}

		account.Status = models.StatusCanceled
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionCancel,
			fmt.Sprintf("subscription canceled: %s", account.Email))
		// The request-date snapshot records when the cancellation happened,
		// not the start of the canceled period
		today := DateOnly(s.now())
		entry.RequestDate = &today
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// MarkResetReady scrubs a canceled seat for recycling. Only legal from
// CANCELED.
func (s *LifecycleService) MarkResetReady(ctx context.Context, id uuid.UUID, actor string) error {
	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return NewNotFoundError("account", id.String())
		}
		if account.Status != models.StatusCanceled {
			return NewPreconditionError("mark-reset-ready",
				fmt.Sprintf("only CANCELED accounts can be scrubbed for reuse, current status is %s", account.Status))
		}

		account.Status = models.StatusResetReady
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionPasswordReset,
			fmt.Sprintf("account scrubbed for reuse: %s", account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// ReuseAccount recycles a scrubbed seat into a new customer/order/period.
// Only legal from RESET_READY. The new status is DELIVERED when a delivery
// date is supplied and SUBS_ACTIVE otherwise.
func (s *LifecycleService) ReuseAccount(ctx context.Context, id uuid.UUID, params ReuseParams, actor string) error {
	start := DateOnly(params.StartDate)
	end := DateOnly(params.EndDate)
	if end.Before(start) {
		return NewValidationError("subscription_end_date", "expiry must be on/after start")
	}

	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return NewNotFoundError("account", id.String())
		}
		if account.Status != models.StatusResetReady {
			return NewPreconditionError("reuse",
				fmt.Sprintf("only RESET_READY accounts can be reused, current status is %s", account.Status))
		}

		customerID := params.CustomerID
		account.CustomerID = &customerID
		account.ProductID = params.ProductID
		account.SubscriptionStartDate = &start
		account.SubscriptionEndDate = &end
		account.OrderID = params.OrderID
		if params.DeliveryDate != nil {
			d := DateOnly(*params.DeliveryDate)
			account.DeliveryDate = &d
			account.Status = models.StatusDelivered
		} else {
			account.DeliveryDate = nil
			account.Status = models.StatusSubsActive
		}
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionReuse,
			fmt.Sprintf("seat reused for new subscription: %s", account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	s.logger.WithField("account_id", id).Info("Seat account reused")
	return nil
}

// UpdateBasicInfo performs a guarded full overwrite of status, subscription
// window, delivery date and memo.
func (s *LifecycleService) UpdateBasicInfo(ctx context.Context, id uuid.UUID, newStatus models.AccountStatus, newStart, newEnd time.Time, newDelivery *time.Time, newMemo *string, actor string) error {
	if !newStatus.Valid() {
		return NewValidationError("status", fmt.Sprintf("unknown status code: %s", newStatus))
	}
	start := DateOnly(newStart)
	end := DateOnly(newEnd)
	if end.Before(start) {
		return NewValidationError("subscription_end_date", "expiry must be on/after start")
	}

	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return NewNotFoundError("account", id.String())
		}

		account.Status = newStatus
		account.SubscriptionStartDate = &start
		account.SubscriptionEndDate = &end
		if newDelivery != nil {
			d := DateOnly(*newDelivery)
			account.DeliveryDate = &d
		} else {
			account.DeliveryDate = nil
		}
		if newMemo != nil {
			account.Memo = *newMemo
		}
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionUpdate,
			fmt.Sprintf("account basic info updated: %s", account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// ExtendSubscription renews a seat by the given number of calendar months.
// Non-positive months and missing accounts are a no-op. Renewal implicitly
// reactivates an EXPIRING or CANCELED seat back to IN_USE.
func (s *LifecycleService) ExtendSubscription(ctx context.Context, id uuid.UUID, months int, actor string) error {
	if months <= 0 {
		return nil
	}

	var entry *models.AccountUsageLog
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
		account, err := accounts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return nil
		}

		today := DateOnly(s.now())
		base := ExtendBase(account.SubscriptionEndDate, today)
		newEnd := ExtendPeriod(account.SubscriptionStartDate, account.SubscriptionEndDate, months, today)
		account.SubscriptionEndDate = &newEnd
		if account.SubscriptionStartDate == nil {
			account.SubscriptionStartDate = &base
		}
		if account.Status == models.StatusExpiring || account.Status == models.StatusCanceled {
			account.Status = models.StatusInUse
		}
		if err := accounts.Update(ctx, account, actor); err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		entry = s.usageEntry(account, models.ActionRenew,
			fmt.Sprintf("subscription extended +%d months: %s", months, account.Email))
		return logs.Append(ctx, entry, actor)
	})
	if err != nil {
		return err
	}

	s.publish(entry)
	return nil
}

// ExtendSubscriptions applies ExtendSubscription per account, continuing
// past per-item failures and reporting each outcome.
func (s *LifecycleService) ExtendSubscriptions(ctx context.Context, ids []uuid.UUID, months int, actor string) []models.BatchItemResult {
	results := make([]models.BatchItemResult, 0, len(ids))
	for _, id := range ids {
		result := models.BatchItemResult{AccountID: id, OK: true}
		if err := s.ExtendSubscription(ctx, id, months, actor); err != nil {
			result.OK = false
			result.Error = err.Error()
			s.logger.WithError(err).WithField("account_id", id).Warn("Failed to extend subscription")
		}
		results = append(results, result)
	}
	return results
}

// GetAccount retrieves a single account; returns NotFoundError when missing
func (s *LifecycleService) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account *models.Account
	err := s.store.InTx(ctx, func(accounts repository.AccountStore, _ repository.UsageLogStore) error {
		var err error
		account, err = accounts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, NewNotFoundError("account", id.String())
	}
	return account, nil
}

// ListActiveAccounts retrieves all non-deleted accounts
func (s *LifecycleService) ListActiveAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := s.store.InTx(ctx, func(store repository.AccountStore, _ repository.UsageLogStore) error {
		var err error
		accounts, err = store.ListActive(ctx)
		return err
	})
	return accounts, err
}

// QueryUsageLogs retrieves the usage trail for an account
func (s *LifecycleService) QueryUsageLogs(ctx context.Context, filter models.UsageLogFilter) ([]models.AccountUsageLog, int64, error) {
	var entries []models.AccountUsageLog
	var total int64
	err := s.store.InTx(ctx, func(_ repository.AccountStore, logs repository.UsageLogStore) error {
		var err error
		entries, total, err = logs.Query(ctx, filter)
		return err
	})
	return entries, total, err
}

// usageEntry builds a usage-log entry snapshotting the account's current
// subscription window
func (s *LifecycleService) usageEntry(account *models.Account, action models.UsageAction, description string) *models.AccountUsageLog {
	return usageEntryFor(account, action, description)
}

// publish emits the committed usage entry as a seat event, best-effort
func (s *LifecycleService) publish(entry *models.AccountUsageLog) {
	if entry == nil || s.publisher == nil {
		return
	}
	go func() {
		if err := s.publisher.PublishUsageEvent(context.Background(), entry); err != nil {
			s.logger.WithError(err).WithField("account_id", entry.AccountID).
				Warn("Failed to publish seat event")
		}
	}()
}

// validateWindow enforces end >= start whenever both dates are present
func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && DateOnly(*end).Before(DateOnly(*start)) {
		return NewValidationError("subscription_end_date", "expiry must be on/after start")
	}
	return nil
}
