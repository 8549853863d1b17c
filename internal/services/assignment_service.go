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

// AssignmentService handles bulk linking and unlinking of seat accounts to
// orders and payment cards. Batch operations commit each account
// independently; a failure on one account never blocks the rest.
type AssignmentService struct {
	store     repository.TxManager
	logger    *logrus.Logger
	publisher *seatnats.Publisher

	now func() time.Time
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(store repository.TxManager, logger *logrus.Logger, publisher *seatnats.Publisher) *AssignmentService {
	return &AssignmentService{
		store:     store,
		logger:    logger,
		publisher: publisher,
		now:       time.Now,
	}
}

// GetAssignableAccountsForOrder returns the accounts an order picker may
// choose from: RESET_READY or SUBS_ACTIVE seats with no order, plus the
// seats already bound to excludeOrderID so re-editing an order still shows
// its own assignments. Sorted by email ascending.
func (s *AssignmentService) GetAssignableAccountsForOrder(ctx context.Context, productID, excludeOrderID *uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := s.store.InTx(ctx, func(store repository.AccountStore, _ repository.UsageLogStore) error {
		var err error
		accounts, err = store.ListAssignable(ctx, productID, excludeOrderID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assignable accounts: %w", err)
	}
	return accounts, nil
}

// AssignToOrder links each account to the order. Missing accounts and
// accounts already bound to a different order are skipped. Accounts with no
// subscription window yet get the default one-month window, and RESET_READY
// seats are promoted to SUBS_ACTIVE.
func (s *AssignmentService) AssignToOrder(ctx context.Context, orderID uuid.UUID, orderCode string, customerID *uuid.UUID, accountIDs []uuid.UUID, actor string) []models.BatchItemResult {
	results := make([]models.BatchItemResult, 0, len(accountIDs))
	for _, id := range accountIDs {
		result := models.BatchItemResult{AccountID: id, OK: true}

		var entry *models.AccountUsageLog
		err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
			account, err := accounts.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if account == nil {
				return NewNotFoundError("account", id.String())
			}
			if account.OrderID != nil && *account.OrderID != orderID {
				return NewPreconditionError("assign-to-order",
					fmt.Sprintf("account %s is already bound to another order", account.Email))
			}

			oid := orderID
			account.OrderID = &oid
			if customerID != nil {
				cid := *customerID
				account.CustomerID = &cid
			}
			if !account.HasSubscriptionWindow() {
				start, end := DefaultPeriod(s.now())
				account.SubscriptionStartDate = &start
				account.SubscriptionEndDate = &end
			}
			if account.Status == models.StatusResetReady {
				account.Status = models.StatusSubsActive
			}
			if err := accounts.Update(ctx, account, actor); err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			description := fmt.Sprintf("seat assigned to order: %s", account.Email)
			if orderCode != "" {
				description = fmt.Sprintf("seat assigned to order %s: %s", orderCode, account.Email)
			}
			entry = usageEntryFor(account, models.ActionAssignToOrder, description)
			return logs.Append(ctx, entry, actor)
		})
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"account_id": id,
				"order_id":   orderID,
			}).Warn("Skipped account during order assignment")
		} else {
			s.publish(entry)
		}
		results = append(results, result)
	}
	return results
}

// UnassignFromOrder unlinks each account from the order. Accounts not bound
// to this exact order are skipped. Unassigned seats always drop back to
// RESET_READY.
func (s *AssignmentService) UnassignFromOrder(ctx context.Context, orderID uuid.UUID, accountIDs []uuid.UUID, actor string) []models.BatchItemResult {
	results := make([]models.BatchItemResult, 0, len(accountIDs))
	for _, id := range accountIDs {
		result := models.BatchItemResult{AccountID: id, OK: true}

		var entry *models.AccountUsageLog
		err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
			account, err := accounts.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if account == nil {
				return NewNotFoundError("account", id.String())
			}
			if account.OrderID == nil || *account.OrderID != orderID {
				return NewPreconditionError("unassign-from-order",
					fmt.Sprintf("account %s is not bound to this order", account.Email))
			}

			account.OrderID = nil
			account.Status = models.StatusResetReady
			if err := accounts.Update(ctx, account, actor); err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}
			entry = usageEntryFor(account, models.ActionUnassignFromOrder,
				fmt.Sprintf("seat unassigned from order: %s", account.Email))
			return logs.Append(ctx, entry, actor)
		})
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			s.logger.WithError(err).WithFields(logrus.Fields{
				"account_id": id,
				"order_id":   orderID,
			}).Warn("Skipped account during order unassignment")
		} else {
			s.publish(entry)
		}
		results = append(results, result)
	}
	return results
}

// UpdateCardAssignments bulk-sets (or clears, when cardID is nil) the
// payment card on each account.
func (s *AssignmentService) UpdateCardAssignments(ctx context.Context, accountIDs []uuid.UUID, cardID *uuid.UUID, actor string) []models.BatchItemResult {
	results := make([]models.BatchItemResult, 0, len(accountIDs))
	for _, id := range accountIDs {
		result := models.BatchItemResult{AccountID: id, OK: true}

		var entry *models.AccountUsageLog
		err := s.store.InTx(ctx, func(accounts repository.AccountStore, logs repository.UsageLogStore) error {
			account, err := accounts.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if account == nil {
				return NewNotFoundError("account", id.String())
			}

			description := fmt.Sprintf("payment card cleared: %s", account.Email)
			if cardID != nil {
				cid := *cardID
				account.CardID = &cid
				description = fmt.Sprintf("payment card changed: %s", account.Email)
			} else {
				account.CardID = nil
			}
			if err := accounts.Update(ctx, account, actor); err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}
			entry = usageEntryFor(account, models.ActionCardChange, description)
			return logs.Append(ctx, entry, actor)
		})
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			s.logger.WithError(err).WithField("account_id", id).
				Warn("Skipped account during card assignment")
		} else {
			s.publish(entry)
		}
		results = append(results, result)
	}
	return results
}

// publish emits the committed usage entry as a seat event, best-effort
func (s *AssignmentService) publish(entry *models.AccountUsageLog) {
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

// usageEntryFor builds a usage-log entry snapshotting the account's current
// subscription window
func usageEntryFor(account *models.Account, action models.UsageAction, description string) *models.AccountUsageLog {
	entry := &models.AccountUsageLog{
		AccountID:   account.ID,
		CustomerID:  account.CustomerID,
		Action:      action,
		Description: description,
	}
	productID := account.ProductID
	entry.ProductID = &productID
	if account.SubscriptionStartDate != nil {
		d := DateOnly(*account.SubscriptionStartDate)
		entry.RequestDate = &d
	}
	if account.SubscriptionEndDate != nil {
		d := DateOnly(*account.SubscriptionEndDate)
		entry.ExpireDate = &d
	}
	return entry
}
