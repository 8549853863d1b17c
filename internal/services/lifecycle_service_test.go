package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seat-service/internal/models"
)

var testToday = date(2025, time.June, 15)

func newTestLifecycle(store *memStore) *LifecycleService {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewLifecycleService(store, logger, nil)
	s.now = func() time.Time { return testToday }
	return s
}

func seedAccount(store *memStore, status models.AccountStatus, mutate ...func(*models.Account)) *models.Account {
	account := &models.Account{
		ID:        uuid.New(),
		Email:     "seat@example.com",
		ProductID: uuid.New(),
		Status:    status,
	}
	for _, fn := range mutate {
		fn(account)
	}
	store.accounts[account.ID] = *account
	return account
}

func withCustomerAndOrder(customerID, orderID uuid.UUID) func(*models.Account) {
	return func(a *models.Account) {
		a.CustomerID = &customerID
		a.OrderID = &orderID
	}
}

func withWindow(start, end time.Time) func(*models.Account) {
	return func(a *models.Account) {
		a.SubscriptionStartDate = &start
		a.SubscriptionEndDate = &end
	}
}

func TestCreate(t *testing.T) {
	t.Run("defaults status to SUBS_ACTIVE", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		id, err := svc.Create(context.Background(), &models.Account{
			Email:     "new-seat@example.com",
			ProductID: uuid.New(),
		}, "tester")
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		saved := store.accounts[id]
		assert.Equal(t, models.StatusSubsActive, saved.Status)
		assert.Equal(t, "tester", saved.CreatedBy)

		logs := store.logsFor(id)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionCreate, logs[0].Action)
		assert.Contains(t, logs[0].Description, "new-seat@example.com")
	})

	t.Run("keeps explicit status", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		id, err := svc.Create(context.Background(), &models.Account{
			Email:     "seat@example.com",
			ProductID: uuid.New(),
			Status:    models.StatusCreated,
		}, "tester")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCreated, store.accounts[id].Status)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		start := date(2025, time.July, 1)
		end := date(2025, time.June, 1)
		_, err := svc.Create(context.Background(), &models.Account{
			Email:                 "seat@example.com",
			ProductID:             uuid.New(),
			SubscriptionStartDate: &start,
			SubscriptionEndDate:   &end,
		}, "tester")
		_, ok := IsValidationError(err)
		assert.True(t, ok)
		assert.Empty(t, store.accounts)
		assert.Empty(t, store.logs)
	})

	t.Run("rolls back account when log append fails", func(t *testing.T) {
		store := newMemStore()
		store.appendErr = errors.New("log write failed")
		svc := newTestLifecycle(store)

		_, err := svc.Create(context.Background(), &models.Account{
			Email:     "seat@example.com",
			ProductID: uuid.New(),
		}, "tester")
		require.Error(t, err)
		assert.Empty(t, store.accounts, "account write must roll back with the failed log append")
		assert.Empty(t, store.logs)
	})
}

func TestDeliver(t *testing.T) {
	t.Run("fails without customer and order even from CREATED", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCreated)

		err := svc.Deliver(context.Background(), account.ID, nil, "tester")
		_, ok := IsPreconditionError(err)
		require.True(t, ok, "expected precondition error, got %v", err)
		assert.Equal(t, models.StatusCreated, store.accounts[account.ID].Status)
		assert.Empty(t, store.logsFor(account.ID))
	})

	t.Run("succeeds once customer and order are assigned", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCreated, withCustomerAndOrder(uuid.New(), uuid.New()))

		err := svc.Deliver(context.Background(), account.ID, nil, "tester")
		require.NoError(t, err)

		saved := store.accounts[account.ID]
		assert.Equal(t, models.StatusDelivered, saved.Status)
		require.NotNil(t, saved.DeliveryDate)
		assert.Equal(t, testToday, *saved.DeliveryDate)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionDeliver, logs[0].Action)
	})

	t.Run("uses the supplied delivery date", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusSubsActive, withCustomerAndOrder(uuid.New(), uuid.New()))

		delivery := date(2025, time.June, 1)
		err := svc.Deliver(context.Background(), account.ID, &delivery, "tester")
		require.NoError(t, err)
		assert.Equal(t, delivery, *store.accounts[account.ID].DeliveryDate)
	})

	t.Run("fails from a non-deliverable status", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse, withCustomerAndOrder(uuid.New(), uuid.New()))

		err := svc.Deliver(context.Background(), account.ID, nil, "tester")
		_, ok := IsPreconditionError(err)
		assert.True(t, ok)
	})

	t.Run("fails for a missing account", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		err := svc.Deliver(context.Background(), uuid.New(), nil, "tester")
		_, ok := IsNotFoundError(err)
		assert.True(t, ok)
	})
}

func TestCancelSubscription(t *testing.T) {
	t.Run("cancels a delivered seat and snapshots today as request date", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		start := date(2024, time.December, 1)
		end := date(2024, time.January, 10)
		account := seedAccount(store, models.StatusDelivered, withWindow(start, end))

		err := svc.CancelSubscription(context.Background(), account.ID, "tester")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCanceled, store.accounts[account.ID].Status)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionCancel, logs[0].Action)
		require.NotNil(t, logs[0].RequestDate)
		assert.Equal(t, testToday, *logs[0].RequestDate, "cancel snapshots today, not the subscription start")
	})

	t.Run("no-op when already RESET_READY", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusResetReady)

		err := svc.CancelSubscription(context.Background(), account.ID, "tester")
		require.NoError(t, err)
		assert.Equal(t, models.StatusResetReady, store.accounts[account.ID].Status)
		assert.Empty(t, store.logsFor(account.ID))
	})

	t.Run("no-op when already CANCELED", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCanceled)

		require.NoError(t, svc.CancelSubscription(context.Background(), account.ID, "tester"))
		assert.Empty(t, store.logsFor(account.ID))
	})

	t.Run("no-op for a missing account", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		require.NoError(t, svc.CancelSubscription(context.Background(), uuid.New(), "tester"))
		assert.Empty(t, store.logs)
	})
}

func TestMarkResetReady(t *testing.T) {
	t.Run("scrubs a canceled seat", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCanceled)

		require.NoError(t, svc.MarkResetReady(context.Background(), account.ID, "tester"))
		assert.Equal(t, models.StatusResetReady, store.accounts[account.ID].Status)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionPasswordReset, logs[0].Action)
	})

	t.Run("fails from any non-canceled status", func(t *testing.T) {
		for _, status := range []models.AccountStatus{
			models.StatusCreated, models.StatusSubsActive, models.StatusDelivered,
			models.StatusInUse, models.StatusExpiring, models.StatusResetReady,
		} {
			store := newMemStore()
			svc := newTestLifecycle(store)
			account := seedAccount(store, status)

			err := svc.MarkResetReady(context.Background(), account.ID, "tester")
			_, ok := IsPreconditionError(err)
			assert.True(t, ok, "status %s should not be scrubbable", status)
		}
	})
}

func TestReuseAccount(t *testing.T) {
	params := func() ReuseParams {
		return ReuseParams{
			CustomerID: uuid.New(),
			ProductID:  uuid.New(),
			StartDate:  date(2025, time.July, 1),
			EndDate:    date(2025, time.October, 1),
		}
	}

	t.Run("fails unless RESET_READY", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCanceled)

		err := svc.ReuseAccount(context.Background(), account.ID, params(), "tester")
		_, ok := IsPreconditionError(err)
		assert.True(t, ok)
	})

	t.Run("becomes SUBS_ACTIVE without a delivery date", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusResetReady)

		p := params()
		require.NoError(t, svc.ReuseAccount(context.Background(), account.ID, p, "tester"))

		saved := store.accounts[account.ID]
		assert.Equal(t, models.StatusSubsActive, saved.Status)
		assert.Equal(t, p.ProductID, saved.ProductID)
		require.NotNil(t, saved.CustomerID)
		assert.Equal(t, p.CustomerID, *saved.CustomerID)
		assert.Nil(t, saved.DeliveryDate)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionReuse, logs[0].Action)
	})

	t.Run("becomes DELIVERED with a delivery date", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusResetReady)

		p := params()
		delivery := date(2025, time.July, 2)
		p.DeliveryDate = &delivery
		require.NoError(t, svc.ReuseAccount(context.Background(), account.ID, p, "tester"))
		assert.Equal(t, models.StatusDelivered, store.accounts[account.ID].Status)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusResetReady)

		p := params()
		p.EndDate = p.StartDate.AddDate(0, 0, -1)
		err := svc.ReuseAccount(context.Background(), account.ID, p, "tester")
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})
}

func TestUpdateBasicInfo(t *testing.T) {
	t.Run("fails for a missing account", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		err := svc.UpdateBasicInfo(context.Background(), uuid.New(), models.StatusInUse,
			date(2025, time.June, 1), date(2025, time.July, 1), nil, nil, "tester")
		_, ok := IsNotFoundError(err)
		assert.True(t, ok)
	})

	t.Run("rejects expiry before start", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse)

		err := svc.UpdateBasicInfo(context.Background(), account.ID, models.StatusInUse,
			date(2025, time.July, 1), date(2025, time.June, 1), nil, nil, "tester")
		validationErr, ok := IsValidationError(err)
		require.True(t, ok)
		assert.Contains(t, validationErr.Message, "expiry must be on/after start")
	})

	t.Run("rejects an unknown status code", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse)

		err := svc.UpdateBasicInfo(context.Background(), account.ID, models.AccountStatus("BOGUS"),
			date(2025, time.June, 1), date(2025, time.July, 1), nil, nil, "tester")
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("overwrites status, window, delivery and memo", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCreated)

		start := date(2025, time.June, 1)
		end := date(2025, time.September, 1)
		delivery := date(2025, time.June, 3)
		memo := "vip seat"
		err := svc.UpdateBasicInfo(context.Background(), account.ID, models.StatusInUse,
			start, end, &delivery, &memo, "tester")
		require.NoError(t, err)

		saved := store.accounts[account.ID]
		assert.Equal(t, models.StatusInUse, saved.Status)
		assert.Equal(t, start, *saved.SubscriptionStartDate)
		assert.Equal(t, end, *saved.SubscriptionEndDate)
		assert.Equal(t, delivery, *saved.DeliveryDate)
		assert.Equal(t, "vip seat", saved.Memo)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionUpdate, logs[0].Action)
	})
}

func TestExtendSubscription(t *testing.T) {
	t.Run("lapsed window extends from today", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse,
			withWindow(date(2023, time.October, 1), date(2024, time.January, 10)))

		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 3, "tester"))

		saved := store.accounts[account.ID]
		assert.Equal(t, date(2025, time.September, 14), *saved.SubscriptionEndDate,
			"extension must be based on today, not the lapsed end date")

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionRenew, logs[0].Action)
		assert.Contains(t, logs[0].Description, "+3 months")
	})

	t.Run("zero and negative months are a no-op", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		end := date(2025, time.August, 1)
		account := seedAccount(store, models.StatusInUse, withWindow(date(2025, time.May, 1), end))

		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 0, "tester"))
		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, -1, "tester"))

		assert.Equal(t, end, *store.accounts[account.ID].SubscriptionEndDate)
		assert.Empty(t, store.logsFor(account.ID))
	})

	t.Run("missing account is a no-op", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		require.NoError(t, svc.ExtendSubscription(context.Background(), uuid.New(), 2, "tester"))
		assert.Empty(t, store.logs)
	})

	t.Run("reactivates EXPIRING and CANCELED seats", func(t *testing.T) {
		for _, status := range []models.AccountStatus{models.StatusExpiring, models.StatusCanceled} {
			store := newMemStore()
			svc := newTestLifecycle(store)
			account := seedAccount(store, status,
				withWindow(date(2025, time.March, 1), date(2025, time.June, 1)))

			require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 1, "tester"))
			assert.Equal(t, models.StatusInUse, store.accounts[account.ID].Status)
		}
	})

	t.Run("does not reactivate RESET_READY", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusResetReady)

		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 1, "tester"))
		assert.Equal(t, models.StatusResetReady, store.accounts[account.ID].Status)
	})

	t.Run("backfills the start date when never set", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse)

		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 2, "tester"))

		saved := store.accounts[account.ID]
		require.NotNil(t, saved.SubscriptionStartDate)
		assert.Equal(t, testToday, *saved.SubscriptionStartDate)
		assert.Equal(t, date(2025, time.August, 14), *saved.SubscriptionEndDate)
	})

	t.Run("future start with no end extends from the start", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		futureStart := date(2026, time.January, 1)
		account := seedAccount(store, models.StatusSubsActive, func(a *models.Account) {
			a.SubscriptionStartDate = &futureStart
		})

		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 1, "tester"))

		saved := store.accounts[account.ID]
		require.NotNil(t, saved.SubscriptionEndDate)
		assert.Equal(t, date(2026, time.January, 31), *saved.SubscriptionEndDate)
		assert.False(t, saved.SubscriptionEndDate.Before(*saved.SubscriptionStartDate),
			"the renewed end must not precede a start that is still in the future")
	})

	t.Run("window invariant holds after extension", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse,
			withWindow(date(2025, time.January, 1), date(2025, time.February, 1)))

		require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 1, "tester"))
		saved := store.accounts[account.ID]
		assert.False(t, saved.SubscriptionEndDate.Before(*saved.SubscriptionStartDate))
	})
}

func TestExtendSubscriptions(t *testing.T) {
	store := newMemStore()
	svc := newTestLifecycle(store)

	ok1 := seedAccount(store, models.StatusInUse,
		withWindow(date(2025, time.May, 1), date(2025, time.July, 1)),
		func(a *models.Account) { a.Email = "a@example.com" })
	broken := seedAccount(store, models.StatusInUse,
		withWindow(date(2025, time.May, 1), date(2025, time.July, 1)),
		func(a *models.Account) { a.Email = "b@example.com" })
	ok2 := seedAccount(store, models.StatusInUse,
		withWindow(date(2025, time.May, 1), date(2025, time.July, 1)),
		func(a *models.Account) { a.Email = "c@example.com" })
	store.updateErr[broken.ID] = errors.New("write conflict")

	results := svc.ExtendSubscriptions(context.Background(),
		[]uuid.UUID{ok1.ID, broken.ID, ok2.ID}, 1, "tester")
	require.Len(t, results, 3)

	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.Contains(t, results[1].Error, "write conflict")
	assert.True(t, results[2].OK, "a failing account must not block the rest of the batch")

	assert.Equal(t, date(2025, time.July, 31), *store.accounts[ok1.ID].SubscriptionEndDate)
	assert.Equal(t, date(2025, time.July, 1), *store.accounts[broken.ID].SubscriptionEndDate)
	assert.Equal(t, date(2025, time.July, 31), *store.accounts[ok2.ID].SubscriptionEndDate)
}

func TestChangeStatus(t *testing.T) {
	t.Run("writes a transition description by default", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCreated)

		require.NoError(t, svc.ChangeStatus(context.Background(), account.ID, models.StatusInUse, "tester", ""))
		assert.Equal(t, models.StatusInUse, store.accounts[account.ID].Status)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionStatusChange, logs[0].Action)
		assert.Equal(t, "CREATED -> IN_USE", logs[0].Description)
	})

	t.Run("keeps an explicit description", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCreated)

		require.NoError(t, svc.ChangeStatus(context.Background(), account.ID, models.StatusInUse, "tester", "manual override"))
		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, "manual override", logs[0].Description)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse)

		require.NoError(t, svc.ChangeStatus(context.Background(), account.ID, models.StatusInUse, "tester", ""))
		assert.Empty(t, store.logsFor(account.ID))
	})

	t.Run("missing account is a no-op", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		require.NoError(t, svc.ChangeStatus(context.Background(), uuid.New(), models.StatusInUse, "tester", ""))
		assert.Empty(t, store.logs)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusCreated)

		err := svc.ChangeStatus(context.Background(), account.ID, models.AccountStatus("BOGUS"), "tester", "")
		_, ok := IsValidationError(err)
		assert.True(t, ok)
	})
}

func TestSoftDelete(t *testing.T) {
	t.Run("flags the account and logs the deactivation", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)
		account := seedAccount(store, models.StatusInUse)

		require.NoError(t, svc.SoftDelete(context.Background(), account.ID, "tester"))
		assert.True(t, store.accounts[account.ID].IsDeleted)

		logs := store.logsFor(account.ID)
		require.Len(t, logs, 1)
		assert.Equal(t, models.ActionStatusChange, logs[0].Action)
	})

	t.Run("missing account is a no-op", func(t *testing.T) {
		store := newMemStore()
		svc := newTestLifecycle(store)

		require.NoError(t, svc.SoftDelete(context.Background(), uuid.New(), "tester"))
		assert.Empty(t, store.logs)
	})
}

// Full recycle scenario: delivered seat is canceled, scrubbed, and resold.
func TestSeatRecycleScenario(t *testing.T) {
	store := newMemStore()
	svc := newTestLifecycle(store)

	id, err := svc.Create(context.Background(), &models.Account{
		Email:     "recycled@example.com",
		ProductID: uuid.New(),
	}, "ops")
	require.NoError(t, err)

	// Sell and deliver it
	customerID, orderID := uuid.New(), uuid.New()
	account := store.accounts[id]
	account.CustomerID = &customerID
	account.OrderID = &orderID
	end := date(2024, time.January, 10)
	account.SubscriptionEndDate = &end
	store.accounts[id] = account
	require.NoError(t, svc.Deliver(context.Background(), id, nil, "ops"))

	require.NoError(t, svc.CancelSubscription(context.Background(), id, "ops"))
	assert.Equal(t, models.StatusCanceled, store.accounts[id].Status)

	require.NoError(t, svc.MarkResetReady(context.Background(), id, "ops"))
	assert.Equal(t, models.StatusResetReady, store.accounts[id].Status)

	newOrder := uuid.New()
	require.NoError(t, svc.ReuseAccount(context.Background(), id, ReuseParams{
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		StartDate:  date(2025, time.January, 1),
		EndDate:    date(2025, time.April, 1),
		OrderID:    &newOrder,
	}, "ops"))
	assert.Equal(t, models.StatusSubsActive, store.accounts[id].Status)

	logs := store.logsFor(id)
	require.Len(t, logs, 5)
	actions := make([]models.UsageAction, 0, len(logs))
	for _, entry := range logs {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []models.UsageAction{
		models.ActionCreate,
		models.ActionDeliver,
		models.ActionCancel,
		models.ActionPasswordReset,
		models.ActionReuse,
	}, actions)
}

// Every successful mutation appends exactly one usage entry.
func TestAuditTrailGrowsByOnePerMutation(t *testing.T) {
	store := newMemStore()
	svc := newTestLifecycle(store)
	account := seedAccount(store, models.StatusCreated, withCustomerAndOrder(uuid.New(), uuid.New()))

	count := func() int64 {
		n, err := store.CountByAccount(context.Background(), account.ID)
		require.NoError(t, err)
		return n
	}

	require.NoError(t, svc.Deliver(context.Background(), account.ID, nil, "ops"))
	assert.EqualValues(t, 1, count())

	require.NoError(t, svc.ExtendSubscription(context.Background(), account.ID, 1, "ops"))
	assert.EqualValues(t, 2, count())

	require.NoError(t, svc.CancelSubscription(context.Background(), account.ID, "ops"))
	assert.EqualValues(t, 3, count())

	require.NoError(t, svc.MarkResetReady(context.Background(), account.ID, "ops"))
	assert.EqualValues(t, 4, count())
}
