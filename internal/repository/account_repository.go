package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seat-service/internal/models"
)

// AccountRepository handles database operations for seat accounts
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Insert persists a new account and assigns its ID
func (r *AccountRepository) Insert(ctx context.Context, account *models.Account, actor string) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.CreatedBy = actor
	account.UpdatedAt = now
	account.UpdatedBy = actor
	return r.db.WithContext(ctx).Create(account).Error
}

// Update persists a full-field update of an existing account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account, actor string) error {
	account.UpdatedAt = time.Now()
	account.UpdatedBy = actor
	// Save writes all fields, including zero values such as cleared order IDs
	return r.db.WithContext(ctx).Save(account).Error
}

// SoftDelete flags an account as deleted without removing the row
func (r *AccountRepository) SoftDelete(ctx context.Context, id uuid.UUID, actor string) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_at": time.Now(),
			"updated_by": actor,
		}).Error
}

// GetByID retrieves an account by ID; returns (nil, nil) when missing
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by seat email; returns (nil, nil) when missing
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListActive retrieves all non-deleted accounts
func (r *AccountRepository) ListActive(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("email ASC").
		Find(&accounts).Error
	return accounts, err
}

// ListByOrder retrieves all non-deleted accounts bound to an order
func (r *AccountRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("is_deleted = ? AND order_id = ?", false, orderID).
		Order("email ASC").
		Find(&accounts).Error
	return accounts, err
}

// ListExpiring retrieves non-deleted accounts whose subscription window
// ends within the given number of days of the reference date
func (r *AccountRepository) ListExpiring(ctx context.Context, reference time.Time, days int) ([]models.Account, error) {
	cutoff := reference.AddDate(0, 0, days)
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("is_deleted = ? AND subscription_end_date IS NOT NULL AND subscription_end_date <= ?", false, cutoff).
		Order("subscription_end_date ASC").
		Find(&accounts).Error
	return accounts, err
}

// ListAssignable retrieves accounts eligible for order assignment
func (r *AccountRepository) ListAssignable(ctx context.Context, productID, excludeOrderID *uuid.UUID) ([]models.Account, error) {
	query := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Where("status IN ?", []models.AccountStatus{models.StatusResetReady, models.StatusSubsActive})

	if excludeOrderID != nil {
		query = query.Where("order_id IS NULL OR order_id = ?", *excludeOrderID)
	} else {
		query = query.Where("order_id IS NULL")
	}
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var accounts []models.Account
	err := query.Order("email ASC").Find(&accounts).Error
	return accounts, err
}
