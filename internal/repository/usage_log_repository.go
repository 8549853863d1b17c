package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"seat-service/internal/models"
)

// UsageLogRepository handles database operations for the usage trail
type UsageLogRepository struct {
	db *gorm.DB
}

// NewUsageLogRepository creates a new usage log repository
func NewUsageLogRepository(db *gorm.DB) *UsageLogRepository {
	return &UsageLogRepository{db: db}
}

// Append records a new usage-log entry
func (r *UsageLogRepository) Append(ctx context.Context, entry *models.AccountUsageLog, actor string) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.CreatedBy = actor
	return r.db.WithContext(ctx).Create(entry).Error
}

// Query retrieves usage logs matching the filter, newest first
func (r *UsageLogRepository) Query(ctx context.Context, filter models.UsageLogFilter) ([]models.AccountUsageLog, int64, error) {
	var logs []models.AccountUsageLog
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AccountUsageLog{})
	query = r.applyFilters(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := 50
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	offset := 0
	if filter.Offset > 0 {
		offset = filter.Offset
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// CountByAccount returns the number of entries for an account
func (r *UsageLogRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AccountUsageLog{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

// applyFilters applies filter criteria to the query
func (r *UsageLogRepository) applyFilters(query *gorm.DB, filter models.UsageLogFilter) *gorm.DB {
	if filter.AccountID != uuid.Nil {
		query = query.Where("account_id = ?", filter.AccountID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at <= ?", *filter.ToDate)
	}
	return query
}
