package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents the lifecycle state of a seat account
type AccountStatus string

const (
	StatusCreated    AccountStatus = "CREATED"
	StatusSubsActive AccountStatus = "SUBS_ACTIVE"
	StatusDelivered  AccountStatus = "DELIVERED"
	StatusInUse      AccountStatus = "IN_USE"
	StatusExpiring   AccountStatus = "EXPIRING"
	StatusCanceled   AccountStatus = "CANCELED"
	StatusResetReady AccountStatus = "RESET_READY"
)

// AllStatuses lists every known account status
var AllStatuses = []AccountStatus{
	StatusCreated,
	StatusSubsActive,
	StatusDelivered,
	StatusInUse,
	StatusExpiring,
	StatusCanceled,
	StatusResetReady,
}

// Valid reports whether the status is one of the known codes
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusSubsActive, StatusDelivered, StatusInUse,
		StatusExpiring, StatusCanceled, StatusResetReady:
		return true
	}
	return false
}

// Account represents a sold/leased subscription seat tied to a product
// and, once sold, a customer and order.
type Account struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`

	// Seat identity
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`

	// Lifecycle state
	Status AccountStatus `json:"status" gorm:"type:varchar(20);not null;index"`

	// Subscription window (date-only)
	SubscriptionStartDate *time.Time `json:"subscriptionStartDate" gorm:"type:date"`
	SubscriptionEndDate   *time.Time `json:"subscriptionEndDate" gorm:"type:date;index"`

	// Sale linkage
	CustomerID *uuid.UUID `json:"customerId" gorm:"type:uuid;index"`
	OrderID    *uuid.UUID `json:"orderId" gorm:"type:uuid;index"`
	CardID     *uuid.UUID `json:"cardId" gorm:"type:uuid;index"`

	DeliveryDate    *time.Time `json:"deliveryDate" gorm:"type:date"`
	LastPaymentDate *time.Time `json:"lastPaymentDate" gorm:"type:date"`
	Memo            string     `json:"memo" gorm:"type:text"`

	IsDeleted bool `json:"isDeleted" gorm:"not null;default:false;index"`

	// Audit stamps, set by the lifecycle engine on every mutation
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy" gorm:"type:varchar(255)"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy" gorm:"type:varchar(255)"`
}

// TableName specifies the table name
func (Account) TableName() string {
	return "accounts"
}

// IsActive reports whether the seat is live: not soft-deleted and not canceled
func (a *Account) IsActive() bool {
	return !a.IsDeleted && a.Status != StatusCanceled
}

// IsReusable reports whether the seat has been scrubbed and can be resold
func (a *Account) IsReusable() bool {
	return !a.IsDeleted && a.Status == StatusResetReady
}

// HasSubscriptionWindow reports whether both window dates are set
func (a *Account) HasSubscriptionWindow() bool {
	return a.SubscriptionStartDate != nil && a.SubscriptionEndDate != nil
}
