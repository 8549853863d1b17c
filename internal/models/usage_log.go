package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UsageAction represents the type of lifecycle event recorded for a seat
type UsageAction string

const (
	ActionCreate            UsageAction = "CREATE"
	ActionDeliver           UsageAction = "DELIVER"
	ActionCancel            UsageAction = "CANCEL"
	ActionRenew             UsageAction = "RENEW"
	ActionReuse             UsageAction = "REUSE"
	ActionUpdate            UsageAction = "UPDATE"
	ActionStatusChange      UsageAction = "STATUS_CHANGE"
	ActionPasswordReset     UsageAction = "PASSWORD_RESET"
	ActionAssignToOrder     UsageAction = "ASSIGN_TO_ORDER"
	ActionUnassignFromOrder UsageAction = "UNASSIGN_FROM_ORDER"
	ActionCardChange        UsageAction = "CARD_CHANGE"
)

// Valid reports whether the action is one of the known codes
func (a UsageAction) Valid() bool {
	switch a {
	case ActionCreate, ActionDeliver, ActionCancel, ActionRenew, ActionReuse,
		ActionUpdate, ActionStatusChange, ActionPasswordReset,
		ActionAssignToOrder, ActionUnassignFromOrder, ActionCardChange:
		return true
	}
	return false
}

// AccountUsageLog is a single append-only audit entry for a seat account.
// Every mutation performed through the lifecycle engine produces exactly
// one entry in the same transaction as the account write.
type AccountUsageLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`

	AccountID  uuid.UUID  `json:"accountId" gorm:"type:uuid;not null;index"`
	CustomerID *uuid.UUID `json:"customerId" gorm:"type:uuid;index"`
	ProductID  *uuid.UUID `json:"productId" gorm:"type:uuid;index"`

	Action UsageAction `json:"action" gorm:"type:varchar(30);not null;index"`

	// Snapshot of the account's subscription window at the time of the event
	RequestDate *time.Time `json:"requestDate" gorm:"type:date"`
	ExpireDate  *time.Time `json:"expireDate" gorm:"type:date"`

	// Human-readable summary, always non-empty
	Description string `json:"description" gorm:"type:text;not null"`

	// Additional context
	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt" gorm:"index;not null"`
	CreatedBy string    `json:"createdBy" gorm:"type:varchar(255);not null"`
}

// TableName specifies the table name
func (AccountUsageLog) TableName() string {
	return "account_usage_logs"
}

// BeforeCreate hook to set the creation timestamp
func (l *AccountUsageLog) BeforeCreate(tx *gorm.DB) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}

// UsageLogFilter represents filter criteria for querying usage logs
type UsageLogFilter struct {
	AccountID  uuid.UUID   `json:"accountId"`
	CustomerID *uuid.UUID  `json:"customerId"`
	ProductID  *uuid.UUID  `json:"productId"`
	Action     UsageAction `json:"action"`
	FromDate   *time.Time  `json:"fromDate"`
	ToDate     *time.Time  `json:"toDate"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}
