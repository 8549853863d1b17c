package models

import "github.com/google/uuid"

// Date fields in request bodies are "YYYY-MM-DD" strings; handlers parse
// them before calling into the service layer.

// CreateAccountRequest represents a request to register a new seat account
type CreateAccountRequest struct {
	Email                 string     `json:"email" binding:"required,email"`
	ProductID             uuid.UUID  `json:"product_id" binding:"required"`
	Status                string     `json:"status,omitempty"`
	SubscriptionStartDate string     `json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   string     `json:"subscription_end_date,omitempty"`
	CustomerID            *uuid.UUID `json:"customer_id,omitempty"`
	OrderID               *uuid.UUID `json:"order_id,omitempty"`
	CardID                *uuid.UUID `json:"card_id,omitempty"`
	Memo                  string     `json:"memo,omitempty"`
}

// UpdateAccountRequest represents a free-form full-field update
type UpdateAccountRequest struct {
	Email                 string     `json:"email" binding:"required,email"`
	ProductID             uuid.UUID  `json:"product_id" binding:"required"`
	Status                string     `json:"status" binding:"required"`
	SubscriptionStartDate string     `json:"subscription_start_date,omitempty"`
	SubscriptionEndDate   string     `json:"subscription_end_date,omitempty"`
	CustomerID            *uuid.UUID `json:"customer_id,omitempty"`
	OrderID               *uuid.UUID `json:"order_id,omitempty"`
	CardID                *uuid.UUID `json:"card_id,omitempty"`
	DeliveryDate          string     `json:"delivery_date,omitempty"`
	LastPaymentDate       string     `json:"last_payment_date,omitempty"`
	Memo                  string     `json:"memo,omitempty"`
}

// ChangeStatusRequest represents a request to move a seat to a new status
type ChangeStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description,omitempty"`
}

// DeliverRequest represents a request to mark a seat as delivered
type DeliverRequest struct {
	DeliveryDate string `json:"delivery_date,omitempty"`
}

// ReuseAccountRequest represents a request to recycle a scrubbed seat
type ReuseAccountRequest struct {
	CustomerID            uuid.UUID  `json:"customer_id" binding:"required"`
	ProductID             uuid.UUID  `json:"product_id" binding:"required"`
	SubscriptionStartDate string     `json:"subscription_start_date" binding:"required"`
	SubscriptionEndDate   string     `json:"subscription_end_date" binding:"required"`
	OrderID               *uuid.UUID `json:"order_id,omitempty"`
	DeliveryDate          string     `json:"delivery_date,omitempty"`
}

// UpdateBasicInfoRequest represents a guarded status/window/memo overwrite
type UpdateBasicInfoRequest struct {
	Status                string  `json:"status" binding:"required"`
	SubscriptionStartDate string  `json:"subscription_start_date" binding:"required"`
	SubscriptionEndDate   string  `json:"subscription_end_date" binding:"required"`
	DeliveryDate          string  `json:"delivery_date,omitempty"`
	Memo                  *string `json:"memo,omitempty"`
}

// ExtendRequest represents a single-account subscription extension.
// Months carries no binding validation; non-positive values reach the
// service layer, where they are a silent no-op.
type ExtendRequest struct {
	Months int `json:"months"`
}

// BatchExtendRequest represents a best-effort extension across many seats
type BatchExtendRequest struct {
	AccountIDs []uuid.UUID `json:"account_ids" binding:"required,min=1"`
	Months     int         `json:"months"`
}

// AssignToOrderRequest represents linking seats to an order
type AssignToOrderRequest struct {
	AccountIDs []uuid.UUID `json:"account_ids" binding:"required,min=1"`
	OrderCode  string      `json:"order_code,omitempty"`
	CustomerID *uuid.UUID  `json:"customer_id,omitempty"`
}

// UnassignFromOrderRequest represents unlinking seats from an order
type UnassignFromOrderRequest struct {
	AccountIDs []uuid.UUID `json:"account_ids" binding:"required,min=1"`
}

// UpdateCardAssignmentsRequest bulk-sets or clears the payment card on seats
type UpdateCardAssignmentsRequest struct {
	AccountIDs []uuid.UUID `json:"account_ids" binding:"required,min=1"`
	CardID     *uuid.UUID  `json:"card_id,omitempty"`
}
