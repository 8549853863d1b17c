package models

import "github.com/google/uuid"

// APIResponse is the standard API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// BatchItemResult reports the outcome for a single account in a batch
// operation; Error is empty on success.
type BatchItemResult struct {
	AccountID uuid.UUID `json:"account_id"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

// BatchResponse summarizes a best-effort batch operation
type BatchResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// ListResponse wraps a paginated account listing
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}
