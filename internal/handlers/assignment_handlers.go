package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"seat-service/internal/cache"
	"seat-service/internal/models"
	"seat-service/internal/services"
)

// AssignmentHandlers handles HTTP requests for order and card assignments
type AssignmentHandlers struct {
	assignments *services.AssignmentService
	cache       *cache.AccountCache
	logger      *logrus.Logger
}

// NewAssignmentHandlers creates a new assignment handlers instance
func NewAssignmentHandlers(assignments *services.AssignmentService, accountCache *cache.AccountCache, logger *logrus.Logger) *AssignmentHandlers {
	return &AssignmentHandlers{
		assignments: assignments,
		cache:       accountCache,
		logger:      logger,
	}
}

// ListAssignable lists accounts an order picker may choose from
// GET /api/v1/accounts/assignable?product_id=&exclude_order_id=
func (h *AssignmentHandlers) ListAssignable(c *gin.Context) {
	var productID, excludeOrderID *uuid.UUID
	if raw := c.Query("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid product_id", err)
			return
		}
		productID = &id
	}
	if raw := c.Query("exclude_order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "Invalid exclude_order_id", err)
			return
		}
		excludeOrderID = &id
	}

	accounts, err := h.assignments.GetAssignableAccountsForOrder(c.Request.Context(), productID, excludeOrderID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: models.ListResponse{Items: accounts, Total: int64(len(accounts))}})
}

// AssignToOrder links seats to an order
// POST /api/v1/orders/:orderId/assignments
func (h *AssignmentHandlers) AssignToOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		badRequest(c, "Invalid order ID", err)
		return
	}
	var req models.AssignToOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	results := h.assignments.AssignToOrder(c.Request.Context(), orderID, req.OrderCode, req.CustomerID, req.AccountIDs, actor(c))
	h.invalidate(c, req.AccountIDs)
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: batchResponse(results)})
}

// UnassignFromOrder unlinks seats from an order
// DELETE /api/v1/orders/:orderId/assignments
func (h *AssignmentHandlers) UnassignFromOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		badRequest(c, "Invalid order ID", err)
		return
	}
	var req models.UnassignFromOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	results := h.assignments.UnassignFromOrder(c.Request.Context(), orderID, req.AccountIDs, actor(c))
	h.invalidate(c, req.AccountIDs)
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: batchResponse(results)})
}

// UpdateCardAssignments bulk-sets or clears the payment card on seats
// PUT /api/v1/accounts/cards
func (h *AssignmentHandlers) UpdateCardAssignments(c *gin.Context) {
	var req models.UpdateCardAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	results := h.assignments.UpdateCardAssignments(c.Request.Context(), req.AccountIDs, req.CardID, actor(c))
	h.invalidate(c, req.AccountIDs)
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: batchResponse(results)})
}

func (h *AssignmentHandlers) invalidate(c *gin.Context, ids []uuid.UUID) {
	for _, id := range ids {
		h.cache.InvalidateAccount(c.Request.Context(), id)
	}
}
