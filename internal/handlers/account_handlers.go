package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"seat-service/internal/cache"
	"seat-service/internal/middleware"
	"seat-service/internal/models"
	"seat-service/internal/services"
)

const dateLayout = "2006-01-02"

// AccountHandlers handles HTTP requests for seat account lifecycle
type AccountHandlers struct {
	lifecycle *services.LifecycleService
	cache     *cache.AccountCache
	metrics   *middleware.Metrics
	logger    *logrus.Logger
}

// NewAccountHandlers creates a new account handlers instance
func NewAccountHandlers(lifecycle *services.LifecycleService, accountCache *cache.AccountCache, metrics *middleware.Metrics, logger *logrus.Logger) *AccountHandlers {
	return &AccountHandlers{
		lifecycle: lifecycle,
		cache:     accountCache,
		metrics:   metrics,
		logger:    logger,
	}
}

// CreateAccount registers a new seat account
// POST /api/v1/accounts
func (h *AccountHandlers) CreateAccount(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	account := &models.Account{
		Email:      req.Email,
		ProductID:  req.ProductID,
		Status:     models.AccountStatus(req.Status),
		CustomerID: req.CustomerID,
		OrderID:    req.OrderID,
		CardID:     req.CardID,
		Memo:       req.Memo,
	}
	var err error
	if account.SubscriptionStartDate, err = parseDatePtr(req.SubscriptionStartDate); err != nil {
		badRequest(c, "Invalid subscription_start_date", err)
		return
	}
	if account.SubscriptionEndDate, err = parseDatePtr(req.SubscriptionEndDate); err != nil {
		badRequest(c, "Invalid subscription_end_date", err)
		return
	}

	id, err := h.lifecycle.Create(c.Request.Context(), account, actor(c))
	if err != nil {
		h.metrics.RecordLifecycleOp("create", "error")
		h.respondServiceError(c, err)
		return
	}

	h.metrics.RecordLifecycleOp("create", "success")
	c.JSON(http.StatusCreated, models.APIResponse{Success: true, Data: gin.H{"id": id}})
}

// GetAccount retrieves a single account, served from cache when possible
// GET /api/v1/accounts/:id
func (h *AccountHandlers) GetAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if account, err := h.cache.GetAccount(c.Request.Context(), id); err == nil {
		c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: account})
		return
	}

	account, err := h.lifecycle.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	h.cache.SetAccount(c.Request.Context(), account)
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: account})
}

// ListAccounts lists all active accounts
// GET /api/v1/accounts
func (h *AccountHandlers) ListAccounts(c *gin.Context) {
	accounts, err := h.lifecycle.ListActiveAccounts(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: models.ListResponse{Items: accounts, Total: int64(len(accounts))}})
}

// UpdateAccount performs a free-form full-field update
// PUT /api/v1/accounts/:id
func (h *AccountHandlers) UpdateAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if !models.AccountStatus(req.Status).Valid() {
		badRequestMsg(c, "Unknown status code")
		return
	}

	account := &models.Account{
		ID:         id,
		Email:      req.Email,
		ProductID:  req.ProductID,
		Status:     models.AccountStatus(req.Status),
		CustomerID: req.CustomerID,
		OrderID:    req.OrderID,
		CardID:     req.CardID,
		Memo:       req.Memo,
	}
	var err error
	if account.SubscriptionStartDate, err = parseDatePtr(req.SubscriptionStartDate); err != nil {
		badRequest(c, "Invalid subscription_start_date", err)
		return
	}
	if account.SubscriptionEndDate, err = parseDatePtr(req.SubscriptionEndDate); err != nil {
		badRequest(c, "Invalid subscription_end_date", err)
		return
	}
	if account.DeliveryDate, err = parseDatePtr(req.DeliveryDate); err != nil {
		badRequest(c, "Invalid delivery_date", err)
		return
	}
	if account.LastPaymentDate, err = parseDatePtr(req.LastPaymentDate); err != nil {
		badRequest(c, "Invalid last_payment_date", err)
		return
	}

	if err := h.lifecycle.Update(c.Request.Context(), account, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("update", "error")
		h.respondServiceError(c, err)
		return
	}

	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("update", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// DeleteAccount soft-deletes an account
// DELETE /api/v1/accounts/:id
func (h *AccountHandlers) DeleteAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.lifecycle.SoftDelete(c.Request.Context(), id, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("soft_delete", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("soft_delete", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// ChangeStatus moves an account to a new status
// POST /api/v1/accounts/:id/status
func (h *AccountHandlers) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	err := h.lifecycle.ChangeStatus(c.Request.Context(), id, models.AccountStatus(req.Status), actor(c), req.Description)
	if err != nil {
		h.metrics.RecordLifecycleOp("change_status", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("change_status", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// Deliver marks a seat as handed over to its customer
// POST /api/v1/accounts/:id/deliver
func (h *AccountHandlers) Deliver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	deliveryDate, err := parseDatePtr(req.DeliveryDate)
	if err != nil {
		badRequest(c, "Invalid delivery_date", err)
		return
	}

	if err := h.lifecycle.Deliver(c.Request.Context(), id, deliveryDate, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("deliver", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("deliver", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// Cancel cancels a subscription
// POST /api/v1/accounts/:id/cancel
func (h *AccountHandlers) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.lifecycle.CancelSubscription(c.Request.Context(), id, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("cancel", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("cancel", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// MarkResetReady scrubs a canceled seat for reuse
// POST /api/v1/accounts/:id/reset-ready
func (h *AccountHandlers) MarkResetReady(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.lifecycle.MarkResetReady(c.Request.Context(), id, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("mark_reset_ready", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("mark_reset_ready", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// Reuse recycles a scrubbed seat into a new customer/order/period
// POST /api/v1/accounts/:id/reuse
func (h *AccountHandlers) Reuse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ReuseAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	start, err := time.Parse(dateLayout, req.SubscriptionStartDate)
	if err != nil {
		badRequest(c, "Invalid subscription_start_date", err)
		return
	}
	end, err := time.Parse(dateLayout, req.SubscriptionEndDate)
	if err != nil {
		badRequest(c, "Invalid subscription_end_date", err)
		return
	}
	deliveryDate, err := parseDatePtr(req.DeliveryDate)
	if err != nil {
		badRequest(c, "Invalid delivery_date", err)
		return
	}

	params := services.ReuseParams{
		CustomerID:   req.CustomerID,
		ProductID:    req.ProductID,
		StartDate:    start,
		EndDate:      end,
		OrderID:      req.OrderID,
		DeliveryDate: deliveryDate,
	}
	if err := h.lifecycle.ReuseAccount(c.Request.Context(), id, params, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("reuse", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("reuse", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// UpdateBasicInfo performs the guarded status/window/memo overwrite
// PUT /api/v1/accounts/:id/basic-info
func (h *AccountHandlers) UpdateBasicInfo(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateBasicInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	start, err := time.Parse(dateLayout, req.SubscriptionStartDate)
	if err != nil {
		badRequest(c, "Invalid subscription_start_date", err)
		return
	}
	end, err := time.Parse(dateLayout, req.SubscriptionEndDate)
	if err != nil {
		badRequest(c, "Invalid subscription_end_date", err)
		return
	}
	deliveryDate, err := parseDatePtr(req.DeliveryDate)
	if err != nil {
		badRequest(c, "Invalid delivery_date", err)
		return
	}

	err = h.lifecycle.UpdateBasicInfo(c.Request.Context(), id,
		models.AccountStatus(req.Status), start, end, deliveryDate, req.Memo, actor(c))
	if err != nil {
		h.metrics.RecordLifecycleOp("update_basic_info", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("update_basic_info", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// Extend renews a single seat by N calendar months
// POST /api/v1/accounts/:id/extend
func (h *AccountHandlers) Extend(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	if err := h.lifecycle.ExtendSubscription(c.Request.Context(), id, req.Months, actor(c)); err != nil {
		h.metrics.RecordLifecycleOp("extend", "error")
		h.respondServiceError(c, err)
		return
	}
	h.cache.InvalidateAccount(c.Request.Context(), id)
	h.metrics.RecordLifecycleOp("extend", "success")
	c.JSON(http.StatusOK, models.APIResponse{Success: true})
}

// BatchExtend renews many seats, reporting per-account outcomes
// POST /api/v1/accounts/extend
func (h *AccountHandlers) BatchExtend(c *gin.Context) {
	var req models.BatchExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	results := h.lifecycle.ExtendSubscriptions(c.Request.Context(), req.AccountIDs, req.Months, actor(c))
	for _, r := range req.AccountIDs {
		h.cache.InvalidateAccount(c.Request.Context(), r)
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: batchResponse(results)})
}

// ListUsageLogs retrieves the usage trail for an account
// GET /api/v1/accounts/:id/usage-logs
func (h *AccountHandlers) ListUsageLogs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	filter := models.UsageLogFilter{AccountID: id}
	if action := c.Query("action"); action != "" {
		filter.Action = models.UsageAction(action)
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			badRequest(c, "Invalid from date", err)
			return
		}
		filter.FromDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			badRequest(c, "Invalid to date", err)
			return
		}
		filter.ToDate = &t
	}

	logs, total, err := h.lifecycle.QueryUsageLogs(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: models.ListResponse{Items: logs, Total: total}})
}

// respondServiceError maps service errors to HTTP status codes
func (h *AccountHandlers) respondServiceError(c *gin.Context, err error) {
	respondServiceError(c, h.logger, err)
}
