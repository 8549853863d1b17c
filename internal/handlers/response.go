package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"seat-service/internal/models"
	"seat-service/internal/services"
)

// actor returns the acting user set by the Actor middleware
func actor(c *gin.Context) string {
	return c.GetString("actor")
}

// pathID parses the :id path parameter; writes a 400 response on failure
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   &models.APIError{Code: "INVALID_ID", Message: "Invalid account ID"},
		})
		return uuid.Nil, false
	}
	return id, true
}

// parseDatePtr parses an optional "YYYY-MM-DD" field; empty means nil
func parseDatePtr(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: "BAD_REQUEST", Message: message, Details: err.Error()},
	})
}

func badRequestMsg(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: "BAD_REQUEST", Message: message},
	})
}

// respondServiceError maps typed service errors onto HTTP status codes:
// validation 400, not-found 404, precondition 409, everything else 500.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	if validationErr, ok := services.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   &models.APIError{Code: "VALIDATION_ERROR", Message: validationErr.Error()},
		})
		return
	}
	if notFoundErr, ok := services.IsNotFoundError(err); ok {
		c.JSON(http.StatusNotFound, models.APIResponse{
			Success: false,
			Error:   &models.APIError{Code: "NOT_FOUND", Message: notFoundErr.Error()},
		})
		return
	}
	if preconditionErr, ok := services.IsPreconditionError(err); ok {
		c.JSON(http.StatusConflict, models.APIResponse{
			Success: false,
			Error:   &models.APIError{Code: "PRECONDITION_FAILED", Message: preconditionErr.Error()},
		})
		return
	}

	logger.WithError(err).Error("Unhandled service error")
	c.JSON(http.StatusInternalServerError, models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"},
	})
}

// batchResponse summarizes per-item results
func batchResponse(results []models.BatchItemResult) models.BatchResponse {
	resp := models.BatchResponse{Results: results}
	for _, r := range results {
		if r.OK {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}
