// Package handler holds the HTTP handlers of the back office.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/report"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/infrastructure/logger"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}

// getActor returns the authenticated identity, or uuid.Nil when the route
// is served without one
func getActor(c *gin.Context) uuid.UUID {
	id, _ := middleware.UserID(c)
	return id
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// HandleError converts err into an error envelope. Domain errors keep
// their message and field details; aggregation failures surface their
// message as a 500; anything else is logged and hidden.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewDetailedErrorResponse(code, domainErr.Message, requestID, toDetails(domainErr.Details)))
		return
	}

	_ = c.Error(err)

	var aggErr *report.AggregationError
	if errors.As(err, &aggErr) {
		logger.GetGinLogger(c).Error("Aggregation failed", zap.String("view", aggErr.View), zap.Error(aggErr.Err))
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, aggErr.Error(), requestID))
		return
	}

	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

func toDetails(fields []shared.FieldError) []dto.ValidationDetail {
	if len(fields) == 0 {
		return nil
	}
	details := make([]dto.ValidationDetail, len(fields))
	for i, f := range fields {
		details[i] = dto.ValidationDetail{Field: f.Field, Message: f.Message}
	}
	return details
}
