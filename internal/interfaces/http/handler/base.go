package handler

import (
	"errors"
	"net/http"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/infrastructure/logger"
	"github.com/dripnest/storefront/internal/interfaces/http/dto"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServerErrorMessage is what clients see for any unexpected failure
const ServerErrorMessage = "Server error"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Paginated sends one page of a listing with its pagination block
func (h *BaseHandler) Paginated(c *gin.Context, data any, pagination shared.Pagination) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(data, pagination))
}

// Message sends a success response carrying only a message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// Error sends an error response, deriving the status code from the error code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, dto.ErrCodeUnauthorized, message)
}

// HandleError converts domain errors to their HTTP status and hides everything else behind a 500
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.Error(c, domainErr.Code, domainErr.Message)
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, dto.ErrCodeTooLarge, "Request entity too large")
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, ServerErrorMessage))
}

// BindJSON binds the body into req and answers 400 with readable field messages on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, dto.ErrCodeTooLarge, "Request entity too large")
			return false
		}
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ParamUUID parses a path parameter as an id. A malformed id cannot name
// an existing resource, so it answers 404 with notFoundMessage.
func (h *BaseHandler) ParamUUID(c *gin.Context, name, notFoundMessage string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.NotFound(c, notFoundMessage)
		return uuid.Nil, false
	}
	return id, true
}

// CurrentUserID returns the authenticated user's id, answering 401 when absent
func (h *BaseHandler) CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetJWTUserUUID(c)
	if !ok {
		h.Unauthorized(c, "Not authorized to access this route")
		return uuid.Nil, false
	}
	return userID, true
}
