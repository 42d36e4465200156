package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	middleware.SetupValidator()
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", shared.NewDomainError("NOT_FOUND", "Product not found"), http.StatusNotFound, "Product not found"},
		{"wrapped domain error", fmt.Errorf("place order: %w", shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for Tee")), http.StatusBadRequest, "Insufficient stock for Tee"},
		{"forbidden", shared.NewDomainError("FORBIDDEN", "Not authorized to cancel this order"), http.StatusForbidden, "Not authorized to cancel this order"},
		{"rule violation", shared.NewDomainError("ALREADY_EXISTS", "User already exists"), http.StatusBadRequest, "User already exists"},
		{"payment gateway down", shared.NewDomainError("PAYMENT_UNAVAILABLE", "Payments are not configured"), http.StatusServiceUnavailable, "Payments are not configured"},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "Request entity too large"},
		{"unexpected", errors.New("connection reset by peer"), http.StatusInternalServerError, ServerErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			router := gin.New()
			router.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w, body := doRequest(t, router, http.MethodGet, "/", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["error"])
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, nil)
	assert.Equal(t, 0, w.Body.Len())
}

type bindTarget struct {
	Name    string `json:"name" binding:"required,max=5"`
	Email   string `json:"email" binding:"required,email"`
	ZipCode string `json:"zipCode" binding:"required"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.Use(middleware.BodyLimit(64))
	router.POST("/", func(c *gin.Context) {
		var req bindTarget
		if h.BindJSON(c, &req) {
			h.Success(c, req)
		}
	})

	t.Run("valid body", func(t *testing.T) {
		w, body := doRequest(t, router, http.MethodPost, "/", map[string]string{"name": "Ann", "email": "ann@example.com", "zipCode": "10001"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
	})

	t.Run("field messages are joined", func(t *testing.T) {
		w, body := doRequest(t, router, http.MethodPost, "/", map[string]string{"name": "Annabel", "email": "nope"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Name cannot exceed 5 characters, Please provide a valid email, Zip code is required", body["error"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w, body := doRequest(t, router, http.MethodPost, "/", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", body["error"])
	})

	t.Run("oversized body", func(t *testing.T) {
		w, body := doRequest(t, router, http.MethodPost, "/", `{"name":"`+strings.Repeat("a", 128)+`"}`)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, false, body["success"])
	})
}

func TestBaseHandler_ParamUUID(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.ParamUUID(c, "id", "Item not found")
		if ok {
			h.Success(c, id)
		}
	})

	id := uuid.New()
	w, body := doRequest(t, router, http.MethodGet, "/items/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), body["data"])

	w, body = doRequest(t, router, http.MethodGet, "/items/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item not found", body["error"])
}

func TestBaseHandler_CurrentUserID(t *testing.T) {
	h := &BaseHandler{}
	userID := uuid.New()

	withUser := gin.New()
	withUser.GET("/", asUser(userID, "customer"), func(c *gin.Context) {
		if id, ok := h.CurrentUserID(c); ok {
			h.Success(c, id)
		}
	})
	w, body := doRequest(t, withUser, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), body["data"])

	anonymous := gin.New()
	anonymous.GET("/", func(c *gin.Context) {
		if id, ok := h.CurrentUserID(c); ok {
			h.Success(c, id)
		}
	})
	w, _ = doRequest(t, anonymous, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
