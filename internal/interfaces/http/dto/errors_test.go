package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dripnest/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeAlreadyExists, http.StatusBadRequest},
		{ErrCodeAlreadyReviewed, http.StatusBadRequest},
		{ErrCodeEmptyOrder, http.StatusBadRequest},
		{ErrCodeInsufficientStock, http.StatusBadRequest},
		{ErrCodeInvalidState, http.StatusBadRequest},
		{ErrCodePaymentNotCompleted, http.StatusBadRequest},
		{ErrCodeWebhook, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodePaymentUnavailable, http.StatusServiceUnavailable},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		// Unknown code should return 500
		{"PASSWORD_HASH_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestSharedErrorsAreMapped(t *testing.T) {
	for _, err := range []*shared.DomainError{
		shared.ErrNotFound,
		shared.ErrAlreadyExists,
		shared.ErrInvalidInput,
		shared.ErrUnauthorized,
		shared.ErrForbidden,
		shared.ErrInvalidState,
		shared.ErrInsufficientStock,
	} {
		t.Run(err.Code, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[err.Code]
			assert.True(t, ok, "Error code %s should be in ErrorCodeHTTPStatus map", err.Code)
		})
	}
}

func TestErrorResponseJSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "Order not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Order not found","code":"NOT_FOUND"}`, string(data))
}

func TestPaginatedResponseJSON(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, shared.NewPagination(2, 10, 11))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"success":true,"data":["a","b"],"pagination":{"page":2,"limit":10,"total":11,"pages":2}}`,
		string(data))
}

func TestMessageResponse(t *testing.T) {
	resp := NewMessageResponse("Product deleted successfully")

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Empty(t, resp.Error)
	assert.Equal(t, "Product deleted successfully", resp.Message)
}
