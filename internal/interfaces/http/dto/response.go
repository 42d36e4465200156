package dto

import (
	"github.com/dripnest/storefront/internal/domain/shared"
)

// Response is the envelope every JSON endpoint answers with
type Response struct {
	Success    bool               `json:"success"`
	Data       interface{}        `json:"data,omitempty"`
	Error      string             `json:"error,omitempty"`
	Code       string             `json:"code,omitempty"`
	Message    string             `json:"message,omitempty"`
	Pagination *shared.Pagination `json:"pagination,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewPaginatedResponse creates a success response carrying one page of a listing
func NewPaginatedResponse(data interface{}, pagination shared.Pagination) Response {
	return Response{
		Success:    true,
		Data:       data,
		Pagination: &pagination,
	}
}

// NewMessageResponse creates a success response with only a message
func NewMessageResponse(message string) Response {
	return Response{
		Success: true,
		Message: message,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error:   message,
		Code:    code,
	}
}
