package handler

import (
	billingapp "github.com/dripnest/storefront/internal/application/billing"
	identityapp "github.com/dripnest/storefront/internal/application/identity"
)

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"Product not found"`
	Code    string `json:"code,omitempty" example:"NOT_FOUND"`
}

// MessageResponse is a success response that carries only a message
// @Description Success response without data
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Product deleted successfully"`
}

// AuthResponse is returned by register, login and refresh
// @Description Issued token pair and the signed-in user
type AuthResponse struct {
	Success      bool                     `json:"success" example:"true"`
	Token        string                   `json:"token"`
	RefreshToken string                   `json:"refreshToken"`
	User         identityapp.UserResponse `json:"user"`
}

func newAuthResponse(r *identityapp.AuthResult) AuthResponse {
	return AuthResponse{
		Success:      true,
		Token:        r.Token,
		RefreshToken: r.RefreshToken,
		User:         r.User,
	}
}

// CurrentUserResponse is returned by /auth/me
type CurrentUserResponse struct {
	Success bool                     `json:"success" example:"true"`
	User    identityapp.UserResponse `json:"user"`
}

// PaymentIntentCreatedResponse carries the client secret of a new payment intent
// @Description Payment intent created for the browser to confirm
type PaymentIntentCreatedResponse struct {
	Success         bool   `json:"success" example:"true"`
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// PaymentConfirmedResponse is returned once a payment intent has succeeded
type PaymentConfirmedResponse struct {
	Success       bool                         `json:"success" example:"true"`
	Message       string                       `json:"message" example:"Payment confirmed successfully"`
	PaymentIntent billingapp.PaymentIntentView `json:"paymentIntent"`
}

// WebhookAck acknowledges a verified webhook delivery
type WebhookAck struct {
	Received bool `json:"received" example:"true"`
}

// HealthResponse reports API and database availability
// @Description Health check result
type HealthResponse struct {
	Status    string         `json:"status" example:"OK"`
	Message   string         `json:"message" example:"DripNest API is running"`
	Timestamp string         `json:"timestamp,omitempty"`
	Database  DatabaseHealth `json:"database"`
}

// DatabaseHealth is the database part of the health check
type DatabaseHealth struct {
	Status string `json:"status" example:"connected"`
}
