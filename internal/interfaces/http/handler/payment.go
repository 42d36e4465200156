package handler

import (
	"io"
	"net/http"

	billingapp "github.com/dripnest/storefront/internal/application/billing"
	"github.com/dripnest/storefront/internal/interfaces/http/dto"
	"github.com/dripnest/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Maximum webhook payload size; Stripe events are far smaller
const maxWebhookPayloadSize = 1 << 20

// PaymentHandler handles card payment endpoints and the Stripe webhook
type PaymentHandler struct {
	BaseHandler
	paymentService PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentIntent godoc
// @Summary      Create a payment intent
// @Description  Amount is in major currency units and is charged in cents
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreatePaymentIntentRequest true "Amount and optional order"
// @Success      200 {object} PaymentIntentCreatedResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req billingapp.CreatePaymentIntentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	intent, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentIntentCreatedResponse{
		Success:         true,
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.PaymentIntentID,
	})
}

// ConfirmPayment godoc
// @Summary      Confirm a payment
// @Description  Checks that the intent succeeded and marks the given order paid
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body billingapp.ConfirmPaymentRequest true "Intent and optional order"
// @Success      200 {object} PaymentConfirmedResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/confirm [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req billingapp.ConfirmPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	intent, err := h.paymentService.ConfirmPayment(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentConfirmedResponse{
		Success:       true,
		Message:       "Payment confirmed successfully",
		PaymentIntent: *intent,
	})
}

// PaymentMethods godoc
// @Summary      Accepted payment methods
// @Tags         payments
// @Produce      json
// @Success      200 {object} dto.Response{data=billingapp.PaymentMethodsResponse}
// @Security     BearerAuth
// @Router       /payments/methods [get]
func (h *PaymentHandler) PaymentMethods(c *gin.Context) {
	h.Success(c, h.paymentService.PaymentMethods())
}

// Refund godoc
// @Summary      Refund a payment
// @Description  Full refund unless an amount is given; the linked order becomes refunded
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body billingapp.RefundRequest true "Refund"
// @Success      200 {object} dto.Response{data=billingapp.RefundResponse}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}
	var req billingapp.RefundRequest
	if !h.BindJSON(c, &req) {
		return
	}

	refund, err := h.paymentService.Refund(c.Request.Context(), userID, middleware.IsAdmin(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, refund)
}

// Webhook godoc
// @Summary      Stripe webhook
// @Description  Verified against the Stripe-Signature header over the raw body
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature header string true "Stripe webhook signature"
// @Success      200 {object} WebhookAck
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /payments/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	// The signature covers the exact bytes Stripe sent
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		h.Error(c, dto.ErrCodeTooLarge, "Request entity too large")
		return
	}

	if _, err := h.paymentService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, WebhookAck{Received: true})
}
