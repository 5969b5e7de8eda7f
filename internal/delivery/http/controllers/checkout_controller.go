package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// maxWebhookBytes bounds the webhook body read into memory.
const maxWebhookBytes = 64 << 10

// signatureHeader carries the provider's webhook signature.
const signatureHeader = "Stripe-Signature"

// CreateSessionRequest is the request body for POST /checkout/create-session.
type CreateSessionRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
}

// CheckoutSessionSuccessResponse is the success envelope for POST /checkout/create-session.
type CheckoutSessionSuccessResponse struct {
	Data  *domain.CheckoutSession `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// WebhookAck is the body returned to the provider once a delivery is accepted.
type WebhookAck struct {
	Received bool `json:"received"`
}

type CheckoutController struct {
	Logger  *slog.Logger
	Service domain.CheckoutService
}

func NewCheckoutController(logger *slog.Logger, svc domain.CheckoutService) *CheckoutController {
	return &CheckoutController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSession godoc
// @Summary Create a checkout session for a paid event
// @Description Opens a hosted checkout priced at the event's price. Attendance is not granted until the provider confirms payment through the webhook.
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSessionRequest true "Event to pay for"
// @Success 200 {object} controllers.CheckoutSessionSuccessResponse "data contains the session id and redirect url"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_registered or event_not_active"
// @Failure 502 {object} helpers.APIResponse "error.code: upstream_failure"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /checkout/create-session [post]
func (c *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	session, err := c.Service.CreateCheckoutSession(r.Context(), req.EventID, userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, session)
}

// Webhook godoc
// @Summary Payment provider webhook
// @Description Receives signed provider events. The raw body is verified against the Stripe-Signature header before anything is processed. A completed checkout adds the paying user to the event's attendees.
// @Tags checkout
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature"
// @Success 200 {object} controllers.WebhookAck
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_signature or bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error (provider retries)"
// @Router /checkout/webhook [post]
func (c *CheckoutController) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			helpers.WriteJSONError(w, http.StatusRequestEntityTooLarge, helpers.ErrCodeBadRequest, "payload too large")
			return
		}
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read body")
		return
	}
	if err := c.Service.HandlePaymentWebhook(r.Context(), payload, r.Header.Get(signatureHeader)); err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.Logger.WarnContext(r.Context(), "webhook signature rejected", "remote_addr", r.RemoteAddr, "err", err)
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidSignature, "invalid signature")
			return
		}
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(WebhookAck{Received: true})
}
