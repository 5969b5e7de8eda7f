package domain

import (
	"context"
	"time"
)

// Metadata keys attached to a checkout session and echoed back by the provider webhook.
const (
	MetadataEventID = "eventId"
	MetadataUserID  = "userId"
)

// WebhookEventCheckoutCompleted is the provider event type that fulfills a purchase.
const WebhookEventCheckoutCompleted = "checkout.session.completed"

// CheckoutLineItem is a single priced line of a hosted checkout.
type CheckoutLineItem struct {
	Name        string
	Description string
	Currency    string
	// UnitAmount is expressed in the currency's minor unit (e.g. paise).
	UnitAmount int64
	Quantity   int64
}

// CheckoutSessionRequest describes the hosted checkout to create.
type CheckoutSessionRequest struct {
	LineItem   CheckoutLineItem
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is the provider's handle for a hosted checkout.
// swagger:model CheckoutSession
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentProvider creates hosted checkout sessions.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
}

// WebhookEvent is a verified provider callback.
type WebhookEvent struct {
	ID        string
	Type      string
	SessionID string
	Metadata  map[string]string
}

// WebhookVerifier checks the signature of a raw webhook body. It returns ErrInvalidSignature
// when the payload cannot be trusted.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

// WebhookDeduplicator remembers which provider events were already processed.
type WebhookDeduplicator interface {
	// Claim returns true the first time eventID is seen within ttl.
	Claim(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// Release forgets eventID so a redelivery is processed again.
	Release(ctx context.Context, eventID string) error
}

// CheckoutService defines the paid registration flow.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, eventID, userID string) (*CheckoutSession, error)
	HandlePaymentWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}
