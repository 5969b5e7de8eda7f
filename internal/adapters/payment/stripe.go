package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"eventmanagement/internal/domain"
)

// StripeConfig holds the Stripe credentials and backend overrides.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// APIURL overrides the Stripe API base URL (tests point it at an httptest server).
	APIURL     string
	HTTPClient *http.Client
	// MaxNetworkRetries is passed through to the Stripe backend; nil keeps the library default.
	MaxNetworkRetries *int64
}

// Stripe implements domain.PaymentProvider and domain.WebhookVerifier on top of stripe-go.
type Stripe struct {
	sessions      session.Client
	webhookSecret string
	logger        *slog.Logger
}

// NewStripe returns a Stripe adapter using its own backend, so the package-level stripe.Key is never touched.
func NewStripe(cfg StripeConfig, logger *slog.Logger) *Stripe {
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        cfg.HTTPClient,
		LeveledLogger:     &slogLeveledLogger{logger: logger},
		MaxNetworkRetries: cfg.MaxNetworkRetries,
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
	}
	return &Stripe{
		sessions: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
			Key: cfg.SecretKey,
		},
		webhookSecret: cfg.WebhookSecret,
		logger:        logger,
	}
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req *domain.CheckoutSessionRequest) (*domain.CheckoutSession, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.LineItem.Name),
	}
	if req.LineItem.Description != "" {
		product.Description = stripe.String(req.LineItem.Description)
	}
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(req.LineItem.Currency),
					UnitAmount:  stripe.Int64(req.LineItem.UnitAmount),
					ProductData: product,
				},
				Quantity: stripe.Int64(req.LineItem.Quantity),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	cs, err := s.sessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return nil, fmt.Errorf("%w: stripe %s (status %d, request %s): %s",
				domain.ErrUpstream, stripeErr.Type, stripeErr.HTTPStatusCode, stripeErr.RequestID, stripeErr.Msg)
		}
		return nil, fmt.Errorf("%w: stripe: %v", domain.ErrUpstream, err)
	}
	return &domain.CheckoutSession{ID: cs.ID, URL: cs.URL}, nil
}

// VerifyWebhook checks the Stripe-Signature header against the raw body and decodes the event.
// Only checkout sessions carry metadata; other event types come back with Metadata nil.
func (s *Stripe) VerifyWebhook(payload []byte, signatureHeader string) (*domain.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}
	out := &domain.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Type != stripe.EventTypeCheckoutSessionCompleted || event.Data == nil {
		return out, nil
	}
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	out.SessionID = cs.ID
	out.Metadata = cs.Metadata
	return out, nil
}

// slogLeveledLogger routes stripe-go's internal logging into the application logger.
type slogLeveledLogger struct {
	logger *slog.Logger
}

func (l *slogLeveledLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *slogLeveledLogger) Infof(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *slogLeveledLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l *slogLeveledLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
