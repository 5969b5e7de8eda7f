package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

// CheckoutConfig carries the settings of the hosted checkout flow.
type CheckoutConfig struct {
	// Currency is the ISO currency code sent to the provider (lowercase, e.g. "inr").
	Currency string
	// FrontendURL is the base URL the provider redirects back to.
	FrontendURL string
	// DedupTTL bounds how long a processed webhook event id is remembered.
	DedupTTL time.Duration
}

const claimReleaseTimeout = 2 * time.Second

type checkoutService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	provider       domain.PaymentProvider
	verifier       domain.WebhookVerifier
	dedup          domain.WebhookDeduplicator
	emails         domain.EmailService
	cfg            CheckoutConfig
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewCheckoutService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	provider domain.PaymentProvider,
	verifier domain.WebhookVerifier,
	dedup domain.WebhookDeduplicator,
	emails domain.EmailService,
	cfg CheckoutConfig,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CheckoutService {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if cfg.Currency == "" {
		cfg.Currency = "inr"
	}
	cfg.Currency = strings.ToLower(cfg.Currency)
	return &checkoutService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		provider:       provider,
		verifier:       verifier,
		dedup:          dedup,
		emails:         emails,
		cfg:            cfg,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CreateCheckoutSession opens a hosted checkout for a paid event. It does not grant attendance.
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, eventID, userID string) (*domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.IsFree {
		return nil, fmt.Errorf("%w: checkout is only available for paid events", domain.ErrInvalidInput)
	}
	if !event.IsActive() {
		return nil, domain.ErrEventNotActive
	}
	if err := checkAttendeeEligible(ctx, s.userRepo, event, userID); err != nil {
		return nil, err
	}

	amount, err := minorUnits(event.Price)
	if err != nil {
		return nil, err
	}
	req := &domain.CheckoutSessionRequest{
		LineItem: domain.CheckoutLineItem{
			Name:        event.Title,
			Description: event.Description,
			Currency:    s.cfg.Currency,
			UnitAmount:  amount,
			Quantity:    1,
		},
		SuccessURL: s.cfg.FrontendURL + "/payment-success",
		CancelURL:  s.cfg.FrontendURL + "/event/" + event.ID,
		Metadata: map[string]string{
			domain.MetadataEventID: event.ID,
			domain.MetadataUserID:  userID,
		},
	}
	session, err := s.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		metrics.CheckoutSessionsTotal.WithLabelValues("upstream_error").Inc()
		if errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	s.logger.InfoContext(ctx, "checkout session created",
		"event_id", event.ID, "user_id", userID, "session_id", session.ID, "unit_amount", amount)
	return session, nil
}

// HandlePaymentWebhook verifies a provider callback and, for a completed checkout,
// adds the paying user to the event's attendees. A nil return acknowledges the delivery;
// an error other than ErrInvalidSignature asks the provider to redeliver.
func (s *checkoutService) HandlePaymentWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.verifier.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			metrics.WebhookEventsTotal.WithLabelValues("invalid_signature").Inc()
			return err
		}
		metrics.WebhookEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("decode webhook: %w", err)
	}
	logger := s.logger.With("webhook_event_id", event.ID, "webhook_type", event.Type)
	if event.Type != domain.WebhookEventCheckoutCompleted {
		metrics.WebhookEventsTotal.WithLabelValues("ignored").Inc()
		logger.DebugContext(ctx, "ignoring webhook event type")
		return nil
	}

	eventID := event.Metadata[domain.MetadataEventID]
	userID := event.Metadata[domain.MetadataUserID]
	if uuid.Validate(eventID) != nil || uuid.Validate(userID) != nil {
		metrics.WebhookEventsTotal.WithLabelValues("invalid_metadata").Inc()
		logger.WarnContext(ctx, "checkout session without usable metadata",
			"session_id", event.SessionID, "event_id", eventID, "user_id", userID)
		return nil
	}
	logger = logger.With("event_id", eventID, "user_id", userID, "session_id", event.SessionID)

	claimed, err := s.dedup.Claim(ctx, event.ID, s.cfg.DedupTTL)
	if err != nil {
		logger.WarnContext(ctx, "webhook dedup unavailable, processing anyway", "err", err)
		claimed = true
	}
	if !claimed {
		// A claim can outlive a failed attempt when its release did not reach the store,
		// so it is trusted only once the attendee is recorded.
		if stored, err := s.eventRepo.GetByID(ctx, eventID); err == nil && stored.HasAttendee(userID) {
			metrics.WebhookEventsTotal.WithLabelValues("duplicate").Inc()
			logger.InfoContext(ctx, "webhook event already processed")
			return nil
		}
		logger.WarnContext(ctx, "webhook event claimed but not fulfilled, processing again")
	}

	added, err := s.eventRepo.AddAttendee(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.WebhookEventsTotal.WithLabelValues("invalid_metadata").Inc()
			logger.WarnContext(ctx, "paid registration references a missing event or user")
			return nil
		}
		s.releaseClaim(ctx, logger, event.ID)
		metrics.WebhookEventsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fulfill paid registration: %w", err)
	}
	metrics.WebhookEventsTotal.WithLabelValues("fulfilled").Inc()
	if !added {
		logger.InfoContext(ctx, "paid registration already recorded")
		return nil
	}
	logger.InfoContext(ctx, "paid registration fulfilled")

	stored, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		logger.WarnContext(ctx, "load event after fulfillment", "err", err)
		return nil
	}
	if !stored.IsActive() {
		logger.WarnContext(ctx, "payment completed for a cancelled event; refund may be required")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.WarnContext(ctx, "load attendee after fulfillment", "err", err)
		return nil
	}
	confirmRegistration(ctx, s.logger, s.emails, user, stored)
	return nil
}

// releaseClaim forgets a webhook event id so the provider's redelivery is processed.
// It runs detached from ctx, which is usually already done when fulfillment failed.
func (s *checkoutService) releaseClaim(ctx context.Context, logger *slog.Logger, webhookEventID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), claimReleaseTimeout)
	defer cancel()
	if err := s.dedup.Release(ctx, webhookEventID); err != nil {
		logger.ErrorContext(ctx, "release webhook claim; redeliveries will be skipped until it expires", "err", err)
	}
}

// checkAttendeeEligible enforces the caller-side registration rules: only plain users
// may attend, and only once.
func checkAttendeeEligible(ctx context.Context, users domain.UserRepository, event *domain.Event, userID string) error {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
		}
		return fmt.Errorf("get user: %w", err)
	}
	if user.Role != domain.RoleUser {
		return fmt.Errorf("%w: only attendees can register for events", domain.ErrForbidden)
	}
	if event.HasAttendee(userID) {
		return domain.ErrAlreadyRegistered
	}
	return nil
}
