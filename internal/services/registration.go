package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
)

type registrationService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	checkout       domain.CheckoutService
	emails         domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewRegistrationService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	checkout domain.CheckoutService,
	emails domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		checkout:       checkout,
		emails:         emails,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Register adds the user to a free event, or hands a paid event over to checkout.
// Preconditions are checked in order: event exists, event active, caller is a user,
// caller not yet registered.
func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.IsActive() {
		metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrEventNotActive
	}
	if err := checkAttendeeEligible(ctx, s.userRepo, event, userID); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			metrics.RegistrationsTotal.WithLabelValues("already_registered").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("rejected").Inc()
		}
		return nil, err
	}

	if !event.IsFree {
		session, err := s.checkout.CreateCheckoutSession(ctx, eventID, userID)
		if err != nil {
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("checkout").Inc()
		return &domain.RegistrationResult{Registered: false, Checkout: session}, nil
	}

	added, err := s.eventRepo.AddAttendee(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("add attendee: %w", err)
	}
	if !added {
		metrics.RegistrationsTotal.WithLabelValues("already_registered").Inc()
		return nil, domain.ErrAlreadyRegistered
	}
	metrics.RegistrationsTotal.WithLabelValues("free").Inc()
	s.logger.InfoContext(ctx, "registered for free event", "event_id", eventID, "user_id", userID)

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		confirmRegistration(ctx, s.logger, s.emails, user, event)
	}
	return &domain.RegistrationResult{Registered: true}, nil
}
