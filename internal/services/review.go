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

type reviewService struct {
	reviewRepo     domain.ReviewRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewReviewService(reviewRepo domain.ReviewRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// ReviewEvent stores a review from one of the event's attendees. Each attendee reviews
// an event at most once.
func (s *reviewService) ReviewEvent(ctx context.Context, eventID, userID string, rating int, comment string) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.HasAttendee(userID) {
		return nil, fmt.Errorf("%w: you can only review events you have attended", domain.ErrForbidden)
	}
	review := domain.NewEventReview(event, userID, rating, comment, s.now())
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.CreateEventReview(ctx, review); err != nil {
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			return nil, fmt.Errorf("%w this event", err)
		}
		return nil, fmt.Errorf("create event review: %w", err)
	}
	metrics.ReviewsCreatedTotal.WithLabelValues("event").Inc()
	s.logger.InfoContext(ctx, "event reviewed", "event_id", eventID, "user_id", userID, "rating", rating)
	return review, nil
}

func (s *reviewService) ListEventReviews(ctx context.Context, eventID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	list, err := s.reviewRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event reviews: %w", err)
	}
	return nonNilReviews(list), nil
}

// ReviewOrganizer stores a review of an organizer. Any signed-in user other than the
// organizer may leave one.
func (s *reviewService) ReviewOrganizer(ctx context.Context, organizerID, userID string, rating int, comment string) (*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.checkOrganizer(ctx, organizerID); err != nil {
		return nil, err
	}
	if organizerID == userID {
		return nil, fmt.Errorf("%w: organizers cannot review themselves", domain.ErrForbidden)
	}
	review := domain.NewOrganizerReview(organizerID, userID, rating, comment, s.now())
	if err := review.Validate(); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.CreateOrganizerReview(ctx, review); err != nil {
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			return nil, fmt.Errorf("%w this organizer", err)
		}
		return nil, fmt.Errorf("create organizer review: %w", err)
	}
	metrics.ReviewsCreatedTotal.WithLabelValues("organizer").Inc()
	s.logger.InfoContext(ctx, "organizer reviewed", "organizer_id", organizerID, "user_id", userID, "rating", rating)
	return review, nil
}

func (s *reviewService) ListOrganizerReviews(ctx context.Context, organizerID string) ([]*domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.checkOrganizer(ctx, organizerID); err != nil {
		return nil, err
	}
	list, err := s.reviewRepo.ListByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list organizer reviews: %w", err)
	}
	return nonNilReviews(list), nil
}

func (s *reviewService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// checkOrganizer reports ErrNotFound unless organizerID names an organizer account.
func (s *reviewService) checkOrganizer(ctx context.Context, organizerID string) error {
	user, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: organizer", domain.ErrNotFound)
		}
		return fmt.Errorf("get organizer: %w", err)
	}
	if user.Role != domain.RoleOrganizer {
		return fmt.Errorf("%w: organizer", domain.ErrNotFound)
	}
	return nil
}

func nonNilReviews(list []*domain.Review) []*domain.Review {
	if list == nil {
		return []*domain.Review{}
	}
	return list
}
