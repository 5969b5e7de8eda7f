package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmanagement/internal/domain"
)

const featuredEventsLimit = 3

// categoryAll is the listing filter value meaning "every category".
const categoryAll = "All"

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	notifications  domain.NotificationService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	notifications domain.NotificationService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// CreateEvent stores a new active event for a verified organizer and fans out
// notifications to users in the event's location.
func (s *eventService) CreateEvent(ctx context.Context, organizerID string, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	organizer, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown organizer", domain.ErrForbidden)
		}
		return fmt.Errorf("get organizer: %w", err)
	}
	if !organizer.CanCreateEvents() {
		return fmt.Errorf("%w: only verified organizers can create events", domain.ErrForbidden)
	}

	if event.Category == "" {
		event.Category = domain.CategoryOther
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if err := event.NormalizePricing(); err != nil {
		return err
	}
	now := s.now()
	event.OrganizerID = organizerID
	event.Status = domain.EventStatusActive
	event.CancellationReason = ""
	event.Attendees = []string{}
	if event.GalleryImageURLs == nil {
		event.GalleryImageURLs = []string{}
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	if s.notifications != nil {
		sent, err := s.notifications.NotifyEventCreated(ctx, event)
		if err != nil {
			s.logger.WarnContext(ctx, "event notification fan-out incomplete",
				"event_id", event.ID, "location", event.Location, "sent", sent, "err", err)
		} else {
			s.logger.InfoContext(ctx, "event notifications sent", "event_id", event.ID, "sent", sent)
		}
	}
	return nil
}

// loadOwnedEvent returns the event if organizerID owns it.
func (s *eventService) loadOwnedEvent(ctx context.Context, eventID, organizerID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OrganizerID != organizerID {
		return nil, domain.ErrUnauthorized
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, organizerID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadOwnedEvent(ctx, eventID, organizerID)
	if err != nil {
		return nil, err
	}
	if !event.IsActive() {
		return nil, fmt.Errorf("%w: cancelled events cannot be edited", domain.ErrEventNotActive)
	}

	merged := *event
	if err := patch.Apply(&merged); err != nil {
		return nil, err
	}
	if err := merged.NormalizePricing(); err != nil {
		return nil, err
	}
	if merged.Price != event.Price || patch.Price != nil {
		price := merged.Price
		patch.Price = &price
	}

	updated, err := s.eventRepo.Update(ctx, eventID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		if errors.Is(err, domain.ErrEventNotActive) {
			return nil, fmt.Errorf("%w: event was cancelled during the update", err)
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, organizerID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: cancellation reason is required", domain.ErrInvalidInput)
	}
	event, err := s.loadOwnedEvent(ctx, eventID, organizerID)
	if err != nil {
		return err
	}
	if !event.IsActive() {
		return domain.ErrAlreadyCancelled
	}
	if err := s.eventRepo.Cancel(ctx, eventID, reason); err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("cancel event: %w", err)
	}
	s.logger.InfoContext(ctx, "event cancelled", "event_id", eventID, "organizer_id", organizerID)
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents returns active events, optionally narrowed by a case-insensitive title
// search and a category ("All" or empty means every category).
func (s *eventService) ListEvents(ctx context.Context, search string, category string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filter := domain.EventFilter{
		Search: strings.TrimSpace(search),
		Status: domain.EventStatusActive,
	}
	if category != "" && category != categoryAll {
		c := domain.Category(category)
		if !c.Valid() {
			return nil, fmt.Errorf("%w: category %q is not supported", domain.ErrInvalidInput, category)
		}
		filter.Category = c
	}
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return nonNilEvents(events), nil
}

func (s *eventService) ListFeaturedEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListRecent(ctx, domain.EventStatusActive, featuredEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("list featured events: %w", err)
	}
	return nonNilEvents(events), nil
}

// ListMyEvents returns every event the organizer created, cancelled ones included.
func (s *eventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID, "")
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	return nonNilEvents(events), nil
}

func (s *eventService) ListAttendingEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByAttendeeID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attending events: %w", err)
	}
	return nonNilEvents(events), nil
}

func (s *eventService) GetOrganizerProfile(ctx context.Context, organizerID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	if user.Role != domain.RoleOrganizer {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// ListOrganizerEvents splits the organizer's active events around now. Both lists
// keep the newest date first.
func (s *eventService) ListOrganizerEvents(ctx context.Context, organizerID string) (*domain.OrganizerEvents, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizerID(ctx, organizerID, domain.EventStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	now := s.now()
	out := &domain.OrganizerEvents{Upcoming: []*domain.Event{}, Past: []*domain.Event{}}
	for _, e := range events {
		if e.Date.Before(now) {
			out.Past = append(out.Past, e)
		} else {
			out.Upcoming = append(out.Upcoming, e)
		}
	}
	return out, nil
}

func nonNilEvents(events []*domain.Event) []*domain.Event {
	if events == nil {
		return []*domain.Event{}
	}
	return events
}
