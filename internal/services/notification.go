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

type notificationService struct {
	notificationRepo domain.NotificationRepository
	userRepo         domain.UserRepository
	logger           *slog.Logger
	contextTimeout   time.Duration
	now              func() time.Time
}

func NewNotificationService(notificationRepo domain.NotificationRepository, userRepo domain.UserRepository, logger *slog.Logger, timeout time.Duration) domain.NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
		contextTimeout:   timeout,
		now:              time.Now,
	}
}

func eventCreatedMessage(e *domain.Event) string {
	return fmt.Sprintf("New event %q in %s", e.Title, e.Location)
}

// NotifyEventCreated writes one notification per user living in the event's location.
// It keeps going past individual failures and reports them joined together.
func (s *notificationService) NotifyEventCreated(ctx context.Context, event *domain.Event) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.ListByRoleAndLocation(ctx, domain.RoleUser, event.Location)
	if err != nil {
		return 0, fmt.Errorf("list users in %s: %w", event.Location, err)
	}
	message := eventCreatedMessage(event)
	created := 0
	var errs []error
	for _, u := range users {
		n := domain.NewNotification(u.ID, event.ID, message, s.now())
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("notify user %s: %w", u.ID, err))
			continue
		}
		created++
	}
	metrics.NotificationsCreatedTotal.Add(float64(created))
	return created, errors.Join(errs...)
}

func (s *notificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	list, err := s.notificationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if list == nil {
		list = []*domain.Notification{}
	}
	return list, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	n, err := s.notificationRepo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
