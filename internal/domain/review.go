package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Ratings are whole stars.
const (
	MinRating = 1
	MaxRating = 5

	maxReviewCommentLength = 2000
)

// Review is a star rating with a comment. Event reviews carry EventID and the event's
// organizer; organizer reviews leave EventID empty.
// swagger:model Review
type Review struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id,omitempty"`
	OrganizerID string    `json:"organizer_id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEventReview returns a review of event by userID. ID and UserName are set by the
// repository on create.
func NewEventReview(event *Event, userID string, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		EventID:     event.ID,
		OrganizerID: event.OrganizerID,
		UserID:      userID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		CreatedAt:   createdAt,
	}
}

// NewOrganizerReview returns a review of organizerID by userID.
func NewOrganizerReview(organizerID, userID string, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		OrganizerID: organizerID,
		UserID:      userID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		CreatedAt:   createdAt,
	}
}

// Validate checks the rating range and that the comment is present and bounded.
func (r *Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, MinRating, MaxRating)
	}
	if r.Comment == "" {
		return fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if len(r.Comment) > maxReviewCommentLength {
		return fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, maxReviewCommentLength)
	}
	return nil
}

// ReviewRepository stores event and organizer reviews. Both Create methods return
// ErrAlreadyReviewed when the user has already reviewed the same target.
type ReviewRepository interface {
	CreateEventReview(ctx context.Context, r *Review) error
	ListByEventID(ctx context.Context, eventID string) ([]*Review, error)
	CreateOrganizerReview(ctx context.Context, r *Review) error
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*Review, error)
}

// ReviewService lets attendees rate events and organizers.
type ReviewService interface {
	// ReviewEvent records userID's review of an event they attend.
	ReviewEvent(ctx context.Context, eventID, userID string, rating int, comment string) (*Review, error)
	ListEventReviews(ctx context.Context, eventID string) ([]*Review, error)
	// ReviewOrganizer records userID's review of an organizer.
	ReviewOrganizer(ctx context.Context, organizerID, userID string, rating int, comment string) (*Review, error)
	ListOrganizerReviews(ctx context.Context, organizerID string) ([]*Review, error)
}
