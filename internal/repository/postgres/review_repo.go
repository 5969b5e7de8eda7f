package postgres

import (
	"context"
	"database/sql"

	"eventmanagement/internal/domain"
)

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) domain.ReviewRepository {
	return &reviewRepository{DB: db}
}

// Organizer reviews have no event, selected as an empty event_id.
const (
	eventReviewColumns     = `r.id, r.event_id::text, r.organizer_id, r.user_id, u.name, r.rating, r.comment, r.created_at`
	organizerReviewColumns = `r.id, '' AS event_id, r.organizer_id, r.user_id, u.name, r.rating, r.comment, r.created_at`
)

func scanReview(row rowScanner) (*domain.Review, error) {
	rv := &domain.Review{}
	err := row.Scan(&rv.ID, &rv.EventID, &rv.OrganizerID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// translateReview reports the one-review-per-user constraints as ErrAlreadyReviewed.
func translateReview(err error) error {
	if pqCode(err) == codeUniqueViolation {
		return domain.ErrAlreadyReviewed
	}
	return translate(err)
}

func (r *reviewRepository) CreateEventReview(ctx context.Context, rv *domain.Review) error {
	query := `
		WITH inserted AS (
			INSERT INTO event_reviews (event_id, organizer_id, user_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, user_id
		)
		SELECT i.id, u.name FROM inserted i JOIN users u ON u.id = i.user_id
	`
	err := r.DB.QueryRowContext(ctx, query, rv.EventID, rv.OrganizerID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).
		Scan(&rv.ID, &rv.UserName)
	return translateReview(err)
}

func (r *reviewRepository) CreateOrganizerReview(ctx context.Context, rv *domain.Review) error {
	query := `
		WITH inserted AS (
			INSERT INTO organizer_reviews (organizer_id, user_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id
		)
		SELECT i.id, u.name FROM inserted i JOIN users u ON u.id = i.user_id
	`
	err := r.DB.QueryRowContext(ctx, query, rv.OrganizerID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt).
		Scan(&rv.ID, &rv.UserName)
	return translateReview(err)
}

func (r *reviewRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Review, error) {
	query := `
		SELECT ` + eventReviewColumns + `
		FROM event_reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at DESC
	`
	return r.list(ctx, query, eventID)
}

func (r *reviewRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Review, error) {
	query := `
		SELECT ` + organizerReviewColumns + `
		FROM organizer_reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.organizer_id = $1
		ORDER BY r.created_at DESC
	`
	return r.list(ctx, query, organizerID)
}

func (r *reviewRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Review, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	list := make([]*domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	return list, rows.Err()
}
