package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventmanagement/internal/domain"
)

// eventColumns selects an event row together with its attendee set, oldest registration first.
const eventColumns = `e.id, e.title, e.description, e.date, e.location, e.category, e.is_free, e.price,
		e.image_url, e.gallery_image_urls, e.organizer_id, e.status, e.cancellation_reason,
		e.created_at, e.updated_at,
		ARRAY(SELECT a.user_id::text FROM event_attendees a WHERE a.event_id = e.id ORDER BY a.created_at) AS attendees`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var gallery, attendees []string
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Category, &e.IsFree, &e.Price,
		&e.ImageURL, pq.Array(&gallery), &e.OrganizerID, &e.Status, &e.CancellationReason,
		&e.CreatedAt, &e.UpdatedAt, pq.Array(&attendees),
	)
	if err != nil {
		return nil, err
	}
	if gallery == nil {
		gallery = []string{}
	}
	if attendees == nil {
		attendees = []string{}
	}
	e.GalleryImageURLs = gallery
	e.Attendees = attendees
	return e, nil
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, date, location, category, is_free, price, image_url,
			gallery_image_urls, organizer_id, status, cancellation_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	gallery := e.GalleryImageURLs
	if gallery == nil {
		gallery = []string{}
	}
	err := r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Date, string(e.Location), string(e.Category), e.IsFree, e.Price, e.ImageURL,
		pq.Array(gallery), e.OrganizerID, string(e.Status), e.CancellationReason, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return translate(err)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	var where []string
	var args []any
	n := 1
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("e.status = $%d", n))
		args = append(args, string(filter.Status))
		n++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("e.title ILIKE '%%' || $%d || '%%'", n))
		args = append(args, filter.Search)
		n++
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("e.category = $%d", n))
		args = append(args, string(filter.Category))
		n++
	}
	query := `SELECT ` + eventColumns + ` FROM events e`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY e.date ASC`
	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) ListRecent(ctx context.Context, status domain.EventStatus, limit int) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.status = $1
		ORDER BY e.created_at DESC
		LIMIT $2
	`
	return r.queryEvents(ctx, query, string(status), limit)
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string, status domain.EventStatus) ([]*domain.Event, error) {
	if status == "" {
		query := `SELECT ` + eventColumns + `
			FROM events e
			WHERE e.organizer_id = $1
			ORDER BY e.date DESC
		`
		return r.queryEvents(ctx, query, organizerID)
	}
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.organizer_id = $1 AND e.status = $2
		ORDER BY e.date DESC
	`
	return r.queryEvents(ctx, query, organizerID, string(status))
}

func (r *eventRepository) ListByAttendeeID(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		INNER JOIN event_attendees ea ON ea.event_id = e.id
		WHERE ea.user_id = $1
		ORDER BY e.date ASC
	`
	return r.queryEvents(ctx, query, userID)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Date != nil {
		set("date", *patch.Date)
	}
	if patch.Location != nil {
		set("location", string(*patch.Location))
	}
	if patch.Category != nil {
		set("category", string(*patch.Category))
	}
	if patch.IsFree != nil {
		set("is_free", *patch.IsFree)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	if patch.GalleryImageURLs != nil {
		set("gallery_image_urls", pq.Array(*patch.GalleryImageURLs))
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events AS e SET %s
		WHERE e.id = $%d AND e.status = 'active'
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.inactiveOrMissing(ctx, eventID, domain.ErrEventNotActive)
	}
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// inactiveOrMissing tells a missing event apart from one whose status made a guarded
// write match no row.
func (r *eventRepository) inactiveOrMissing(ctx context.Context, eventID string, inactive error) error {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return translate(err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return inactive
}

func (r *eventRepository) Cancel(ctx context.Context, eventID, reason string) error {
	query := `
		UPDATE events
		SET status = 'cancelled', cancellation_reason = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'active'
	`
	result, err := r.DB.ExecContext(ctx, query, reason, eventID)
	if err != nil {
		return translate(err)
	}
	if rows, _ := result.RowsAffected(); rows == 1 {
		return nil
	}
	return r.inactiveOrMissing(ctx, eventID, domain.ErrAlreadyCancelled)
}

func (r *eventRepository) AddAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	query := `
		INSERT INTO event_attendees (event_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (event_id, user_id) DO NOTHING
	`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return false, translate(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}
