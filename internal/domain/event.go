package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// EventStatus is the lifecycle state of an event. The only transition is active -> cancelled.
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

// Location is one of the cities events and users can be placed in.
type Location string

// Locations is the closed set of supported locations.
var Locations = []Location{
	"Chennai",
	"Coimbatore",
	"Madurai",
	"Tiruchirappalli (Trichy)",
	"Salem",
	"Tirunelveli",
	"Vellore",
	"Thoothukudi (Tuticorin)",
	"Erode",
	"Thanjavur",
	"Dindigul",
	"Nagercoil",
	"Kancheepuram",
}

// Valid reports whether l is a member of Locations.
func (l Location) Valid() bool {
	return slices.Contains(Locations, l)
}

// Category classifies an event.
type Category string

const (
	CategoryMusic     Category = "Music"
	CategoryTech      Category = "Tech"
	CategoryArt       Category = "Art"
	CategoryFoodDrink Category = "Food & Drink"
	CategorySports    Category = "Sports"
	CategoryOther     Category = "Other"
)

// Categories is the closed set of supported categories.
var Categories = []Category{CategoryMusic, CategoryTech, CategoryArt, CategoryFoodDrink, CategorySports, CategoryOther}

// Valid reports whether c is a member of Categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Event is a scheduled event posted by an organizer.
// swagger:model Event
type Event struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Date               time.Time   `json:"date"`
	Location           Location    `json:"location"`
	Category           Category    `json:"category"`
	IsFree             bool        `json:"is_free"`
	Price              float64     `json:"price"`
	ImageURL           string      `json:"image_url"`
	GalleryImageURLs   []string    `json:"gallery_image_urls"`
	OrganizerID        string      `json:"organizer_id"`
	Attendees          []string    `json:"attendees"`
	Status             EventStatus `json:"status"`
	CancellationReason string      `json:"cancellation_reason"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// NewEvent returns an active Event owned by organizerID. ID is set by the repository on create.
func NewEvent(title, description string, date time.Time, location Location, category Category, isFree bool, price float64, organizerID string, createdAt, updatedAt time.Time) *Event {
	if category == "" {
		category = CategoryOther
	}
	return &Event{
		Title:            title,
		Description:      description,
		Date:             date,
		Location:         location,
		Category:         category,
		IsFree:           isFree,
		Price:            price,
		GalleryImageURLs: []string{},
		OrganizerID:      organizerID,
		Attendees:        []string{},
		Status:           EventStatusActive,
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
}

// Validate checks the enumerations and required fields of the event.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(e.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if !e.Location.Valid() {
		return fmt.Errorf("%w: location %q is not supported", ErrInvalidInput, e.Location)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: category %q is not supported", ErrInvalidInput, e.Category)
	}
	return nil
}

// NormalizePricing forces the price of a free event to zero and rejects a paid event
// without a positive price.
func (e *Event) NormalizePricing() error {
	if e.IsFree {
		e.Price = 0
		return nil
	}
	if e.Price <= 0 {
		return fmt.Errorf("%w: paid events need a price greater than 0", ErrInvalidInput)
	}
	return nil
}

// HasAttendee reports whether userID is in the attendee set.
func (e *Event) HasAttendee(userID string) bool {
	return slices.Contains(e.Attendees, userID)
}

// IsActive reports whether the event can still take registrations.
func (e *Event) IsActive() bool {
	return e.Status == EventStatusActive
}

// EventPatch lists the fields an organizer may change. Nil fields are left unchanged.
// Status and cancellation reason are deliberately absent.
type EventPatch struct {
	Title            *string
	Description      *string
	Date             *time.Time
	Location         *Location
	Category         *Category
	IsFree           *bool
	Price            *float64
	ImageURL         *string
	GalleryImageURLs *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p == EventPatch{}
}

// Apply validates each supplied field and copies it onto e.
func (p EventPatch) Apply(e *Event) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		e.Title = *p.Title
	}
	if p.Description != nil {
		if strings.TrimSpace(*p.Description) == "" {
			return fmt.Errorf("%w: description cannot be empty", ErrInvalidInput)
		}
		e.Description = *p.Description
	}
	if p.Date != nil {
		if p.Date.IsZero() {
			return fmt.Errorf("%w: date cannot be empty", ErrInvalidInput)
		}
		e.Date = *p.Date
	}
	if p.Location != nil {
		if !p.Location.Valid() {
			return fmt.Errorf("%w: location %q is not supported", ErrInvalidInput, *p.Location)
		}
		e.Location = *p.Location
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return fmt.Errorf("%w: category %q is not supported", ErrInvalidInput, *p.Category)
		}
		e.Category = *p.Category
	}
	if p.IsFree != nil {
		e.IsFree = *p.IsFree
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
		}
		e.Price = *p.Price
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.GalleryImageURLs != nil {
		e.GalleryImageURLs = *p.GalleryImageURLs
	}
	return nil
}

// EventFilter narrows event listings. Zero values mean "no filter".
type EventFilter struct {
	Search   string
	Category Category
	Status   EventStatus
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListRecent(ctx context.Context, status EventStatus, limit int) ([]*Event, error)
	ListByOrganizerID(ctx context.Context, organizerID string, status EventStatus) ([]*Event, error)
	ListByAttendeeID(ctx context.Context, userID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, patch EventPatch) (*Event, error)
	// Cancel moves an active event to cancelled. Returns ErrAlreadyCancelled when the
	// event is not active (including when a concurrent cancel won).
	Cancel(ctx context.Context, eventID, reason string) error
	// AddAttendee inserts userID into the attendee set if absent. added is false when the
	// user was already an attendee. Free registration and payment fulfillment both use it.
	AddAttendee(ctx context.Context, eventID, userID string) (added bool, err error)
}

// OrganizerEvents splits an organizer's events around the current time.
type OrganizerEvents struct {
	Upcoming []*Event `json:"upcoming_events"`
	Past     []*Event `json:"past_events"`
}

// EventService defines the event lifecycle and read operations.
type EventService interface {
	CreateEvent(ctx context.Context, organizerID string, event *Event) error
	UpdateEvent(ctx context.Context, eventID, organizerID string, patch EventPatch) (*Event, error)
	CancelEvent(ctx context.Context, eventID, organizerID, reason string) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context, search string, category string) ([]*Event, error)
	ListFeaturedEvents(ctx context.Context) ([]*Event, error)
	ListMyEvents(ctx context.Context, organizerID string) ([]*Event, error)
	ListAttendingEvents(ctx context.Context, userID string) ([]*Event, error)
	GetOrganizerProfile(ctx context.Context, organizerID string) (*User, error)
	ListOrganizerEvents(ctx context.Context, organizerID string) (*OrganizerEvents, error)
}
