package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"eventmanagement/internal/domain"
)

const testTimeout = 5 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository. AddAttendee is atomic under mu,
// mirroring the primary-key insert of the real store.
type fakeEventRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Event
	nextID    int
	createErr error
	addErr    error
	// stallAdds makes that many AddAttendee calls wait for their context to end.
	stallAdds int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	c.Attendees = slices.Clone(e.Attendees)
	c.GalleryImageURLs = slices.Clone(e.GalleryImageURLs)
	return &c
}

func (f *fakeEventRepo) put(e *domain.Event) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == "" {
		e.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
		f.nextID++
	}
	if e.Attendees == nil {
		e.Attendees = []string{}
	}
	f.byID[e.ID] = copyEvent(e)
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.put(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.byID[id]; ok {
		return copyEvent(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) filter(keep func(*domain.Event) bool) []*domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Event
	for _, e := range f.byID {
		if keep(e) {
			out = append(out, copyEvent(e))
		}
	}
	return out
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	return f.filter(func(e *domain.Event) bool {
		return (filter.Status == "" || e.Status == filter.Status) &&
			(filter.Category == "" || e.Category == filter.Category)
	}), nil
}

func (f *fakeEventRepo) ListRecent(ctx context.Context, status domain.EventStatus, limit int) ([]*domain.Event, error) {
	out := f.filter(func(e *domain.Event) bool { return e.Status == status })
	slices.SortFunc(out, func(a, b *domain.Event) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventRepo) ListByOrganizerID(ctx context.Context, organizerID string, status domain.EventStatus) ([]*domain.Event, error) {
	out := f.filter(func(e *domain.Event) bool {
		return e.OrganizerID == organizerID && (status == "" || e.Status == status)
	})
	slices.SortFunc(out, func(a, b *domain.Event) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (f *fakeEventRepo) ListByAttendeeID(ctx context.Context, userID string) ([]*domain.Event, error) {
	return f.filter(func(e *domain.Event) bool { return e.HasAttendee(userID) }), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, eventID string, patch domain.EventPatch) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if e.Status != domain.EventStatusActive {
		return nil, domain.ErrEventNotActive
	}
	if err := patch.Apply(e); err != nil {
		return nil, err
	}
	if e.IsFree && e.Price != 0 {
		return nil, domain.ErrInvalidInput
	}
	return copyEvent(e), nil
}

func (f *fakeEventRepo) Cancel(ctx context.Context, eventID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.Status != domain.EventStatusActive {
		return domain.ErrAlreadyCancelled
	}
	e.Status = domain.EventStatusCancelled
	e.CancellationReason = reason
	return nil
}

func (f *fakeEventRepo) AddAttendee(ctx context.Context, eventID, userID string) (bool, error) {
	if f.addErr != nil {
		return false, f.addErr
	}
	f.mu.Lock()
	if f.stallAdds > 0 {
		f.stallAdds--
		f.mu.Unlock()
		<-ctx.Done()
		return false, ctx.Err()
	}
	defer f.mu.Unlock()
	e, ok := f.byID[eventID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if e.HasAttendee(userID) {
		return false, nil
	}
	e.Attendees = append(e.Attendees, userID)
	return true, nil
}

func (f *fakeEventRepo) attendees(eventID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.byID[eventID].Attendees)
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	listErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("10000000-0000-0000-0000-%012d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) ListByRoleAndLocation(ctx context.Context, role domain.Role, location domain.Location) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.byID {
		if u.Role == role && u.Location == location {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRoleAndVerification(ctx context.Context, role domain.Role, status domain.VerificationStatus) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.User
	for _, u := range f.byID {
		if u.Role == role && u.VerificationStatus == status {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok || u.Role != domain.RoleOrganizer {
		return domain.ErrNotFound
	}
	u.VerificationStatus = status
	return nil
}

// fakeNotificationRepo records created notifications; failFor makes Create fail for a user.
type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*domain.Notification
	failFor map[string]bool
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[n.UserID] {
		return errors.New("insert failed")
	}
	n.ID = fmt.Sprintf("n-%d", len(f.created)+1)
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.created {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return n, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// fakeReviewRepo keeps reviews in memory and enforces one review per user and target.
type fakeReviewRepo struct {
	mu        sync.Mutex
	reviews   []*domain.Review
	createErr error
}

func (f *fakeReviewRepo) create(r *domain.Review, sameTarget func(*domain.Review) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.reviews {
		if existing.UserID == r.UserID && sameTarget(existing) {
			return domain.ErrAlreadyReviewed
		}
	}
	r.ID = fmt.Sprintf("rv-%d", len(f.reviews)+1)
	r.UserName = "User " + r.UserID[len(r.UserID)-2:]
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeReviewRepo) CreateEventReview(ctx context.Context, r *domain.Review) error {
	return f.create(r, func(e *domain.Review) bool { return e.EventID == r.EventID })
}

func (f *fakeReviewRepo) CreateOrganizerReview(ctx context.Context, r *domain.Review) error {
	return f.create(r, func(e *domain.Review) bool { return e.EventID == "" && e.OrganizerID == r.OrganizerID })
}

func (f *fakeReviewRepo) list(keep func(*domain.Review) bool) []*domain.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Review
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if keep(f.reviews[i]) {
			out = append(out, f.reviews[i])
		}
	}
	return out
}

func (f *fakeReviewRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Review, error) {
	return f.list(func(r *domain.Review) bool { return r.EventID == eventID }), nil
}

func (f *fakeReviewRepo) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Review, error) {
	return f.list(func(r *domain.Review) bool { return r.EventID == "" && r.OrganizerID == organizerID }), nil
}

// fakeNotificationService lets event tests fail the fan-out.
type fakeNotificationService struct {
	domain.NotificationService
	calls int
	err   error
}

func (f *fakeNotificationService) NotifyEventCreated(ctx context.Context, event *domain.Event) (int, error) {
	f.calls++
	return 0, f.err
}

type fakePaymentProvider struct {
	mu       sync.Mutex
	requests []*domain.CheckoutSessionRequest
	err      error
}

func (f *fakePaymentProvider) CreateCheckoutSession(ctx context.Context, req *domain.CheckoutSessionRequest) (*domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)
	id := fmt.Sprintf("cs_test_%d", len(f.requests))
	return &domain.CheckoutSession{ID: id, URL: "https://checkout.example.com/" + id}, nil
}

// fakeVerifier accepts exactly one signature header value.
type fakeVerifier struct {
	validHeader string
	event       *domain.WebhookEvent
}

func (f *fakeVerifier) VerifyWebhook(payload []byte, signatureHeader string) (*domain.WebhookEvent, error) {
	if signatureHeader != f.validHeader {
		return nil, fmt.Errorf("%w: signature mismatch", domain.ErrInvalidSignature)
	}
	return f.event, nil
}

// fakeDedup rejects calls on a finished context the way a network client does.
type fakeDedup struct {
	mu       sync.Mutex
	seen     map[string]bool
	released []string
	err      error
}

func newFakeDedup() *fakeDedup { return &fakeDedup{seen: make(map[string]bool)} }

func (f *fakeDedup) Claim(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[eventID] {
		return false, nil
	}
	f.seen[eventID] = true
	return true, nil
}

func (f *fakeDedup) Release(ctx context.Context, eventID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.seen, eventID)
	f.released = append(f.released, eventID)
	return nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.RegistrationConfirmedEmailData
	err  error
}

func (f *fakeEmailService) SendRegistrationConfirmed(ctx context.Context, data *domain.RegistrationConfirmedEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeEmailService) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// Fixtures.

const (
	organizerID      = "20000000-0000-0000-0000-000000000001"
	otherOrganizerID = "20000000-0000-0000-0000-000000000002"
	pendingOrgID     = "20000000-0000-0000-0000-000000000003"
	attendeeID       = "30000000-0000-0000-0000-000000000001"
	adminID          = "40000000-0000-0000-0000-000000000001"
)

func testUser(id string, role domain.Role, location domain.Location) *domain.User {
	now := time.Now()
	u := domain.NewUser("User "+id[len(id)-2:], id+"@example.com", role, location, "Org", now, now)
	u.ID = id
	if role == domain.RoleOrganizer {
		u.VerificationStatus = domain.VerificationVerified
	}
	return u
}

func standardUsers() *fakeUserRepo {
	pending := testUser(pendingOrgID, domain.RoleOrganizer, "Chennai")
	pending.VerificationStatus = domain.VerificationPending
	return newFakeUserRepo(
		testUser(organizerID, domain.RoleOrganizer, "Chennai"),
		testUser(otherOrganizerID, domain.RoleOrganizer, "Chennai"),
		pending,
		testUser(attendeeID, domain.RoleUser, "Madurai"),
		testUser(adminID, domain.RoleAdmin, "Chennai"),
	)
}

func freeEvent() *domain.Event {
	return domain.NewEvent("Community Meetup", "Monthly meetup", time.Now().Add(72*time.Hour), "Madurai",
		domain.CategoryTech, true, 0, organizerID, time.Now(), time.Now())
}

func paidEvent(price float64) *domain.Event {
	return domain.NewEvent("Jazz Night", "Live jazz", time.Now().Add(72*time.Hour), "Madurai",
		domain.CategoryMusic, false, price, organizerID, time.Now(), time.Now())
}
