package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReviewService struct {
	list []*domain.Review
	err  error

	calls       int
	gotTargetID string
	gotUserID   string
	gotRating   int
	gotComment  string
}

func (f *fakeReviewService) record(targetID, userID string, rating int, comment string) (*domain.Review, error) {
	f.calls++
	f.gotTargetID, f.gotUserID, f.gotRating, f.gotComment = targetID, userID, rating, comment
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Review{ID: "rv-1", UserID: userID, Rating: rating, Comment: comment, UserName: "Ravi"}, nil
}

func (f *fakeReviewService) ReviewEvent(ctx context.Context, eventID, userID string, rating int, comment string) (*domain.Review, error) {
	return f.record(eventID, userID, rating, comment)
}

func (f *fakeReviewService) ListEventReviews(ctx context.Context, eventID string) ([]*domain.Review, error) {
	f.gotTargetID = eventID
	return f.list, f.err
}

func (f *fakeReviewService) ReviewOrganizer(ctx context.Context, organizerID, userID string, rating int, comment string) (*domain.Review, error) {
	return f.record(organizerID, userID, rating, comment)
}

func (f *fakeReviewService) ListOrganizerReviews(ctx context.Context, organizerID string) ([]*domain.Review, error) {
	f.gotTargetID = organizerID
	return f.list, f.err
}

func TestReviewController_CreateEventReview(t *testing.T) {
	tests := []struct {
		name        string
		eventID     string
		userID      string
		body        string
		fakeErr     error
		wantStatus  int
		wantCode    string
		wantService bool
	}{
		{name: "attendee reviews", eventID: testEventID, userID: testUserID, body: `{"rating":5,"comment":"Loved it"}`, wantStatus: http.StatusCreated, wantService: true},
		{name: "missing rating", eventID: testEventID, userID: testUserID, body: `{"comment":"Loved it"}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "rating above five", eventID: testEventID, userID: testUserID, body: `{"rating":6,"comment":"Loved it"}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "missing comment", eventID: testEventID, userID: testUserID, body: `{"rating":4}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "unknown field", eventID: testEventID, userID: testUserID, body: `{"rating":4,"comment":"ok","stars":4}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "malformed event id", eventID: "ev-1", userID: testUserID, body: `{"rating":4,"comment":"ok"}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "anonymous", eventID: testEventID, body: `{"rating":4,"comment":"ok"}`, wantStatus: http.StatusUnauthorized, wantCode: "unauthorized"},
		{
			name:        "not an attendee",
			eventID:     testEventID,
			userID:      testUserID,
			body:        `{"rating":4,"comment":"ok"}`,
			fakeErr:     fmt.Errorf("%w: you can only review events you have attended", domain.ErrForbidden),
			wantStatus:  http.StatusForbidden,
			wantCode:    "forbidden",
			wantService: true,
		},
		{
			name:        "second review",
			eventID:     testEventID,
			userID:      testUserID,
			body:        `{"rating":4,"comment":"ok"}`,
			fakeErr:     fmt.Errorf("%w this event", domain.ErrAlreadyReviewed),
			wantStatus:  http.StatusConflict,
			wantCode:    "already_reviewed",
			wantService: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeReviewService{err: tt.fakeErr}
			rr := httptest.NewRecorder()
			req := newRequest(http.MethodPost, "/reviews/event/"+tt.eventID, tt.body, tt.userID, map[string]string{"eventID": tt.eventID})
			NewReviewController(testLogger, fake).CreateEventReview(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantService, fake.calls == 1)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			var review domain.Review
			decodeEnvelope(t, rr, &review)
			assert.Equal(t, 5, review.Rating)
			assert.Equal(t, testEventID, fake.gotTargetID)
			assert.Equal(t, testUserID, fake.gotUserID)
			assert.Equal(t, "Loved it", fake.gotComment)
		})
	}
}

func TestReviewController_CreateOrganizerReview(t *testing.T) {
	fake := &fakeReviewService{}
	rr := httptest.NewRecorder()
	req := newRequest(http.MethodPost, "/reviews/organizer/"+testOrganizerID, `{"rating":3,"comment":"Slow replies"}`, testUserID,
		map[string]string{"organizerID": testOrganizerID})
	NewReviewController(testLogger, fake).CreateOrganizerReview(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, testOrganizerID, fake.gotTargetID)
	assert.Equal(t, 3, fake.gotRating)

	fake = &fakeReviewService{err: fmt.Errorf("%w: organizers cannot review themselves", domain.ErrForbidden)}
	rr = httptest.NewRecorder()
	req = newRequest(http.MethodPost, "/reviews/organizer/"+testOrganizerID, `{"rating":5,"comment":"Me"}`, testOrganizerID,
		map[string]string{"organizerID": testOrganizerID})
	NewReviewController(testLogger, fake).CreateOrganizerReview(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestReviewController_list(t *testing.T) {
	reviews := []*domain.Review{{ID: "rv-2", Rating: 4, UserName: "Meena"}, {ID: "rv-1", Rating: 5, UserName: "Ravi"}}

	t.Run("event reviews are public", func(t *testing.T) {
		fake := &fakeReviewService{list: reviews}
		rr := httptest.NewRecorder()
		req := newRequest(http.MethodGet, "/reviews/event/"+testEventID, "", "", map[string]string{"eventID": testEventID})
		NewReviewController(testLogger, fake).ListEventReviews(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got []domain.Review
		decodeEnvelope(t, rr, &got)
		require.Len(t, got, 2)
		assert.Equal(t, "Meena", got[0].UserName)
		assert.Equal(t, testEventID, fake.gotTargetID)
	})

	t.Run("unknown organizer", func(t *testing.T) {
		fake := &fakeReviewService{err: fmt.Errorf("%w: organizer", domain.ErrNotFound)}
		rr := httptest.NewRecorder()
		req := newRequest(http.MethodGet, "/reviews/organizer/"+testOrganizerID, "", "", map[string]string{"organizerID": testOrganizerID})
		NewReviewController(testLogger, fake).ListOrganizerReviews(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
