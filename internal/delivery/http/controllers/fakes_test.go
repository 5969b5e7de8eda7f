package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventmanagement/internal/delivery/http/helpers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testUserID  = "30000000-0000-0000-0000-000000000001"
	testEventID = "00000000-0000-0000-0000-000000000001"
)

// newRequest builds a request with an optional JSON body, path values and authenticated user.
func newRequest(method, target, body string, userID string, pathValues map[string]string) *http.Request {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if userID != "" {
		req = req.WithContext(middleware.SetUserID(req.Context(), userID))
	}
	return req
}

// decodeEnvelope decodes the response envelope and, if dest is non-nil, its data.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err           error
	event         *domain.Event
	events        []*domain.Event
	organizer     *domain.User
	organizerEvts *domain.OrganizerEvents

	lastCallerID string
	lastEventID  string
	lastCreate   *domain.Event
	lastPatch    domain.EventPatch
	lastReason   string
	lastSearch   string
	lastCategory string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, organizerID string, event *domain.Event) error {
	f.lastCallerID, f.lastCreate = organizerID, event
	if f.err != nil {
		return f.err
	}
	event.ID = "ev-created"
	return nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, eventID, organizerID string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastEventID, f.lastCallerID, f.lastPatch = eventID, organizerID, patch
	return f.event, f.err
}

func (f *fakeEventService) CancelEvent(ctx context.Context, eventID, organizerID, reason string) error {
	f.lastEventID, f.lastCallerID, f.lastReason = eventID, organizerID, reason
	return f.err
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	f.lastEventID = eventID
	return f.event, f.err
}

func (f *fakeEventService) ListEvents(ctx context.Context, search, category string) ([]*domain.Event, error) {
	f.lastSearch, f.lastCategory = search, category
	return f.events, f.err
}

func (f *fakeEventService) ListFeaturedEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.events, f.err
}

func (f *fakeEventService) ListMyEvents(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	f.lastCallerID = organizerID
	return f.events, f.err
}

func (f *fakeEventService) ListAttendingEvents(ctx context.Context, userID string) ([]*domain.Event, error) {
	f.lastCallerID = userID
	return f.events, f.err
}

func (f *fakeEventService) GetOrganizerProfile(ctx context.Context, organizerID string) (*domain.User, error) {
	f.lastCallerID = organizerID
	return f.organizer, f.err
}

func (f *fakeEventService) ListOrganizerEvents(ctx context.Context, organizerID string) (*domain.OrganizerEvents, error) {
	f.lastCallerID = organizerID
	return f.organizerEvts, f.err
}
