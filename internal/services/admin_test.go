package services

import (
	"context"
	"testing"

	"eventmanagement/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_ListPendingOrganizers(t *testing.T) {
	svc := NewAdminService(standardUsers(), discardLogger(), testTimeout)

	pending, err := svc.ListPendingOrganizers(context.Background(), adminID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, pendingOrgID, pending[0].ID)

	_, err = svc.ListPendingOrganizers(context.Background(), organizerID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAdminService_ApproveOrganizer_enables_event_creation(t *testing.T) {
	ctx := context.Background()
	users := standardUsers()
	admin := NewAdminService(users, discardLogger(), testTimeout)
	events := NewEventService(newFakeEventRepo(), users, nil, discardLogger(), testTimeout)

	err := events.CreateEvent(ctx, pendingOrgID, freeEvent())
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, admin.ApproveOrganizer(ctx, adminID, pendingOrgID))
	require.NoError(t, events.CreateEvent(ctx, pendingOrgID, freeEvent()))

	pending, err := admin.ListPendingOrganizers(ctx, adminID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAdminService_RejectOrganizer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		callerID string
		targetID string
		wantErr  error
	}{
		{name: "admin rejects pending organizer", callerID: adminID, targetID: pendingOrgID},
		{name: "non admin caller", callerID: attendeeID, targetID: pendingOrgID, wantErr: domain.ErrForbidden},
		{name: "unknown caller", callerID: "99999999-0000-0000-0000-000000000000", targetID: pendingOrgID, wantErr: domain.ErrForbidden},
		{name: "target is not an organizer", callerID: adminID, targetID: attendeeID, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := standardUsers()
			err := NewAdminService(users, discardLogger(), testTimeout).RejectOrganizer(ctx, tt.callerID, tt.targetID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			u, err := users.GetByID(ctx, tt.targetID)
			require.NoError(t, err)
			assert.Equal(t, domain.VerificationRejected, u.VerificationStatus)
		})
	}
}
