package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventmanagement/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationRowColumns = []string{"id", "user_id", "event_id", "message", "is_read", "created_at"}

func TestNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs("u-1", "ev-1", `New event "Jazz" in Salem`, false, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("n-1"))

	n := domain.NewNotification("u-1", "ev-1", `New event "Jazz" in Salem`, now)
	require.NoError(t, NewNotificationRepository(db).Create(context.Background(), n))
	assert.Equal(t, "n-1", n.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByUserID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM notifications\s+WHERE user_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(notificationRowColumns).
			AddRow("n-2", "u-1", "ev-2", "second", false, now).
			AddRow("n-1", "u-1", "ev-1", "first", true, now.Add(-time.Hour)))

	list, err := NewNotificationRepository(db).ListByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n-2", list[0].ID)
	assert.True(t, list[1].IsRead)
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("owner marks read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE notifications\s+SET is_read = TRUE\s+WHERE id = \$1 AND user_id = \$2`).
			WithArgs("n-1", "u-1").
			WillReturnRows(sqlmock.NewRows(notificationRowColumns).AddRow("n-1", "u-1", "ev-1", "msg", true, time.Now()))

		n, err := NewNotificationRepository(db).MarkRead(ctx, "n-1", "u-1")
		require.NoError(t, err)
		assert.True(t, n.IsRead)
	})

	t.Run("someone else's notification", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE notifications`).
			WithArgs("n-1", "u-2").
			WillReturnError(sql.ErrNoRows)

		_, err = NewNotificationRepository(db).MarkRead(ctx, "n-1", "u-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND NOT is_read`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewNotificationRepository(db).CountUnread(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
