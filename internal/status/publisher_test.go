package status

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aisekaisee/Tourist-Safety-App/internal/models"
)

func TestPublishInsertsWhenNoRowExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name, email FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("Alice", "alice@example.com"))

	mock.ExpectQuery("SELECT id FROM user_status").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"})) // no row yet

	mock.ExpectExec("INSERT INTO user_status").
		WithArgs(int64(7), "Alice", 37.7749, -122.4194, "sos_active", sqlmock.AnyArg(), "Golden Gate Park").
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := NewPublisher(db)

	var notified *models.UserStatus
	p.OnChange(func(row models.UserStatus) { notified = &row })

	err = p.Publish(context.Background(), 7, 37.7749, -122.4194, models.StatusSOSActive, "Golden Gate Park")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.NotNil(t, notified, "expected the change hook to fire")
	assert.Equal(t, int64(7), notified.UserID)
	assert.Equal(t, models.StatusSOSActive, notified.Status)
	assert.Equal(t, "Golden Gate Park", notified.Location)
}

func TestPublishUpdatesExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name, email FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("Alice", "alice@example.com"))

	mock.ExpectQuery("SELECT id FROM user_status").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	mock.ExpectExec("UPDATE user_status").
		WithArgs("Alice", 37.7749, -122.4194, "safe", sqlmock.AnyArg(), "", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := NewPublisher(db)
	err = p.Publish(context.Background(), 7, 37.7749, -122.4194, models.StatusSafe, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishUnknownUserIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name, email FROM users").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"})) // no account

	p := NewPublisher(db)
	fired := false
	p.OnChange(func(models.UserStatus) { fired = true })

	err = p.Publish(context.Background(), 99, 1, 2, models.StatusSafe, "")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.False(t, fired, "hook must not fire when nothing was written")
}

func TestPublishFallsBackToEmailThenGenericName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT name, email FROM users").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("", "alice@example.com"))

	mock.ExpectQuery("SELECT id FROM user_status").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectExec("INSERT INTO user_status").
		WithArgs(int64(7), "alice@example.com", 1.0, 2.0, "safe", sqlmock.AnyArg(), "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := NewPublisher(db)
	require.NoError(t, p.Publish(context.Background(), 7, 1.0, 2.0, models.StatusSafe, ""))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBoardOrdersByLastUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, user_id, name, latitude, longitude, status, last_update, location").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "latitude", "longitude", "status", "last_update", "location",
		}).
			AddRow(int64(2), int64(8), "Bob", 1.0, 2.0, "sos_active", now, "Somewhere").
			AddRow(int64(1), int64(7), "Alice", 3.0, 4.0, "safe", now.Add(-time.Minute), ""))

	p := NewPublisher(db)
	board, err := p.Board(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "Bob", board[0].Name)
	assert.Equal(t, models.StatusSOSActive, board[0].Status)
	assert.Equal(t, models.StatusSafe, board[1].Status)
}
