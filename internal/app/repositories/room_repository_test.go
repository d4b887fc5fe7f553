package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

func newRoomRepoWithMock(t *testing.T) (*RoomRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRoomRepository(mock), mock
}

func TestRoomCreate(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO rooms`).
		WithArgs(int64(42), "Blue Room").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	room := &models.Room{RoomID: 42, Name: "Blue Room"}
	require.NoError(t, repo.Create(context.Background(), room))
	assert.Equal(t, now, room.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreateDuplicateID(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO rooms`).
		WithArgs(int64(42), "Blue Room").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Room{RoomID: 42, Name: "Blue Room"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetByIDNotFound(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)

	mock.ExpectQuery(`SELECT room_id, name, created_at, updated_at FROM rooms`).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}))

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomList(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT room_id, name, created_at, updated_at FROM rooms ORDER BY created_at ASC, room_id ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}).
			AddRow(int64(1), "First", now, now).
			AddRow(int64(2), "Second", now, now))

	rooms, err := repo.List(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(1), rooms[0].RoomID)
	assert.Equal(t, "Second", rooms[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomUpdateNotFound(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)

	mock.ExpectQuery(`UPDATE rooms SET`).
		WithArgs("New Name", int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}))

	_, err := repo.Update(context.Background(), 404, "New Name")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteReturnsPriorState(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT room_id, name, created_at, updated_at FROM rooms`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}).
			AddRow(int64(5), "Doomed", now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`DELETE FROM rooms`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	room, err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Doomed", room.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteWithStudentsRejected(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT room_id, name, created_at, updated_at FROM rooms`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}).
			AddRow(int64(5), "Occupied", now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	_, err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
	details := apperrors.Details(err)
	require.NotNil(t, details)
	assert.Equal(t, int64(3), details["student_count"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDeleteConcurrentAssignment(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)
	now := time.Now()

	// Count sees zero but a student is assigned before the delete lands; the
	// foreign key keeps the store consistent.
	mock.ExpectQuery(`SELECT room_id, name, created_at, updated_at FROM rooms`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}).
			AddRow(int64(5), "Racy", now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`DELETE FROM rooms`).
		WithArgs(int64(5)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, apperrors.ErrStorageIntegrity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomExists(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetWithStudents(t *testing.T) {
	repo, mock := newRoomRepoWithMock(t)
	now := time.Now()
	birthday := time.Date(2001, time.March, 14, 0, 0, 0, 0, time.UTC)
	roomID := int64(7)

	mock.ExpectQuery(`SELECT room_id, name, created_at, updated_at FROM rooms`).
		WithArgs(roomID).
		WillReturnRows(pgxmock.NewRows([]string{"room_id", "name", "created_at", "updated_at"}).
			AddRow(roomID, "Full", now, now))
	mock.ExpectQuery(`SELECT student_id, name, birthday, sex, room_id, created_at, updated_at FROM students`).
		WithArgs(roomID).
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "name", "birthday", "sex", "room_id", "created_at", "updated_at"}).
			AddRow(int64(1), "Alice", birthday, models.SexFemale, &roomID, now, now))

	room, err := repo.GetWithStudents(context.Background(), roomID)
	require.NoError(t, err)
	require.Len(t, room.Students, 1)
	assert.Equal(t, "Alice", room.Students[0].Name)
	assert.Equal(t, "2001-03-14", room.Students[0].Birthday.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
