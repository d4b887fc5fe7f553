package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/pkg/apperrors"
	"github.com/deniz/roomster/internal/pkg/dberrors"
	"github.com/deniz/roomster/internal/pkg/logger"
)

// RoomRepository handles room database operations
type RoomRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new room with a caller-chosen id. The unique constraint
// on the primary key is the authoritative duplicate guard; the returned error
// is a Conflict either way.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Insert("rooms").
		Columns("room_id", "name").
		Values(room.RoomID, room.Name).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create room query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewRoomAlreadyExistsError(room.RoomID)
		}
		logger.Error().Err(err).Int64("roomID", room.RoomID).Msg("Error executing create room query")
		return fmt.Errorf("error creating room: %w", err)
	}

	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	sql, args, err := r.sb.Select("room_id", "name", "created_at", "updated_at").
		From("rooms").
		Where(squirrel.Eq{"room_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get room query: %w", err)
	}

	room := &models.Room{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&room.RoomID, &room.Name, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewRoomNotFoundError(id)
		}
		logger.Error().Err(err).Int64("roomID", id).Msg("Error scanning room row")
		return nil, fmt.Errorf("error getting room by ID: %w", err)
	}

	return room, nil
}

// GetWithStudents retrieves a room by ID with its student list eagerly
// resolved.
func (r *RoomRepository) GetWithStudents(ctx context.Context, id int64) (*models.Room, error) {
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sql, args, err := r.sb.Select("student_id", "name", "birthday", "sex", "room_id", "created_at", "updated_at").
		From("students").
		Where(squirrel.Eq{"room_id": id}).
		OrderBy("created_at ASC", "student_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build room students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("roomID", id).Msg("Error querying students of room")
		return nil, fmt.Errorf("error querying students of room: %w", err)
	}
	defer rows.Close()

	room.Students = []*models.Student{}
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(&student.StudentID, &student.Name, &student.Birthday, &student.Sex,
			&student.RoomID, &student.CreatedAt, &student.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		room.Students = append(room.Students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return room, nil
}

// List retrieves a page of rooms in insertion order.
func (r *RoomRepository) List(ctx context.Context, skip, limit int) ([]*models.Room, error) {
	sql, args, err := r.sb.Select("room_id", "name", "created_at", "updated_at").
		From("rooms").
		OrderBy("created_at ASC", "room_id ASC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list rooms query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list rooms query")
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*models.Room{}
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.RoomID, &room.Name, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}

	return rooms, nil
}

// Count returns the total number of rooms, for pagination metadata.
func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("rooms").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count rooms query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count rooms query")
		return 0, fmt.Errorf("error counting rooms: %w", err)
	}
	return total, nil
}

// Exists checks whether a room with the given id exists. Used as a
// precondition gate by student operations.
func (r *RoomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("rooms").
		Where(squirrel.Eq{"room_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build room existence query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("roomID", id).Msg("Error checking room existence")
		return false, fmt.Errorf("error checking room existence: %w", err)
	}
	return exists, nil
}

// CountStudents counts the students currently assigned to a room. The delete
// precondition depends on this number.
func (r *RoomRepository) CountStudents(ctx context.Context, roomID int64) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("students").
		Where(squirrel.Eq{"room_id": roomID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students in room query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("roomID", roomID).Msg("Error counting students in room")
		return 0, fmt.Errorf("error counting students in room: %w", err)
	}
	return count, nil
}

// StudentsInRoom retrieves a page of the students assigned to a room.
func (r *RoomRepository) StudentsInRoom(ctx context.Context, roomID int64, skip, limit int) ([]*models.Student, error) {
	sql, args, err := r.sb.Select("student_id", "name", "birthday", "sex", "room_id", "created_at", "updated_at").
		From("students").
		Where(squirrel.Eq{"room_id": roomID}).
		OrderBy("created_at ASC", "student_id ASC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build students in room query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("roomID", roomID).Msg("Error querying students in room")
		return nil, fmt.Errorf("error querying students in room: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(&student.StudentID, &student.Name, &student.Birthday, &student.Sex,
			&student.RoomID, &student.CreatedAt, &student.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Update replaces the room name and returns the updated room.
func (r *RoomRepository) Update(ctx context.Context, id int64, name string) (*models.Room, error) {
	sql, args, err := r.sb.Update("rooms").
		Set("name", name).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"room_id": id}).
		Suffix("RETURNING room_id, name, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update room query: %w", err)
	}

	room := &models.Room{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&room.RoomID, &room.Name, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewRoomNotFoundError(id)
		}
		logger.Error().Err(err).Int64("roomID", id).Msg("Error executing update room query")
		return nil, fmt.Errorf("error updating room: %w", err)
	}

	return room, nil
}

// Delete removes a room and returns its prior state. The deletion is rejected
// while any student still references the room; the ON DELETE RESTRICT
// constraint backs this check against concurrent assignments.
func (r *RoomRepository) Delete(ctx context.Context, id int64) (*models.Room, error) {
	room, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := r.CountStudents(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperrors.NewRoomHasStudentsError(id, count)
	}

	sql, args, err := r.sb.Delete("rooms").
		Where(squirrel.Eq{"room_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete room query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			// A student was assigned between the count and the delete.
			return nil, apperrors.NewStorageIntegrityError(err)
		}
		logger.Error().Err(err).Int64("roomID", id).Msg("Error executing delete room query")
		return nil, fmt.Errorf("error deleting room: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Deleted concurrently between the read and the delete.
		return nil, apperrors.NewRoomNotFoundError(id)
	}

	return room, nil
}
