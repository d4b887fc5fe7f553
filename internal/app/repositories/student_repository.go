package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/pkg/apperrors"
	"github.com/deniz/roomster/internal/pkg/dberrors"
	"github.com/deniz/roomster/internal/pkg/logger"
)

// StudentFilter restricts a student listing. All set filters apply
// conjunctively. A contradictory combination (HasRoom=false with a RoomID)
// yields an empty result set, not an error.
type StudentFilter struct {
	// NameContains matches case-insensitively anywhere in the name.
	NameContains string
	// Sex matches exactly when non-empty.
	Sex models.Sex
	// RoomID matches the assignment exactly when non-nil.
	RoomID *int64
	// HasRoom selects assigned (true) or unassigned (false) students.
	HasRoom *bool
}

func (f StudentFilter) where() squirrel.And {
	cond := squirrel.And{}
	if name := strings.TrimSpace(f.NameContains); name != "" {
		cond = append(cond, squirrel.ILike{"name": "%" + name + "%"})
	}
	if f.Sex != "" {
		cond = append(cond, squirrel.Eq{"sex": f.Sex})
	}
	if f.RoomID != nil {
		cond = append(cond, squirrel.Eq{"room_id": *f.RoomID})
	}
	if f.HasRoom != nil {
		if *f.HasRoom {
			cond = append(cond, squirrel.NotEq{"room_id": nil})
		} else {
			cond = append(cond, squirrel.Eq{"room_id": nil})
		}
	}
	return cond
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DB
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DB) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create persists a new student with a caller-chosen id. A duplicate id maps
// to a Conflict; a foreign key failure on the room reference surfaces as a
// storage integrity violation since the friendly existence check happens
// before this call.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "name", "birthday", "sex", "room_id").
		Values(student.StudentID, student.Name, student.Birthday, student.Sex, student.RoomID).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewStudentAlreadyExistsError(student.StudentID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewStorageIntegrityError(err)
		}
		logger.Error().Err(err).Int64("studentID", student.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select("student_id", "name", "birthday", "sex", "room_id", "created_at", "updated_at").
		From("students").
		Where(squirrel.Eq{"student_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student := &models.Student{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.StudentID, &student.Name, &student.Birthday,
		&student.Sex, &student.RoomID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStudentNotFoundError(id)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// GetWithRoom retrieves a student by ID together with the resolved room, nil
// when unassigned.
func (r *StudentRepository) GetWithRoom(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(
		"s.student_id", "s.name", "s.birthday", "s.sex", "s.room_id", "s.created_at", "s.updated_at",
		"r.room_id", "r.name", "r.created_at", "r.updated_at",
	).
		From("students s").
		LeftJoin("rooms r ON s.room_id = r.room_id").
		Where(squirrel.Eq{"s.student_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student with room query: %w", err)
	}

	student := &models.Student{}
	var roomID *int64
	var roomName *string
	var roomCreated, roomUpdated *time.Time
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.StudentID, &student.Name, &student.Birthday, &student.Sex, &student.RoomID,
		&student.CreatedAt, &student.UpdatedAt,
		&roomID, &roomName, &roomCreated, &roomUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStudentNotFoundError(id)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student with room row")
		return nil, fmt.Errorf("error getting student with room: %w", err)
	}

	if roomID != nil && roomName != nil {
		student.Room = &models.Room{RoomID: *roomID, Name: *roomName}
		if roomCreated != nil {
			student.Room.CreatedAt = *roomCreated
		}
		if roomUpdated != nil {
			student.Room.UpdatedAt = *roomUpdated
		}
	}

	return student, nil
}

// List retrieves a page of students in insertion order, restricted by the
// given filters.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter, skip, limit int) ([]*models.Student, error) {
	sql, args, err := r.sb.Select("student_id", "name", "birthday", "sex", "room_id", "created_at", "updated_at").
		From("students").
		Where(filter.where()).
		OrderBy("created_at ASC", "student_id ASC").
		Offset(uint64(skip)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
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

// Count returns the number of students matching the filters. Uses the exact
// same predicate as List so pagination metadata stays consistent.
func (r *StudentRepository) Count(ctx context.Context, filter StudentFilter) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("students").
		Where(filter.where()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return total, nil
}

// Update replaces the mutable student columns and returns the updated row.
// The caller merges the patch onto the current state beforehand.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":     student.Name,
			"birthday": student.Birthday,
			"sex":      student.Sex,
			"room_id":  student.RoomID,
		}).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"student_id": student.StudentID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewStudentNotFoundError(student.StudentID)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewStorageIntegrityError(err)
		}
		logger.Error().Err(err).Int64("studentID", student.StudentID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	return nil
}

// Delete removes a student and returns the prior state.
func (r *StudentRepository) Delete(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"student_id": id}).
		Suffix("RETURNING student_id, name, birthday, sex, room_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete student query: %w", err)
	}

	student := &models.Student{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.StudentID, &student.Name, &student.Birthday,
		&student.Sex, &student.RoomID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStudentNotFoundError(id)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing delete student query")
		return nil, fmt.Errorf("error deleting student: %w", err)
	}

	return student, nil
}

// SetRoom assigns the student to a room, or unassigns when roomID is nil, and
// returns the updated student.
func (r *StudentRepository) SetRoom(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		Set("room_id", roomID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"student_id": id}).
		Suffix("RETURNING student_id, name, birthday, sex, room_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build set room query: %w", err)
	}

	student := &models.Student{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.StudentID, &student.Name, &student.Birthday,
		&student.Sex, &student.RoomID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewStudentNotFoundError(id)
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewStorageIntegrityError(err)
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error executing set room query")
		return nil, fmt.Errorf("error moving student: %w", err)
	}

	return student, nil
}
