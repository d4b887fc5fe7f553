package services

import (
	"context"
	"strings"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/app/repositories"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

// studentStore is the subset of the student repository the services depend on.
type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetWithRoom(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, error)
	Count(ctx context.Context, filter repositories.StudentFilter) (int64, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) (*models.Student, error)
	SetRoom(ctx context.Context, id int64, roomID *int64) (*models.Student, error)
}

// roomGate is the existence check student operations gate on.
type roomGate interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RoomAssignment is the tri-state room field of a student patch. Set reports
// whether the field was provided at all; a provided nil RoomID clears the
// assignment.
type RoomAssignment struct {
	Set    bool
	RoomID *int64
}

// StudentPatch carries the optional fields of a partial student update.
// Nil fields keep their prior value.
type StudentPatch struct {
	Name     *string
	Birthday *models.Date
	Sex      *models.Sex
	Room     RoomAssignment
}

// StudentService defines the interface for student-related operations
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentWithRoom(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, int64, error)
	UpdateStudent(ctx context.Context, id int64, patch StudentPatch) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) (*models.Student, error)
	MoveStudent(ctx context.Context, id int64, roomID *int64) (*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo studentStore
	roomRepo    roomGate
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo studentStore, roomRepo roomGate) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		roomRepo:    roomRepo,
	}
}

func validateStudentID(id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("student_id must be a positive integer")
	}
	return nil
}

func (s *studentServiceImpl) validateStudent(student *models.Student) error {
	if student == nil {
		return apperrors.NewValidationError("student is nil")
	}
	if err := validateStudentID(student.StudentID); err != nil {
		return err
	}
	if strings.TrimSpace(student.Name) == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}
	if len([]rune(student.Name)) > 50 {
		return apperrors.NewValidationError("name must be at most 50 characters")
	}
	if student.Birthday.IsZero() {
		return apperrors.NewValidationError("birthday is required")
	}
	if !student.Sex.Valid() {
		return apperrors.NewValidationError("sex must be one of: M, F")
	}
	if student.RoomID != nil && *student.RoomID <= 0 {
		return apperrors.NewValidationError("room_id must be a positive integer")
	}
	return nil
}

// gateRoomExists rejects references to rooms that do not exist at check time.
// The storage-layer foreign key remains the authoritative guard against
// concurrent room deletion.
func (s *studentServiceImpl) gateRoomExists(ctx context.Context, roomID int64) error {
	exists, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewInvalidRoomAssignmentError(roomID)
	}
	return nil
}

// CreateStudent persists a new student under a caller-chosen id. A provided
// room reference must exist; a duplicate id is a conflict.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) error {
	if err := s.validateStudent(student); err != nil {
		return err
	}

	if student.RoomID != nil {
		if err := s.gateRoomExists(ctx, *student.RoomID); err != nil {
			return err
		}
	}

	return s.studentRepo.Create(ctx, student)
}

// GetStudent retrieves a student by ID
func (s *studentServiceImpl) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	if err := validateStudentID(id); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByID(ctx, id)
}

// GetStudentWithRoom retrieves a student with the resolved room attached.
func (s *studentServiceImpl) GetStudentWithRoom(ctx context.Context, id int64) (*models.Student, error) {
	if err := validateStudentID(id); err != nil {
		return nil, err
	}
	return s.studentRepo.GetWithRoom(ctx, id)
}

// ListStudents returns a filtered page of students plus the matching total.
func (s *studentServiceImpl) ListStudents(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, int64, error) {
	students, err := s.studentRepo.List(ctx, filter, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.studentRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// UpdateStudent applies a partial update. Omitted fields keep their prior
// value; an explicit null room clears the assignment, a non-null room must
// exist.
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, patch StudentPatch) (*models.Student, error) {
	if err := validateStudentID(id); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		student.Name = *patch.Name
	}
	if patch.Birthday != nil {
		student.Birthday = *patch.Birthday
	}
	if patch.Sex != nil {
		student.Sex = *patch.Sex
	}
	if patch.Room.Set {
		if patch.Room.RoomID != nil {
			if *patch.Room.RoomID <= 0 {
				return nil, apperrors.NewValidationError("room_id must be a positive integer")
			}
			if err := s.gateRoomExists(ctx, *patch.Room.RoomID); err != nil {
				return nil, err
			}
		}
		student.RoomID = patch.Room.RoomID
	}

	if err := s.validateStudent(student); err != nil {
		return nil, err
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes a student and returns the prior state. Room state
// never blocks a student deletion.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) (*models.Student, error) {
	if err := validateStudentID(id); err != nil {
		return nil, err
	}
	return s.studentRepo.Delete(ctx, id)
}

// MoveStudent reassigns a student to a room; a nil roomID explicitly
// unassigns.
func (s *studentServiceImpl) MoveStudent(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
	if err := validateStudentID(id); err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if roomID != nil {
		if *roomID <= 0 {
			return nil, apperrors.NewValidationError("room_id must be a positive integer")
		}
		if err := s.gateRoomExists(ctx, *roomID); err != nil {
			return nil, err
		}
	}

	return s.studentRepo.SetRoom(ctx, id, roomID)
}
