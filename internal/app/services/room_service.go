package services

import (
	"context"
	"strings"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

// roomStore is the subset of the room repository the services depend on.
type roomStore interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetWithStudents(ctx context.Context, id int64) (*models.Room, error)
	List(ctx context.Context, skip, limit int) ([]*models.Room, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CountStudents(ctx context.Context, roomID int64) (int64, error)
	StudentsInRoom(ctx context.Context, roomID int64, skip, limit int) ([]*models.Student, error)
	Update(ctx context.Context, id int64, name string) (*models.Room, error)
	Delete(ctx context.Context, id int64) (*models.Room, error)
}

// RoomService defines the interface for room-related operations
type RoomService interface {
	CreateRoom(ctx context.Context, id int64, name string) (*models.Room, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	GetRoomWithStudents(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context, skip, limit int) ([]*models.Room, int64, error)
	ListRoomStudents(ctx context.Context, roomID int64, skip, limit int) ([]*models.Student, int64, error)
	UpdateRoom(ctx context.Context, id int64, name string) (*models.Room, error)
	DeleteRoom(ctx context.Context, id int64) (*models.Room, error)
}

// roomServiceImpl implements the RoomService interface
type roomServiceImpl struct {
	roomRepo roomStore
}

// NewRoomService creates a new room service instance
func NewRoomService(roomRepo roomStore) RoomService {
	return &roomServiceImpl{
		roomRepo: roomRepo,
	}
}

func validateRoomID(id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError("room_id must be a positive integer")
	}
	return nil
}

func validateRoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name cannot be empty")
	}
	if len([]rune(name)) > 50 {
		return apperrors.NewValidationError("name must be at most 50 characters")
	}
	return nil
}

// CreateRoom persists a new room under a caller-chosen id. Fails with a
// conflict when the id is already taken.
func (s *roomServiceImpl) CreateRoom(ctx context.Context, id int64, name string) (*models.Room, error) {
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	if err := validateRoomName(name); err != nil {
		return nil, err
	}

	room := &models.Room{RoomID: id, Name: name}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom retrieves a room by ID
func (s *roomServiceImpl) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	return s.roomRepo.GetByID(ctx, id)
}

// GetRoomWithStudents retrieves a room together with its full student list.
func (s *roomServiceImpl) GetRoomWithStudents(ctx context.Context, id int64) (*models.Room, error) {
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	return s.roomRepo.GetWithStudents(ctx, id)
}

// ListRooms returns a page of rooms plus the overall total.
func (s *roomServiceImpl) ListRooms(ctx context.Context, skip, limit int) ([]*models.Room, int64, error) {
	rooms, err := s.roomRepo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.roomRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// ListRoomStudents returns a page of the students assigned to a room plus the
// room's total student count. Fails with not-found when the room is missing.
func (s *roomServiceImpl) ListRoomStudents(ctx context.Context, roomID int64, skip, limit int) ([]*models.Student, int64, error) {
	if err := validateRoomID(roomID); err != nil {
		return nil, 0, err
	}

	exists, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, apperrors.NewRoomNotFoundError(roomID)
	}

	students, err := s.roomRepo.StudentsInRoom(ctx, roomID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.roomRepo.CountStudents(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// UpdateRoom replaces the room name.
func (s *roomServiceImpl) UpdateRoom(ctx context.Context, id int64, name string) (*models.Room, error) {
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	if err := validateRoomName(name); err != nil {
		return nil, err
	}
	return s.roomRepo.Update(ctx, id, name)
}

// DeleteRoom deletes an empty room and returns its prior state. A room that
// still has students assigned is rejected with the dependent count attached.
func (s *roomServiceImpl) DeleteRoom(ctx context.Context, id int64) (*models.Room, error) {
	if err := validateRoomID(id); err != nil {
		return nil, err
	}
	return s.roomRepo.Delete(ctx, id)
}
