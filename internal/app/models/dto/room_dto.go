package dto

import (
	"time"

	"github.com/deniz/roomster/internal/app/models"
)

// CreateRoomRequest represents room creation data. The id is chosen by the
// caller and must be unused.
type CreateRoomRequest struct {
	RoomID int64  `json:"room_id" binding:"required,gt=0"`
	Name   string `json:"name" binding:"required,min=1,max=50"`
}

// UpdateRoomRequest represents room update data
type UpdateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// RoomResponse represents basic room information
type RoomResponse struct {
	RoomID    int64     `json:"room_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomWithStudentsResponse represents a room plus its eagerly resolved students
type RoomWithStudentsResponse struct {
	RoomResponse
	Students []StudentResponse `json:"students"`
}

// FromRoom converts a models.Room to a RoomResponse
func FromRoom(room *models.Room) RoomResponse {
	if room == nil {
		return RoomResponse{}
	}
	return RoomResponse{
		RoomID:    room.RoomID,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

// FromRoomWithStudents converts a models.Room carrying its student list
func FromRoomWithStudents(room *models.Room) RoomWithStudentsResponse {
	resp := RoomWithStudentsResponse{
		RoomResponse: FromRoom(room),
		Students:     make([]StudentResponse, 0, len(room.Students)),
	}
	for _, student := range room.Students {
		resp.Students = append(resp.Students, FromStudent(student))
	}
	return resp
}

// FromRooms converts a slice of rooms for a list payload
func FromRooms(rooms []*models.Room) []RoomResponse {
	out := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, FromRoom(room))
	}
	return out
}
