package dto

import (
	"time"

	"github.com/deniz/roomster/internal/app/models"
)

// CreateStudentRequest represents student creation data. Birthday presence is
// checked in the service layer because a zero Date is not representable with
// binding tags alone.
type CreateStudentRequest struct {
	StudentID int64       `json:"student_id" binding:"required,gt=0"`
	Name      string      `json:"name" binding:"required,min=1,max=50"`
	Birthday  models.Date `json:"birthday"`
	Sex       models.Sex  `json:"sex" binding:"required,oneof=M F"`
	RoomID    *int64      `json:"room_id" binding:"omitempty,gt=0"`
}

// UpdateStudentRequest is a partial update. Omitted fields keep their prior
// value. The room field is tri-state: omitted keeps the assignment, an
// explicit null clears it, a value reassigns.
type UpdateStudentRequest struct {
	Name     *string       `json:"name" binding:"omitempty,min=1,max=50"`
	Birthday *models.Date  `json:"birthday"`
	Sex      *models.Sex   `json:"sex" binding:"omitempty,oneof=M F"`
	RoomID   OptionalInt64 `json:"room_id"`
}

// MoveStudentRequest reassigns a student to a room; a null or absent room_id
// unassigns.
type MoveStudentRequest struct {
	RoomID *int64 `json:"room_id" binding:"omitempty,gt=0"`
}

// StudentResponse represents basic student information
type StudentResponse struct {
	StudentID int64       `json:"student_id"`
	Name      string      `json:"name"`
	Birthday  models.Date `json:"birthday"`
	Sex       models.Sex  `json:"sex"`
	RoomID    *int64      `json:"room_id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StudentWithRoomResponse represents a student plus the resolved room, which
// is null when the student is unassigned.
type StudentWithRoomResponse struct {
	StudentResponse
	Room *RoomResponse `json:"room"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(student *models.Student) StudentResponse {
	if student == nil {
		return StudentResponse{}
	}
	return StudentResponse{
		StudentID: student.StudentID,
		Name:      student.Name,
		Birthday:  student.Birthday,
		Sex:       student.Sex,
		RoomID:    student.RoomID,
		CreatedAt: student.CreatedAt,
		UpdatedAt: student.UpdatedAt,
	}
}

// FromStudentWithRoom converts a models.Student carrying its resolved room
func FromStudentWithRoom(student *models.Student) StudentWithRoomResponse {
	resp := StudentWithRoomResponse{
		StudentResponse: FromStudent(student),
	}
	if student.Room != nil {
		room := FromRoom(student.Room)
		resp.Room = &room
	}
	return resp
}

// FromStudents converts a slice of students for a list payload
func FromStudents(students []*models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		out = append(out, FromStudent(student))
	}
	return out
}
