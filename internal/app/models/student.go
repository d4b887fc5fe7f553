package models

import "time"

// Student defines the student model based on the 'students' table. A student
// optionally references a room by id; a nil RoomID means unassigned. Students
// are independent of room lifetime, deleting a room with residents is rejected
// rather than cascaded.
type Student struct {
	StudentID int64     `json:"student_id" db:"student_id" example:"10"`
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Birthday  Date      `json:"birthday" db:"birthday" example:"2004-09-01"`
	Sex       Sex       `json:"sex" db:"sex" example:"F"`
	RoomID    *int64    `json:"room_id" db:"room_id" example:"1"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Relations (populated when needed)
	Room *Room `json:"room,omitempty"`
}
