package models

import "time"

// Room defines the room model based on the 'rooms' table. The id is chosen by
// the caller at creation time and never changes afterwards.
type Room struct {
	RoomID    int64     `json:"room_id" db:"room_id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Room A"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Relations (populated when needed)
	Students []*Student `json:"students,omitempty"`
}
