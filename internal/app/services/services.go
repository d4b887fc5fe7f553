package services

// Services defined in this package:
// - RoomService: room CRUD and the students-of-room views
// - StudentService: student CRUD, filtered listing and room reassignment
//
// Services own the validation gate: every operation that accepts a room
// reference checks room existence before mutating student state, so callers
// get a friendly business-rule error ahead of the storage-layer foreign key.
