package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure raised by the entity store wraps exactly one of
// these, so the HTTP boundary can map it to a status code with errors.Is.
var (
	// ErrNotFound indicates the targeted primary key does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrConflict indicates a create hit an already used primary key.
	ErrConflict = errors.New("resource already exists")
	// ErrBusinessRule indicates a domain rule was violated (non-empty room
	// deletion, assignment to a missing room).
	ErrBusinessRule = errors.New("business rule violation")
	// ErrValidation indicates malformed input caught before the store.
	ErrValidation = errors.New("validation failed")
	// ErrStorageIntegrity indicates a database constraint fired that the
	// application pre-checks did not catch (concurrent writers).
	ErrStorageIntegrity = errors.New("storage integrity violation")
)

// Room errors
var (
	ErrRoomNotFound      = fmt.Errorf("%w: room", ErrNotFound)
	ErrRoomAlreadyExists = fmt.Errorf("%w: room", ErrConflict)
	ErrRoomHasStudents   = fmt.Errorf("%w: room has students", ErrBusinessRule)
)

// Student errors
var (
	ErrStudentNotFound       = fmt.Errorf("%w: student", ErrNotFound)
	ErrStudentAlreadyExists  = fmt.Errorf("%w: student", ErrConflict)
	ErrInvalidRoomAssignment = fmt.Errorf("%w: invalid room assignment", ErrBusinessRule)
)

// CustomError carries a user-facing message and optional context details on
// top of one of the sentinel kinds above.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError creates a CustomError wrapping an underlying sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewRoomNotFoundError reports a missing room by id.
func NewRoomNotFoundError(roomID int64) error {
	return NewCustomError(ErrRoomNotFound, fmt.Sprintf("Room with id '%d' not found", roomID))
}

// NewStudentNotFoundError reports a missing student by id.
func NewStudentNotFoundError(studentID int64) error {
	return NewCustomError(ErrStudentNotFound, fmt.Sprintf("Student with id '%d' not found", studentID))
}

// NewRoomAlreadyExistsError reports a duplicate room id on create.
func NewRoomAlreadyExistsError(roomID int64) error {
	return NewCustomError(ErrRoomAlreadyExists, fmt.Sprintf("Room with id '%d' already exists", roomID))
}

// NewStudentAlreadyExistsError reports a duplicate student id on create.
func NewStudentAlreadyExistsError(studentID int64) error {
	return NewCustomError(ErrStudentAlreadyExists, fmt.Sprintf("Student with id '%d' already exists", studentID))
}

// NewRoomHasStudentsError reports a delete attempt on a room that still has
// students assigned. The dependent count is carried in the details.
func NewRoomHasStudentsError(roomID int64, studentCount int64) error {
	return NewCustomError(ErrRoomHasStudents, fmt.Sprintf(
		"Cannot delete room '%d'. It has %d student(s) assigned. Please move or remove students first.",
		roomID, studentCount,
	)).WithDetails(map[string]interface{}{"student_count": studentCount})
}

// NewInvalidRoomAssignmentError reports an assignment to a room that does not exist.
func NewInvalidRoomAssignmentError(roomID int64) error {
	return NewCustomError(ErrInvalidRoomAssignment, fmt.Sprintf(
		"Cannot assign student to room '%d'. Room does not exist.", roomID))
}

// NewValidationError creates a validation failure with a message.
func NewValidationError(message string) error {
	return NewCustomError(ErrValidation, message)
}

// NewStorageIntegrityError wraps an uncaught database constraint failure.
// The underlying error is kept for logging but never shown to the caller.
func NewStorageIntegrityError(err error) error {
	return &CustomError{
		Err:     fmt.Errorf("%w: %w", ErrStorageIntegrity, err),
		Message: "Database constraint violation",
	}
}

// Details extracts the detail map from an error if it carries one.
func Details(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}
