package dto

// Error kinds surfaced on the wire. The HTTP status code is derived from the
// kind by the error handling middleware.
const (
	ErrorKindNotFound         = "NotFound"
	ErrorKindConflict         = "Conflict"
	ErrorKindBusinessRule     = "BusinessRuleViolation"
	ErrorKindValidation       = "Validation"
	ErrorKindStorageIntegrity = "StorageIntegrityViolation"
	ErrorKindUnexpected       = "Unexpected"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error      string      `json:"error" example:"NotFound"`
	Message    string      `json:"message" example:"Room with id '1' not found"`
	StatusCode int         `json:"status_code" example:"404"`
	Details    interface{} `json:"details,omitempty"`
}

// NewErrorResponse creates a standard error response.
func NewErrorResponse(kind, message string, statusCode int) *ErrorResponse {
	return &ErrorResponse{
		Error:      kind,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails attaches structured details to the error response.
func (e *ErrorResponse) WithDetails(details interface{}) *ErrorResponse {
	e.Details = details
	return e
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field" example:"name"`
	Message string `json:"message" example:"name must be at most 50 characters"`
	Type    string `json:"type" example:"max"`
}
