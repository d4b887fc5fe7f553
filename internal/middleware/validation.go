package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/deniz/roomster/internal/app/models/dto"
)

// HandleBindingError turns a gin binding failure into the standard 422
// validation response, with per-field details when the underlying error is a
// validator error.
func HandleBindingError(c *gin.Context, err error) {
	resp := dto.NewErrorResponse(dto.ErrorKindValidation, "Invalid input data", http.StatusUnprocessableEntity)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{
				Field:   fe.Field(),
				Message: formatValidationError(fe),
				Type:    fe.Tag(),
			})
		}
		resp = resp.WithDetails(fields)
	} else {
		resp = resp.WithDetails(err.Error())
	}

	c.JSON(http.StatusUnprocessableEntity, resp)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
