package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/roomster/internal/app/models/dto"
	"github.com/deniz/roomster/internal/pkg/apperrors"
	"github.com/deniz/roomster/internal/pkg/logger"
)

// HandleAPIError maps entity store failures to HTTP responses. The mapping is
// purely by error kind; messages travel through unmodified. Anything outside
// the taxonomy is surfaced as an opaque internal error.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound,
			dto.NewErrorResponse(dto.ErrorKindNotFound, err.Error(), http.StatusNotFound))

	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict,
			dto.NewErrorResponse(dto.ErrorKindConflict, err.Error(), http.StatusConflict))

	case errors.Is(err, apperrors.ErrBusinessRule):
		resp := dto.NewErrorResponse(dto.ErrorKindBusinessRule, err.Error(), http.StatusBadRequest)
		if details := apperrors.Details(err); details != nil {
			resp = resp.WithDetails(details)
		}
		c.JSON(http.StatusBadRequest, resp)

	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponse(dto.ErrorKindValidation, err.Error(), http.StatusUnprocessableEntity))

	case errors.Is(err, apperrors.ErrStorageIntegrity):
		// Constraint failures that slipped past the pre-checks. Kept generic;
		// the underlying error stays in the logs.
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Storage integrity violation")
		c.JSON(http.StatusConflict,
			dto.NewErrorResponse(dto.ErrorKindStorageIntegrity, err.Error(), http.StatusConflict))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponse(dto.ErrorKindUnexpected, "An unexpected error occurred", http.StatusInternalServerError))
	}
}
