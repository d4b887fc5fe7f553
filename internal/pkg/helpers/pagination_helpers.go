package helpers

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/roomster/internal/app/models/dto"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ParseSkipLimit extracts offset pagination parameters from the request.
// skip must be >= 0 and limit must be in [1, MaxLimit]; anything else is a
// validation error.
func ParseSkipLimit(c *gin.Context) (int, int, error) {
	skipStr := c.DefaultQuery("skip", "0")
	skip, err := strconv.Atoi(skipStr)
	if err != nil || skip < 0 {
		return 0, 0, apperrors.NewValidationError("skip must be a non-negative integer")
	}

	limitStr := c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, apperrors.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}

	return skip, limit, nil
}

// PageNumber converts a skip offset to a 1-based page number.
func PageNumber(skip, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	return skip/limit + 1
}

// PageCount computes the total number of pages. A total of zero yields zero
// pages.
func PageCount(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// NewPaginatedResponse assembles the standard paginated payload for a page of
// items fetched with the given skip/limit.
func NewPaginatedResponse(data interface{}, total int64, skip, limit int) dto.PaginatedResponse {
	return dto.PaginatedResponse{
		Data:  data,
		Total: total,
		Page:  PageNumber(skip, limit),
		Size:  limit,
		Pages: PageCount(total, limit),
	}
}
