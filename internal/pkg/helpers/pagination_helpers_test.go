package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/deniz/roomster/internal/pkg/apperrors"
)

func ginContextWithQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseSkipLimit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", 0, DefaultLimit, false},
		{"explicit values", "skip=20&limit=50", 20, 50, false},
		{"limit at cap", "limit=100", 0, MaxLimit, false},
		{"negative skip rejected", "skip=-5&limit=10", 0, 0, true},
		{"zero limit rejected", "skip=0&limit=0", 0, 0, true},
		{"limit above cap rejected", "limit=500", 0, 0, true},
		{"garbage rejected", "skip=abc&limit=xyz", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit, err := ParseSkipLimit(ginContextWithQuery(t, tt.query))
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestPageNumber(t *testing.T) {
	assert.Equal(t, 1, PageNumber(0, 10))
	assert.Equal(t, 2, PageNumber(10, 10))
	assert.Equal(t, 3, PageNumber(20, 10))
	// A partial offset still lands on the page that contains it.
	assert.Equal(t, 1, PageNumber(5, 10))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 3, PageCount(25, 10))
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]string{"a", "b"}, 25, 20, 10)

	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 10, resp.Size)
	assert.Equal(t, 3, resp.Pages)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
}

func TestNewPaginatedResponseEmpty(t *testing.T) {
	resp := NewPaginatedResponse([]string{}, 0, 0, 10)

	assert.Equal(t, int64(0), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 0, resp.Pages)
}
