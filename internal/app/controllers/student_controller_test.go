package controllers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/app/repositories"
	"github.com/deniz/roomster/internal/app/services"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

// stubStudentService implements services.StudentService with overridable
// behavior.
type stubStudentService struct {
	createStudent      func(ctx context.Context, student *models.Student) error
	getStudent         func(ctx context.Context, id int64) (*models.Student, error)
	getStudentWithRoom func(ctx context.Context, id int64) (*models.Student, error)
	listStudents       func(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, int64, error)
	updateStudent      func(ctx context.Context, id int64, patch services.StudentPatch) (*models.Student, error)
	deleteStudent      func(ctx context.Context, id int64) (*models.Student, error)
	moveStudent        func(ctx context.Context, id int64, roomID *int64) (*models.Student, error)
}

func (s *stubStudentService) CreateStudent(ctx context.Context, student *models.Student) error {
	return s.createStudent(ctx, student)
}

func (s *stubStudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.getStudent(ctx, id)
}

func (s *stubStudentService) GetStudentWithRoom(ctx context.Context, id int64) (*models.Student, error) {
	return s.getStudentWithRoom(ctx, id)
}

func (s *stubStudentService) ListStudents(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, int64, error) {
	return s.listStudents(ctx, filter, skip, limit)
}

func (s *stubStudentService) UpdateStudent(ctx context.Context, id int64, patch services.StudentPatch) (*models.Student, error) {
	return s.updateStudent(ctx, id, patch)
}

func (s *stubStudentService) DeleteStudent(ctx context.Context, id int64) (*models.Student, error) {
	return s.deleteStudent(ctx, id)
}

func (s *stubStudentService) MoveStudent(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
	return s.moveStudent(ctx, id, roomID)
}

func sampleStudent() *models.Student {
	return &models.Student{
		StudentID: 1,
		Name:      "Alice",
		Birthday:  models.NewDate(2001, time.March, 14),
		Sex:       models.SexFemale,
	}
}

func TestListStudentsForwardsFilters(t *testing.T) {
	var got repositories.StudentFilter
	svc := &stubStudentService{
		listStudents: func(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, int64, error) {
			got = filter
			return []*models.Student{}, 0, nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodGet, "/api/v1/students?name=ali&sex=F&room_id=7&has_room=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "ali", got.NameContains)
	assert.Equal(t, models.SexFemale, got.Sex)
	require.NotNil(t, got.RoomID)
	assert.Equal(t, int64(7), *got.RoomID)
	require.NotNil(t, got.HasRoom)
	assert.True(t, *got.HasRoom)
}

func TestListStudentsInvalidSexFilter(t *testing.T) {
	router := newTestRouter(nil, &stubStudentService{})

	w := perform(t, router, http.MethodGet, "/api/v1/students?sex=X", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Validation", body["error"])
}

func TestListStudentsInvalidHasRoomFilter(t *testing.T) {
	router := newTestRouter(nil, &stubStudentService{})

	w := perform(t, router, http.MethodGet, "/api/v1/students?has_room=maybe", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListStudentsInvalidRoomIDFilter(t *testing.T) {
	router := newTestRouter(nil, &stubStudentService{})

	w := perform(t, router, http.MethodGet, "/api/v1/students?room_id=0", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetStudentWithRoomNull(t *testing.T) {
	svc := &stubStudentService{
		getStudentWithRoom: func(ctx context.Context, id int64) (*models.Student, error) {
			return sampleStudent(), nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodGet, "/api/v1/students/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	// The room key is always present, null when unassigned.
	room, present := body["room"]
	assert.True(t, present)
	assert.Nil(t, room)
}

func TestGetStudentWithRoomResolved(t *testing.T) {
	svc := &stubStudentService{
		getStudentWithRoom: func(ctx context.Context, id int64) (*models.Student, error) {
			roomID := int64(7)
			s := sampleStudent()
			s.RoomID = &roomID
			s.Room = &models.Room{RoomID: 7, Name: "Blue Room"}
			return s, nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodGet, "/api/v1/students/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	room, ok := body["room"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Blue Room", room["name"])
}

func TestCreateStudent(t *testing.T) {
	svc := &stubStudentService{
		createStudent: func(ctx context.Context, student *models.Student) error {
			assert.Equal(t, int64(1), student.StudentID)
			assert.Equal(t, "Alice", student.Name)
			assert.Equal(t, "2001-03-14", student.Birthday.String())
			return nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPost, "/api/v1/students",
		`{"student_id":1,"name":"Alice","birthday":"2001-03-14","sex":"F"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "2001-03-14", body["birthday"])
}

func TestCreateStudentInvalidSex(t *testing.T) {
	router := newTestRouter(nil, &stubStudentService{})

	w := perform(t, router, http.MethodPost, "/api/v1/students",
		`{"student_id":1,"name":"Alice","birthday":"2001-03-14","sex":"X"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCreateStudentMissingRoom(t *testing.T) {
	svc := &stubStudentService{
		createStudent: func(ctx context.Context, student *models.Student) error {
			return apperrors.NewInvalidRoomAssignmentError(*student.RoomID)
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPost, "/api/v1/students",
		`{"student_id":1,"name":"Alice","birthday":"2001-03-14","sex":"F","room_id":99}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "BusinessRuleViolation", body["error"])
	assert.Equal(t, "Cannot assign student to room '99'. Room does not exist.", body["message"])
}

func TestUpdateStudentOmittedRoomKeepsAssignment(t *testing.T) {
	var got services.StudentPatch
	svc := &stubStudentService{
		updateStudent: func(ctx context.Context, id int64, patch services.StudentPatch) (*models.Student, error) {
			got = patch
			return sampleStudent(), nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPut, "/api/v1/students/1", `{"name":"Alicia"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got.Name)
	assert.Equal(t, "Alicia", *got.Name)
	assert.False(t, got.Room.Set)
}

func TestUpdateStudentExplicitNullClearsRoom(t *testing.T) {
	var got services.StudentPatch
	svc := &stubStudentService{
		updateStudent: func(ctx context.Context, id int64, patch services.StudentPatch) (*models.Student, error) {
			got = patch
			return sampleStudent(), nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPut, "/api/v1/students/1", `{"room_id":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, got.Room.Set)
	assert.Nil(t, got.Room.RoomID)
}

func TestUpdateStudentReassignsRoom(t *testing.T) {
	var got services.StudentPatch
	svc := &stubStudentService{
		updateStudent: func(ctx context.Context, id int64, patch services.StudentPatch) (*models.Student, error) {
			got = patch
			return sampleStudent(), nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPut, "/api/v1/students/1", `{"room_id":7}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, got.Room.Set)
	require.NotNil(t, got.Room.RoomID)
	assert.Equal(t, int64(7), *got.Room.RoomID)
}

func TestMoveStudentNullUnassigns(t *testing.T) {
	var gotRoomID *int64
	called := false
	svc := &stubStudentService{
		moveStudent: func(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
			called = true
			gotRoomID = roomID
			return sampleStudent(), nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPatch, "/api/v1/students/1/move", `{"room_id":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.Nil(t, gotRoomID)
}

func TestMoveStudent(t *testing.T) {
	svc := &stubStudentService{
		moveStudent: func(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
			require.NotNil(t, roomID)
			s := sampleStudent()
			s.RoomID = roomID
			return s, nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodPatch, "/api/v1/students/1/move", `{"room_id":7}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(7), body["room_id"])
}

func TestDeleteStudentReturnsPriorState(t *testing.T) {
	svc := &stubStudentService{
		deleteStudent: func(ctx context.Context, id int64) (*models.Student, error) {
			return sampleStudent(), nil
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodDelete, "/api/v1/students/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Alice", body["name"])
}

func TestDeleteStudentNotFound(t *testing.T) {
	svc := &stubStudentService{
		deleteStudent: func(ctx context.Context, id int64) (*models.Student, error) {
			return nil, apperrors.NewStudentNotFoundError(id)
		},
	}
	router := newTestRouter(nil, svc)

	w := perform(t, router, http.MethodDelete, "/api/v1/students/404", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Student with id '404' not found", body["message"])
}
