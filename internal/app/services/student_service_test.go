package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/app/repositories"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

// fakeStudentStore implements studentStore with overridable behavior per test.
type fakeStudentStore struct {
	createFn      func(ctx context.Context, student *models.Student) error
	getByIDFn     func(ctx context.Context, id int64) (*models.Student, error)
	getWithRoomFn func(ctx context.Context, id int64) (*models.Student, error)
	listFn        func(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, error)
	countFn       func(ctx context.Context, filter repositories.StudentFilter) (int64, error)
	updateFn      func(ctx context.Context, student *models.Student) error
	deleteFn      func(ctx context.Context, id int64) (*models.Student, error)
	setRoomFn     func(ctx context.Context, id int64, roomID *int64) (*models.Student, error)
}

func (f *fakeStudentStore) Create(ctx context.Context, student *models.Student) error {
	return f.createFn(ctx, student)
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeStudentStore) GetWithRoom(ctx context.Context, id int64) (*models.Student, error) {
	return f.getWithRoomFn(ctx, id)
}

func (f *fakeStudentStore) List(ctx context.Context, filter repositories.StudentFilter, skip, limit int) ([]*models.Student, error) {
	return f.listFn(ctx, filter, skip, limit)
}

func (f *fakeStudentStore) Count(ctx context.Context, filter repositories.StudentFilter) (int64, error) {
	return f.countFn(ctx, filter)
}

func (f *fakeStudentStore) Update(ctx context.Context, student *models.Student) error {
	return f.updateFn(ctx, student)
}

func (f *fakeStudentStore) Delete(ctx context.Context, id int64) (*models.Student, error) {
	return f.deleteFn(ctx, id)
}

func (f *fakeStudentStore) SetRoom(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
	return f.setRoomFn(ctx, id, roomID)
}

// fakeRoomGate implements roomGate over a fixed set of existing room ids.
type fakeRoomGate struct {
	rooms map[int64]bool
}

func (f *fakeRoomGate) Exists(ctx context.Context, id int64) (bool, error) {
	return f.rooms[id], nil
}

func validStudent() *models.Student {
	return &models.Student{
		StudentID: 1,
		Name:      "Alice",
		Birthday:  models.NewDate(2001, time.March, 14),
		Sex:       models.SexFemale,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestCreateStudentValidation(t *testing.T) {
	svc := NewStudentService(&fakeStudentStore{}, &fakeRoomGate{})

	tests := []struct {
		name   string
		mutate func(*models.Student)
	}{
		{"non-positive id", func(s *models.Student) { s.StudentID = 0 }},
		{"empty name", func(s *models.Student) { s.Name = "  " }},
		{"name too long", func(s *models.Student) {
			long := make([]rune, 51)
			for i := range long {
				long[i] = 'x'
			}
			s.Name = string(long)
		}},
		{"missing birthday", func(s *models.Student) { s.Birthday = models.Date{} }},
		{"invalid sex", func(s *models.Student) { s.Sex = "Q" }},
		{"non-positive room id", func(s *models.Student) { s.RoomID = int64Ptr(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := validStudent()
			tt.mutate(student)
			err := svc.CreateStudent(context.Background(), student)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateStudentUnassigned(t *testing.T) {
	store := &fakeStudentStore{
		createFn: func(ctx context.Context, student *models.Student) error { return nil },
	}
	// The gate must not be consulted when no room is referenced.
	svc := NewStudentService(store, &fakeRoomGate{})

	err := svc.CreateStudent(context.Background(), validStudent())
	assert.NoError(t, err)
}

func TestCreateStudentMissingRoom(t *testing.T) {
	svc := NewStudentService(&fakeStudentStore{}, &fakeRoomGate{rooms: map[int64]bool{}})

	student := validStudent()
	student.RoomID = int64Ptr(99)
	err := svc.CreateStudent(context.Background(), student)
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestCreateStudentAssigned(t *testing.T) {
	store := &fakeStudentStore{
		createFn: func(ctx context.Context, student *models.Student) error { return nil },
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{7: true}})

	student := validStudent()
	student.RoomID = int64Ptr(7)
	assert.NoError(t, svc.CreateStudent(context.Background(), student))
}

func TestUpdateStudentKeepsOmittedFields(t *testing.T) {
	room := int64Ptr(7)
	var updated *models.Student
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			s := validStudent()
			s.RoomID = room
			return s, nil
		},
		updateFn: func(ctx context.Context, student *models.Student) error {
			updated = student
			return nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{7: true}})

	name := "Alicia"
	_, err := svc.UpdateStudent(context.Background(), 1, StudentPatch{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Alicia", updated.Name)
	// Everything not in the patch keeps its prior value, including the room.
	assert.Equal(t, models.SexFemale, updated.Sex)
	require.NotNil(t, updated.RoomID)
	assert.Equal(t, int64(7), *updated.RoomID)
}

func TestUpdateStudentExplicitNullClearsRoom(t *testing.T) {
	var updated *models.Student
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			s := validStudent()
			s.RoomID = int64Ptr(7)
			return s, nil
		},
		updateFn: func(ctx context.Context, student *models.Student) error {
			updated = student
			return nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{7: true}})

	_, err := svc.UpdateStudent(context.Background(), 1, StudentPatch{
		Room: RoomAssignment{Set: true, RoomID: nil},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Nil(t, updated.RoomID)
}

func TestUpdateStudentReassignGatesRoom(t *testing.T) {
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return validStudent(), nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{}})

	_, err := svc.UpdateStudent(context.Background(), 1, StudentPatch{
		Room: RoomAssignment{Set: true, RoomID: int64Ptr(99)},
	})
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestUpdateStudentNonPositiveRoomID(t *testing.T) {
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return validStudent(), nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{}})

	// A non-positive id fails validation before the existence gate runs.
	_, err := svc.UpdateStudent(context.Background(), 1, StudentPatch{
		Room: RoomAssignment{Set: true, RoomID: int64Ptr(-5)},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.NotErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestUpdateStudentNotFound(t *testing.T) {
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return nil, apperrors.NewStudentNotFoundError(id)
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{})

	name := "Alicia"
	_, err := svc.UpdateStudent(context.Background(), 404, StudentPatch{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateStudentRejectsInvalidPatchedState(t *testing.T) {
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return validStudent(), nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{})

	empty := " "
	_, err := svc.UpdateStudent(context.Background(), 1, StudentPatch{Name: &empty})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestMoveStudent(t *testing.T) {
	var gotRoomID *int64
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return validStudent(), nil
		},
		setRoomFn: func(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
			gotRoomID = roomID
			s := validStudent()
			s.RoomID = roomID
			return s, nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{7: true}})

	student, err := svc.MoveStudent(context.Background(), 1, int64Ptr(7))
	require.NoError(t, err)
	require.NotNil(t, gotRoomID)
	assert.Equal(t, int64(7), *gotRoomID)
	require.NotNil(t, student.RoomID)
	assert.Equal(t, int64(7), *student.RoomID)
}

func TestMoveStudentNilUnassigns(t *testing.T) {
	called := false
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			s := validStudent()
			s.RoomID = int64Ptr(7)
			return s, nil
		},
		setRoomFn: func(ctx context.Context, id int64, roomID *int64) (*models.Student, error) {
			called = true
			assert.Nil(t, roomID)
			return validStudent(), nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{})

	student, err := svc.MoveStudent(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, student.RoomID)
}

func TestMoveStudentMissingRoom(t *testing.T) {
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return validStudent(), nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{}})

	_, err := svc.MoveStudent(context.Background(), 1, int64Ptr(99))
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestMoveStudentMissingStudent(t *testing.T) {
	store := &fakeStudentStore{
		getByIDFn: func(ctx context.Context, id int64) (*models.Student, error) {
			return nil, apperrors.NewStudentNotFoundError(id)
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{rooms: map[int64]bool{7: true}})

	_, err := svc.MoveStudent(context.Background(), 404, int64Ptr(7))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListStudentsForwardsFilter(t *testing.T) {
	hasRoom := true
	filter := repositories.StudentFilter{
		NameContains: "ali",
		Sex:          models.SexFemale,
		HasRoom:      &hasRoom,
	}
	store := &fakeStudentStore{
		listFn: func(ctx context.Context, got repositories.StudentFilter, skip, limit int) ([]*models.Student, error) {
			assert.Equal(t, filter, got)
			return []*models.Student{validStudent()}, nil
		},
		countFn: func(ctx context.Context, got repositories.StudentFilter) (int64, error) {
			assert.Equal(t, filter, got)
			return 1, nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{})

	students, total, err := svc.ListStudents(context.Background(), filter, 0, 10)
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, int64(1), total)
}

func TestDeleteStudentReturnsPriorState(t *testing.T) {
	prior := validStudent()
	store := &fakeStudentStore{
		deleteFn: func(ctx context.Context, id int64) (*models.Student, error) {
			assert.Equal(t, int64(1), id)
			return prior, nil
		},
	}
	svc := NewStudentService(store, &fakeRoomGate{})

	student, err := svc.DeleteStudent(context.Background(), 1)
	require.NoError(t, err)
	assert.Same(t, prior, student)
}
