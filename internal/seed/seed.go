package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/deniz/roomster/internal/app/models"
	"github.com/deniz/roomster/internal/app/repositories"
	"github.com/deniz/roomster/internal/pkg/apperrors"
)

// CreateDefaultData creates a handful of rooms and students so a fresh
// deployment has something to list. Entities that already exist are skipped.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	roomRepo := repositories.NewRoomRepository(dbPool)
	studentRepo := repositories.NewStudentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (Rooms/Students)...")
	var finalErr error // To collect potential errors without stopping the process

	rooms := []*models.Room{
		{RoomID: 101, Name: "Room #101"},
		{RoomID: 102, Name: "Room #102"},
		{RoomID: 103, Name: "Room #103"},
	}
	for _, room := range rooms {
		if err := roomRepo.Create(ctx, room); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Int64("roomId", room.RoomID).Msg("Error creating default room")
			finalErr = errors.Join(finalErr, err)
		}
	}

	room101 := int64(101)
	room102 := int64(102)
	students := []*models.Student{
		{StudentID: 1, Name: "Ayse Yilmaz", Birthday: models.NewDate(2001, 3, 14), Sex: models.SexFemale, RoomID: &room101},
		{StudentID: 2, Name: "Mehmet Demir", Birthday: models.NewDate(2000, 11, 2), Sex: models.SexMale, RoomID: &room101},
		{StudentID: 3, Name: "Elif Kaya", Birthday: models.NewDate(2002, 7, 21), Sex: models.SexFemale, RoomID: &room102},
		{StudentID: 4, Name: "Can Aydin", Birthday: models.NewDate(2001, 1, 9), Sex: models.SexMale},
	}
	for _, student := range students {
		if err := studentRepo.Create(ctx, student); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Int64("studentId", student.StudentID).Msg("Error creating default student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}
