// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

// ScheduleRepository is the availability store: declared windows plus the
// booked-slot index used for conflict checks.
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) error
	GetByID(ctx context.Context, id string) (*models.Schedule, error)
	GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Schedule, error)
	ListByDoctor(ctx context.Context, doctorID, fromDate, toDate string) ([]models.Schedule, error)
	SetLeave(ctx context.Context, scheduleID, start, end, reason string, currentVersion int) error

	RegisterSlot(ctx context.Context, slot *models.BookedSlot) error
	RemoveSlotByAppointment(ctx context.Context, doctorID, appointmentID string) error
	SlotsByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.BookedSlot, error)

	EnsureIndexes() error
}

type mongoScheduleRepo struct {
	coll     *mongo.Collection
	slotColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.DB()
	return &mongoScheduleRepo{
		coll:     db.Collection("schedules"),
		slotColl: db.Collection("booked_slots"),
	}
}
