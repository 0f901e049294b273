// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

// AppointmentRepository persists appointment records. All status changes go
// through compare-and-swap transitions so racing writers cannot both win.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)

	// Transition flips status from expected to next, failing with
	// ErrStatusConflict when the record is no longer in the expected state.
	Transition(ctx context.Context, id string, expected, next models.AppointmentStatus) error

	// ApproveAndRegisterSlot commits the pending→approved flip and the
	// booked-slot registration in one transaction; either both apply or
	// neither does.
	ApproveAndRegisterSlot(ctx context.Context, id string, slot *models.BookedSlot) error

	// CancelApprovedAndRemoveSlot commits the approved→cancelled flip and
	// the booked-slot removal in one transaction.
	CancelApprovedAndRemoveSlot(ctx context.Context, id, doctorID string) error

	EnsureIndexes() error
}

type mongoAppointmentRepo struct {
	coll     *mongo.Collection
	slotColl *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.DB()
	return &mongoAppointmentRepo{
		coll:     db.Collection("appointments"),
		slotColl: db.Collection("booked_slots"),
	}
}
