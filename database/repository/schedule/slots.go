// File: database/repository/schedule/slots.go
package scheduleRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medibook/models"
)

// ErrSlotTaken is returned when a slot registration collides with an existing
// entry for the same (doctor, date, time). The unique index makes the insert
// itself the arbiter, so a losing concurrent approval fails here instead of
// overwriting the winner.
var ErrSlotTaken = errors.New("slot already taken")

func (r *mongoScheduleRepo) RegisterSlot(ctx context.Context, slot *models.BookedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	slot.CreatedAt = time.Now()

	if _, err := r.slotColl.InsertOne(ctx, slot); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to register booked slot: %w", err)
	}
	return nil
}

// RemoveSlotByAppointment deletes the booked-slot entry for an appointment.
// Removing an entry that does not exist is a no-op.
func (r *mongoScheduleRepo) RemoveSlotByAppointment(ctx context.Context, doctorID, appointmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctorId": doctorID, "appointmentId": appointmentID}
	if _, err := r.slotColl.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to remove booked slot: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) SlotsByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.BookedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.slotColl.Find(ctx, bson.M{"doctorId": doctorID, "date": date})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.BookedSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
