// FILE: database/repository/schedule/indexes.go
package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the schedules and
// booked_slots collections. The unique (doctorId, date, time) index on
// booked_slots is the double-booking guard.
func (r *mongoScheduleRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduleModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}},
			Options: options.Index().SetName("doctor_range_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, scheduleModels); err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}

	slotModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_doctor_slot"),
		},
		{
			Keys:    bson.D{{Key: "appointmentId", Value: 1}},
			Options: options.Index().SetName("appointment_idx"),
		},
	}
	if _, err := r.slotColl.Indexes().CreateMany(ctx, slotModels); err != nil {
		return fmt.Errorf("failed to create booked_slots indexes: %w", err)
	}
	return nil
}
