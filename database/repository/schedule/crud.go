// File: database/repository/schedule/crud.go
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

// ErrVersionMismatch is returned when a guarded schedule update loses to a
// concurrent writer (document version moved on underneath).
var ErrVersionMismatch = errors.New("schedule version mismatch")

func (r *mongoScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	schedule.Version = 1

	if _, err := r.coll.InsertOne(ctx, schedule); err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var schedule models.Schedule
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&schedule)
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// GetByDoctorAndDate returns every schedule for the doctor whose calendar
// range contains the given date.
func (r *mongoScheduleRepo) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"doctorId":  doctorID,
		"startDate": bson.M{"$lte": date},
		"endDate":   bson.M{"$gte": date},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListByDoctor returns the doctor's schedules overlapping [fromDate, toDate].
// Empty bounds list everything.
func (r *mongoScheduleRepo) ListByDoctor(ctx context.Context, doctorID, fromDate, toDate string) ([]models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"doctorId": doctorID}
	if fromDate != "" {
		filter["endDate"] = bson.M{"$gte": fromDate}
	}
	if toDate != "" {
		filter["startDate"] = bson.M{"$lte": toDate}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// SetLeave marks a leave sub-range on the schedule, guarded by the document
// version so concurrent edits cannot silently overwrite each other.
func (r *mongoScheduleRepo) SetLeave(ctx context.Context, scheduleID, start, end, reason string, currentVersion int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":      scheduleID,
		"version": currentVersion,
	}
	update := bson.M{
		"$set": bson.M{
			"isOnLeave":      true,
			"leaveStartDate": start,
			"leaveEndDate":   end,
			"leaveReason":    reason,
			"updatedAt":      time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set leave on schedule: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing document from a lost race.
		if err := r.coll.FindOne(ctx, bson.M{"id": scheduleID}).Err(); err != nil {
			return mongo.ErrNoDocuments
		}
		return ErrVersionMismatch
	}
	return nil
}
