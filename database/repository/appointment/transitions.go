// File: database/repository/appointment/transitions.go
package appointmentRepo

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

// ErrStatusConflict is returned when a status transition finds the record no
// longer in the expected state (concurrent transition won the race).
var ErrStatusConflict = errors.New("appointment status conflict")

// ErrSlotTaken is returned by the approval transaction when another approval
// already registered the same (doctor, date, time) slot.
var ErrSlotTaken = errors.New("slot already taken")

// Transition flips the appointment status with a compare-and-swap on the
// current value.
func (r *mongoAppointmentRepo) Transition(ctx context.Context, id string, expected, next models.AppointmentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": expected}
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := r.coll.FindOne(ctx, bson.M{"id": id}).Err(); err != nil {
			return mongo.ErrNoDocuments
		}
		return ErrStatusConflict
	}
	return nil
}

// ApproveAndRegisterSlot inserts the booked-slot index entry and flips the
// appointment to approved inside one session transaction. The unique
// (doctorId, date, time) index arbitrates racing approvals: the loser's
// insert fails, the transaction aborts, and the appointment stays pending.
func (r *mongoAppointmentRepo) ApproveAndRegisterSlot(ctx context.Context, id string, slot *models.BookedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	slot.AppointmentID = id
	slot.CreatedAt = time.Now()

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := r.slotColl.InsertOne(sc, slot); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotTaken
			}
			return fmt.Errorf("insert booked slot failed: %w", err)
		}

		filter := bson.M{"id": id, "status": models.AppointmentPending}
		update := bson.M{"$set": bson.M{"status": models.AppointmentApproved, "updatedAt": time.Now()}}
		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("approve transition failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStatusConflict
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrStatusConflict) {
			return err
		}
		return fmt.Errorf("approval transaction failed: %w", err)
	}

	return nil
}

// CancelApprovedAndRemoveSlot flips an approved appointment to cancelled and
// deletes its booked-slot entry in one transaction, so the status and the
// slot index can never be observed out of step. A missing slot entry is
// tolerated; the delete is idempotent.
func (r *mongoAppointmentRepo) CancelApprovedAndRemoveSlot(ctx context.Context, id, doctorID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": id, "status": models.AppointmentApproved}
		update := bson.M{"$set": bson.M{"status": models.AppointmentCancelled, "updatedAt": time.Now()}}
		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("cancel transition failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrStatusConflict
		}

		if _, err := r.slotColl.DeleteOne(sc, bson.M{"doctorId": doctorID, "appointmentId": id}); err != nil {
			return fmt.Errorf("remove booked slot failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return err
		}
		return fmt.Errorf("cancel transaction failed: %w", err)
	}

	return nil
}
