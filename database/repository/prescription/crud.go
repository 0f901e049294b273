// File: database/repository/prescription/crud.go
package prescriptionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medibook/models"
)

// ErrStatusConflict is returned when a status update finds the prescription
// no longer in the expected state.
var ErrStatusConflict = errors.New("prescription status conflict")

func (r *mongoPrescriptionRepo) Create(ctx context.Context, p *models.Prescription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert prescription: %w", err)
	}
	return nil
}

func (r *mongoPrescriptionRepo) GetByID(ctx context.Context, id string) (*models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Prescription
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPrescriptionRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	return r.list(ctx, bson.M{"patientId": patientID})
}

func (r *mongoPrescriptionRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Prescription, error) {
	return r.list(ctx, bson.M{"doctorId": doctorID})
}

func (r *mongoPrescriptionRepo) list(ctx context.Context, query bson.M) ([]models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "issueDate", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prescriptions []models.Prescription
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

// UpdateStatus flips the prescription status with a compare-and-swap on the
// current value, so an expired or terminal record cannot be revived.
func (r *mongoPrescriptionRepo) UpdateStatus(ctx context.Context, id string, expected, next models.PrescriptionStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": expected}
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": time.Now()}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update prescription status: %w", err)
	}
	if res.MatchedCount == 0 {
		if err := r.coll.FindOne(ctx, bson.M{"id": id}).Err(); err != nil {
			return mongo.ErrNoDocuments
		}
		return ErrStatusConflict
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the prescriptions collection.
func (r *mongoPrescriptionRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}},
			Options: options.Index().SetName("patient_idx"),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}},
			Options: options.Index().SetName("doctor_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create prescription indexes: %w", err)
	}
	return nil
}
