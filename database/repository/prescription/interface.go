// File: database/repository/prescription/interface.go
package prescriptionRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"medibook/database"
	"medibook/models"
)

// PrescriptionRepository persists prescriptions. Status moves only through
// UpdateStatus, a compare-and-swap keeping terminal states terminal.
type PrescriptionRepository interface {
	Create(ctx context.Context, p *models.Prescription) error
	GetByID(ctx context.Context, id string) (*models.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Prescription, error)
	UpdateStatus(ctx context.Context, id string, expected, next models.PrescriptionStatus) error
	EnsureIndexes() error
}

type mongoPrescriptionRepo struct {
	coll *mongo.Collection
}

// NewMongoPrescriptionRepo constructs a new MongoDB PrescriptionRepository.
func NewMongoPrescriptionRepo() PrescriptionRepository {
	db := database.DB()
	return &mongoPrescriptionRepo{
		coll: db.Collection("prescriptions"),
	}
}
