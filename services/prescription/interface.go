// File: services/prescription/interface.go
package prescription

import (
	"context"

	appointmentRepo "medibook/database/repository/appointment"
	prescriptionRepo "medibook/database/repository/prescription"
	"medibook/models"
	"medibook/services/notification"
)

// IssueInput is a doctor's prescription against an approved appointment.
type IssueInput struct {
	AppointmentID string                    `json:"appointmentId" binding:"required"`
	Medications   []models.Medication       `json:"medications" binding:"required"`
	Files         []models.PrescriptionFile `json:"files"`
	IssueDate     string                    `json:"issueDate" binding:"required"`
	ExpiryDate    string                    `json:"expiryDate" binding:"required"`
}

// PrescriptionService owns the prescription lifecycle, including the lazy
// expiry evaluation run on every read and write path.
type PrescriptionService interface {
	Issue(ctx context.Context, actor models.Actor, in IssueInput) (*models.Prescription, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error)
	List(ctx context.Context, actor models.Actor) ([]models.Prescription, error)
	Complete(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error)
	Cancel(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error)
}

// DefaultPrescriptionService implements PrescriptionService.
type DefaultPrescriptionService struct {
	Repo         prescriptionRepo.PrescriptionRepository
	Appointments appointmentRepo.AppointmentRepository
	Notifier     notification.NotificationService
}
