// File: services/prescription/service.go
package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	prescriptionRepo "medibook/database/repository/prescription"
	"medibook/models"
	"medibook/services"
	"medibook/utils"
)

// Issue creates a prescription against an approved appointment of the acting
// doctor. The patient is taken from the appointment, keeping the record
// traceable to the visit that produced it.
func (s *DefaultPrescriptionService) Issue(ctx context.Context, actor models.Actor, in IssueInput) (*models.Prescription, error) {
	if actor.Role != models.RoleDoctor {
		return nil, services.NewForbidden("only doctors can issue prescriptions")
	}
	if len(in.Medications) == 0 {
		return nil, services.NewUnavailable(services.CodeEmptyMedicationList, "prescription needs at least one medication")
	}
	for i, m := range in.Medications {
		if m.Name == "" || m.Dosage == "" || m.Frequency == "" || m.Duration == "" {
			return nil, services.NewValidationError("medication %d is missing name, dosage, frequency or duration", i)
		}
	}
	if !models.ValidDate(in.IssueDate) || !models.ValidDate(in.ExpiryDate) {
		return nil, services.NewValidationError("issue and expiry dates must be YYYY-MM-DD")
	}
	if in.IssueDate > in.ExpiryDate {
		return nil, services.NewValidationError("issue date must not be after expiry date")
	}

	appt, err := s.Appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("appointment %s not found", in.AppointmentID)
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	if appt.DoctorID != actor.ID {
		return nil, services.NewForbidden("appointment belongs to another doctor")
	}
	if appt.Status != models.AppointmentApproved {
		return nil, services.NewConflict("appointment is %s, prescriptions require an approved appointment", appt.Status)
	}

	p := &models.Prescription{
		PatientID:     appt.UserID,
		DoctorID:      actor.ID,
		AppointmentID: appt.ID,
		Medications:   in.Medications,
		Files:         in.Files,
		IssueDate:     in.IssueDate,
		ExpiryDate:    in.ExpiryDate,
		Status:        models.PrescriptionActive,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist prescription: %w", err)
	}

	// A prescription issued with a past expiry date is expired from birth.
	p, err = s.EvaluateStatus(ctx, p)
	if err != nil {
		return nil, err
	}

	logger := utils.GetLogger()
	logger.Info("prescription issued",
		zap.String("prescriptionID", p.ID),
		zap.String("doctorID", p.DoctorID),
		zap.String("patientID", p.PatientID))

	if err := s.Notifier.PrescriptionIssued(ctx, p); err != nil {
		logger.Warn("prescription notification enqueue failed", zap.Error(err))
	}
	return p, nil
}

// Get returns a prescription visible to the actor, with expiry evaluated.
func (s *DefaultPrescriptionService) Get(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("prescription %s not found", id)
		}
		return nil, fmt.Errorf("failed to load prescription: %w", err)
	}
	if err := s.authorizeRead(actor, p); err != nil {
		return nil, err
	}
	return s.EvaluateStatus(ctx, p)
}

// List returns the actor's prescriptions (patient: issued to them, doctor:
// issued by them), each with expiry evaluated.
func (s *DefaultPrescriptionService) List(ctx context.Context, actor models.Actor) ([]models.Prescription, error) {
	var (
		prescriptions []models.Prescription
		err           error
	)
	switch actor.Role {
	case models.RoleUser:
		prescriptions, err = s.Repo.ListByPatient(ctx, actor.ID)
	case models.RoleDoctor:
		prescriptions, err = s.Repo.ListByDoctor(ctx, actor.ID)
	default:
		return nil, services.NewForbidden("role %q cannot list prescriptions", actor.Role)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}

	for i := range prescriptions {
		evaluated, err := s.EvaluateStatus(ctx, &prescriptions[i])
		if err != nil {
			return nil, err
		}
		prescriptions[i] = *evaluated
	}
	return prescriptions, nil
}

// Complete moves an active prescription to completed.
func (s *DefaultPrescriptionService) Complete(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error) {
	return s.finish(ctx, actor, id, models.PrescriptionCompleted)
}

// Cancel moves an active prescription to cancelled.
func (s *DefaultPrescriptionService) Cancel(ctx context.Context, actor models.Actor, id string) (*models.Prescription, error) {
	return s.finish(ctx, actor, id, models.PrescriptionCancelled)
}

func (s *DefaultPrescriptionService) finish(ctx context.Context, actor models.Actor, id string, next models.PrescriptionStatus) (*models.Prescription, error) {
	if actor.Role != models.RoleDoctor {
		return nil, services.NewForbidden("only doctors can close prescriptions")
	}

	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("prescription %s not found", id)
		}
		return nil, fmt.Errorf("failed to load prescription: %w", err)
	}
	if p.DoctorID != actor.ID {
		return nil, services.NewForbidden("prescription was issued by another doctor")
	}

	// Write path: evaluate expiry first, so a stale active record cannot be
	// closed after its expiry day.
	p, err = s.EvaluateStatus(ctx, p)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PrescriptionActive {
		return nil, services.NewConflict("prescription is %s, only active prescriptions can be %s", p.Status, next)
	}

	if err := s.Repo.UpdateStatus(ctx, id, models.PrescriptionActive, next); err != nil {
		if errors.Is(err, prescriptionRepo.ErrStatusConflict) {
			return nil, services.NewConflict("prescription changed state concurrently, retry")
		}
		return nil, fmt.Errorf("failed to update prescription status: %w", err)
	}

	p.Status = next
	utils.GetLogger().Info("prescription closed",
		zap.String("prescriptionID", id),
		zap.String("status", string(next)))
	return p, nil
}

// EvaluateStatus applies the lazy expiry rule: an active prescription whose
// expiry date has passed becomes expired, persisted before being returned.
// The transition is one-directional and idempotent; terminal states are left
// untouched. Every read and write path funnels through here so an unread
// prescription still expires transparently.
func (s *DefaultPrescriptionService) EvaluateStatus(ctx context.Context, p *models.Prescription) (*models.Prescription, error) {
	if p.Status != models.PrescriptionActive || !p.ExpiredAt(time.Now()) {
		return p, nil
	}

	err := s.Repo.UpdateStatus(ctx, p.ID, models.PrescriptionActive, models.PrescriptionExpired)
	if err != nil {
		if errors.Is(err, prescriptionRepo.ErrStatusConflict) {
			// Another path already moved it; the stored state wins.
			current, readErr := s.Repo.GetByID(ctx, p.ID)
			if readErr != nil {
				return nil, fmt.Errorf("failed to reload prescription: %w", readErr)
			}
			return current, nil
		}
		return nil, fmt.Errorf("failed to expire prescription: %w", err)
	}

	p.Status = models.PrescriptionExpired
	utils.GetLogger().Debug("prescription expired lazily", zap.String("prescriptionID", p.ID))
	return p, nil
}

func (s *DefaultPrescriptionService) authorizeRead(actor models.Actor, p *models.Prescription) error {
	switch actor.Role {
	case models.RoleUser:
		if actor.ID != p.PatientID {
			return services.NewForbidden("prescription belongs to another patient")
		}
	case models.RoleDoctor:
		if actor.ID != p.DoctorID {
			return services.NewForbidden("prescription was issued by another doctor")
		}
	case models.RoleAdmin:
	default:
		return services.NewForbidden("unknown role %q", actor.Role)
	}
	return nil
}
