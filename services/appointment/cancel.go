// File: services/appointment/cancel.go
package appointment

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	appointmentRepo "medibook/database/repository/appointment"
	"medibook/models"
	"medibook/services"
	"medibook/utils"
)

// Cancel moves a pending or approved appointment to cancelled. The requesting
// patient, the target doctor or an admin may cancel. Cancelling an
// already-cancelled appointment is a no-op returning the terminal record.
func (s *DefaultAppointmentService) Cancel(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("appointment %s not found", appointmentID)
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	switch actor.Role {
	case models.RoleUser:
		if actor.ID != appt.UserID {
			return nil, services.NewForbidden("appointment belongs to another patient")
		}
	case models.RoleDoctor:
		if actor.ID != appt.DoctorID {
			return nil, services.NewForbidden("appointment belongs to another doctor")
		}
	case models.RoleAdmin:
	default:
		return nil, services.NewForbidden("unknown role %q", actor.Role)
	}

	switch appt.Status {
	case models.AppointmentCancelled:
		// Idempotent: repeating a cancel returns the same terminal state.
		return appt, nil
	case models.AppointmentRejected:
		return nil, services.NewConflict("appointment is rejected, a terminal state")
	case models.AppointmentPending:
		err = s.Repo.Transition(ctx, appt.ID, models.AppointmentPending, models.AppointmentCancelled)
	case models.AppointmentApproved:
		// Approved cancellations free the slot and flip status atomically.
		err = s.Repo.CancelApprovedAndRemoveSlot(ctx, appt.ID, appt.DoctorID)
	default:
		return nil, services.NewConflict("appointment is in unknown state %q", appt.Status)
	}

	if err != nil {
		if errors.Is(err, appointmentRepo.ErrStatusConflict) {
			// Lost a race. If the winner also cancelled, honor idempotence.
			current, readErr := s.Repo.GetByID(ctx, appt.ID)
			if readErr == nil && current.Status == models.AppointmentCancelled {
				return current, nil
			}
			return nil, services.NewConflict("appointment changed state during cancellation, retry")
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("appointment %s not found", appointmentID)
		}
		return nil, fmt.Errorf("cancellation failed: %w", err)
	}

	appt.Status = models.AppointmentCancelled

	logger := utils.GetLogger()
	logger.Info("appointment cancelled",
		zap.String("appointmentID", appt.ID),
		zap.String("by", actor.ID),
		zap.String("role", string(actor.Role)))

	if err := s.Notifier.AppointmentStatusChanged(ctx, appt); err != nil {
		logger.Warn("appointment notification enqueue failed", zap.Error(err))
	}
	return appt, nil
}
