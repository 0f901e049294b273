// File: services/appointment/approve.go
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

// Approve moves a pending appointment to approved. The conflict resolver
// runs again here, and the actual commit goes through the store's
// slot-registration transaction, so two approvals racing on the same slot
// resolve to exactly one winner.
func (s *DefaultAppointmentService) Approve(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error) {
	appt, err := s.loadForDoctor(ctx, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.AppointmentPending {
		return nil, services.NewConflict("appointment is %s, only pending appointments can be approved", appt.Status)
	}

	decision, err := s.Availability.IsAvailable(ctx, appt.DoctorID, appt.Date, appt.Time)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}
	if !decision.OK {
		return nil, decision.Err()
	}

	scheduleID, err := s.coveringScheduleID(ctx, appt)
	if err != nil {
		return nil, err
	}

	slot := &models.BookedSlot{
		DoctorID:    appt.DoctorID,
		ScheduleID:  scheduleID,
		PatientName: appt.PatientName,
		Date:        appt.Date,
		Time:        appt.Time,
	}
	if err := s.Repo.ApproveAndRegisterSlot(ctx, appt.ID, slot); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrSlotTaken):
			return nil, services.NewConflict("slot %s %s was booked by a concurrent approval", appt.Date, appt.Time)
		case errors.Is(err, appointmentRepo.ErrStatusConflict):
			return nil, services.NewConflict("appointment changed state during approval, retry")
		default:
			return nil, fmt.Errorf("approval failed: %w", err)
		}
	}

	appt.Status = models.AppointmentApproved

	logger := utils.GetLogger()
	logger.Info("appointment approved",
		zap.String("appointmentID", appt.ID),
		zap.String("doctorID", appt.DoctorID),
		zap.String("slot", appt.Date+" "+appt.Time))

	if err := s.Notifier.AppointmentStatusChanged(ctx, appt); err != nil {
		logger.Warn("appointment notification enqueue failed", zap.Error(err))
	}
	if err := s.Notifier.ScheduleReminder(ctx, appt); err != nil {
		logger.Warn("reminder enqueue failed", zap.Error(err))
	}
	return appt, nil
}

// Reject moves a pending appointment to rejected. Unconditional for the
// target doctor; no availability involvement.
func (s *DefaultAppointmentService) Reject(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error) {
	appt, err := s.loadForDoctor(ctx, actor, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.AppointmentPending {
		return nil, services.NewConflict("appointment is %s, only pending appointments can be rejected", appt.Status)
	}

	if err := s.Repo.Transition(ctx, appt.ID, models.AppointmentPending, models.AppointmentRejected); err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrStatusConflict):
			return nil, services.NewConflict("appointment changed state during rejection, retry")
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, services.NewNotFound("appointment %s not found", appointmentID)
		default:
			return nil, fmt.Errorf("rejection failed: %w", err)
		}
	}

	appt.Status = models.AppointmentRejected

	logger := utils.GetLogger()
	logger.Info("appointment rejected",
		zap.String("appointmentID", appt.ID),
		zap.String("doctorID", appt.DoctorID))

	if err := s.Notifier.AppointmentStatusChanged(ctx, appt); err != nil {
		logger.Warn("appointment notification enqueue failed", zap.Error(err))
	}
	return appt, nil
}

// loadForDoctor fetches the appointment and checks the actor is its target
// doctor. Approve and reject belong to the target doctor alone; admins get
// cancel, not these.
func (s *DefaultAppointmentService) loadForDoctor(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Repo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("appointment %s not found", appointmentID)
		}
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	if actor.Role != models.RoleDoctor {
		return nil, services.NewForbidden("only the target doctor can perform this transition")
	}
	if actor.ID != appt.DoctorID {
		return nil, services.NewForbidden("appointment belongs to another doctor")
	}
	return appt, nil
}

// coveringScheduleID picks the schedule the booked slot registers against:
// the first non-blocked window covering the appointment's date and time.
func (s *DefaultAppointmentService) coveringScheduleID(ctx context.Context, appt *models.Appointment) (string, error) {
	schedules, err := s.Schedules.GetByDoctorAndDate(ctx, appt.DoctorID, appt.Date)
	if err != nil {
		return "", fmt.Errorf("failed to load schedules: %w", err)
	}
	for _, sched := range schedules {
		if !sched.BlockedOn(appt.Date) && sched.WithinHours(appt.Time) {
			return sched.ID, nil
		}
	}
	return "", services.NewUnavailable(services.CodeNoScheduleDeclared, "no open schedule covers %s %s", appt.Date, appt.Time)
}
