// File: services/appointment/service.go
package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"medibook/models"
	"medibook/services"
	"medibook/utils"
)

// Request validates the booking request, runs an advisory availability check
// and persists the appointment as pending. The check here can race with
// concurrent approvals; the authoritative check happens again at approval
// time under the store's atomic primitives.
func (s *DefaultAppointmentService) Request(ctx context.Context, actor models.Actor, in RequestInput) (*models.Appointment, error) {
	if actor.Role != models.RoleUser {
		return nil, services.NewForbidden("only patients can request appointments")
	}
	if err := validateRequest(in); err != nil {
		return nil, err
	}

	decision, err := s.Availability.IsAvailable(ctx, in.DoctorID, in.Date, in.Time)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}
	if !decision.OK {
		return nil, decision.Err()
	}

	appt := &models.Appointment{
		UserID:      actor.ID,
		DoctorID:    in.DoctorID,
		PatientName: in.PatientName,
		Date:        in.Date,
		Time:        in.Time,
		Type:        in.Type,
		Symptoms:    in.Symptoms,
		Notes:       in.Notes,
		Status:      models.AppointmentPending,
	}
	if err := s.Repo.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to persist appointment: %w", err)
	}

	logger := utils.GetLogger()
	logger.Info("appointment requested",
		zap.String("appointmentID", appt.ID),
		zap.String("doctorID", appt.DoctorID),
		zap.String("slot", appt.Date+" "+appt.Time))

	if err := s.Notifier.AppointmentStatusChanged(ctx, appt); err != nil {
		logger.Warn("appointment notification enqueue failed", zap.Error(err))
	}
	return appt, nil
}

// List returns the appointments the actor may see, narrowed by the filters.
// Patients see their own requests, doctors their own calendar, admins
// everything.
func (s *DefaultAppointmentService) List(ctx context.Context, actor models.Actor, in ListInput) ([]models.Appointment, error) {
	filter := models.AppointmentFilter{
		Status: in.Status,
		Date:   in.Date,
	}
	switch actor.Role {
	case models.RoleUser:
		filter.UserID = actor.ID
	case models.RoleDoctor:
		filter.DoctorID = actor.ID
	case models.RoleAdmin:
		filter.DoctorID = in.DoctorID
	default:
		return nil, services.NewForbidden("unknown role %q", actor.Role)
	}

	if filter.Status != "" && !validStatusFilter(filter.Status) {
		return nil, services.NewValidationError("unknown status filter %q", filter.Status)
	}
	if filter.Date != "" && !models.ValidDate(filter.Date) {
		return nil, services.NewValidationError("date filter must be YYYY-MM-DD")
	}

	appts, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appts, nil
}

func validateRequest(in RequestInput) error {
	if in.DoctorID == "" || in.PatientName == "" {
		return services.NewValidationError("doctorId and patientName are required")
	}
	if !models.ValidDate(in.Date) {
		return services.NewValidationError("date must be YYYY-MM-DD")
	}
	if !models.ValidTime(in.Time) {
		return services.NewValidationError("time must be HH:MM")
	}
	if !models.ValidAppointmentType(in.Type) {
		return services.NewValidationError("unknown appointment type %q", in.Type)
	}
	return nil
}

func validStatusFilter(s models.AppointmentStatus) bool {
	switch s {
	case models.AppointmentPending, models.AppointmentApproved,
		models.AppointmentRejected, models.AppointmentCancelled:
		return true
	}
	return false
}
