// File: services/appointment/interface.go
package appointment

import (
	"context"

	appointmentRepo "medibook/database/repository/appointment"
	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/availability"
	"medibook/services/notification"
)

// RequestInput is a patient's booking request.
type RequestInput struct {
	DoctorID    string                 `json:"doctorId" binding:"required"`
	PatientName string                 `json:"patientName" binding:"required"`
	Date        string                 `json:"date" binding:"required"`
	Time        string                 `json:"time" binding:"required"`
	Type        models.AppointmentType `json:"type" binding:"required"`
	Symptoms    string                 `json:"symptoms"`
	Notes       string                 `json:"notes"`
}

// ListInput narrows an appointment listing. The acting role decides which
// records are visible at all; these filters narrow within that.
type ListInput struct {
	Status   models.AppointmentStatus
	Date     string
	DoctorID string
}

// AppointmentService owns the appointment state machine.
type AppointmentService interface {
	Request(ctx context.Context, actor models.Actor, in RequestInput) (*models.Appointment, error)
	Approve(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error)
	Reject(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error)
	Cancel(ctx context.Context, actor models.Actor, appointmentID string) (*models.Appointment, error)
	List(ctx context.Context, actor models.Actor, in ListInput) ([]models.Appointment, error)
}

// DefaultAppointmentService implements AppointmentService.
type DefaultAppointmentService struct {
	Repo         appointmentRepo.AppointmentRepository
	Schedules    scheduleRepo.ScheduleRepository
	Availability *availability.Checker
	Notifier     notification.NotificationService
}
