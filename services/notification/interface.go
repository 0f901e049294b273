// File: services/notification/interface.go
package notification

import (
	"context"

	"github.com/hibiken/asynq"

	"medibook/models"
)

// Task type names shared between the enqueueing side and the worker.
const (
	TypeAppointmentEmail  = "notify:appointment"
	TypePrescriptionEmail = "notify:prescription"
	TypeAppointmentRemind = "remind:appointment"
)

// AppointmentEmailPayload is the queued payload for a status-change mail.
type AppointmentEmailPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserID        string `json:"userId"`
	DoctorID      string `json:"doctorId"`
	PatientName   string `json:"patientName"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
}

// PrescriptionEmailPayload is the queued payload for an issuance mail.
type PrescriptionEmailPayload struct {
	PrescriptionID string `json:"prescriptionId"`
	PatientID      string `json:"patientId"`
	DoctorID       string `json:"doctorId"`
	ExpiryDate     string `json:"expiryDate"`
}

// NotificationService enqueues outbound mail. Delivery is fire-and-forget:
// enqueue failures are logged by callers and never fail the triggering
// transaction.
type NotificationService interface {
	AppointmentStatusChanged(ctx context.Context, appt *models.Appointment) error
	PrescriptionIssued(ctx context.Context, p *models.Prescription) error
	ScheduleReminder(ctx context.Context, appt *models.Appointment) error
}

// DefaultNotificationService is the asynq-backed implementation.
type DefaultNotificationService struct {
	Client *asynq.Client
}
