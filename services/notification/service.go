// File: services/notification/service.go
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/config"
	"medibook/models"
	"medibook/utils"
)

// NewClient builds the asynq client over the queue Redis DB.
func NewClient() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	})
}

func (s *DefaultNotificationService) AppointmentStatusChanged(ctx context.Context, appt *models.Appointment) error {
	payload, err := json.Marshal(AppointmentEmailPayload{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		DoctorID:      appt.DoctorID,
		PatientName:   appt.PatientName,
		Date:          appt.Date,
		Time:          appt.Time,
		Status:        string(appt.Status),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal appointment notification: %w", err)
	}

	task := asynq.NewTask(TypeAppointmentEmail, payload)
	if _, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue appointment notification: %w", err)
	}
	return nil
}

func (s *DefaultNotificationService) PrescriptionIssued(ctx context.Context, p *models.Prescription) error {
	payload, err := json.Marshal(PrescriptionEmailPayload{
		PrescriptionID: p.ID,
		PatientID:      p.PatientID,
		DoctorID:       p.DoctorID,
		ExpiryDate:     p.ExpiryDate,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal prescription notification: %w", err)
	}

	task := asynq.NewTask(TypePrescriptionEmail, payload)
	if _, err := s.Client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("failed to enqueue prescription notification: %w", err)
	}
	return nil
}

// ScheduleReminder queues a reminder mail for delivery the day before the
// appointment. Past-due reminders (same-day bookings) go out immediately.
// The worker re-checks appointment status at delivery time, so reminders for
// since-cancelled appointments are dropped there.
func (s *DefaultNotificationService) ScheduleReminder(ctx context.Context, appt *models.Appointment) error {
	payload, err := json.Marshal(AppointmentEmailPayload{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		DoctorID:      appt.DoctorID,
		PatientName:   appt.PatientName,
		Date:          appt.Date,
		Time:          appt.Time,
		Status:        string(appt.Status),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}

	apptDay, err := time.ParseInLocation(models.DateLayout, appt.Date, time.Local)
	if err != nil {
		return fmt.Errorf("bad appointment date %q: %w", appt.Date, err)
	}
	delay := time.Until(apptDay.AddDate(0, 0, -1).Add(9 * time.Hour))
	if delay < 0 {
		delay = 0
	}

	task := asynq.NewTask(TypeAppointmentRemind, payload)
	info, err := s.Client.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}

	utils.GetLogger().Debug("reminder scheduled",
		zap.String("appointmentID", appt.ID),
		zap.String("taskID", info.ID),
		zap.Duration("delay", delay))
	return nil
}
