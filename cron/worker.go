package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/config"
	appointmentRepo "medibook/database/repository/appointment"
	userRepo "medibook/database/repository/user"
	"medibook/models"
	"medibook/services/notification"
	"medibook/utils"
)

// InitNotificationWorker runs the async worker in background. It delivers the
// queued status-change mails and appointment reminders.
func InitNotificationWorker(users userRepo.UserRepository, appointments appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPass,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeAppointmentEmail, handleAppointmentEmail(users))
	mux.HandleFunc(notification.TypePrescriptionEmail, handlePrescriptionEmail(users))
	mux.HandleFunc(notification.TypeAppointmentRemind, handleReminder(users, appointments))

	go func() {
		log.Println("[NotificationWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleAppointmentEmail(users userRepo.UserRepository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p notification.AppointmentEmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("bad appointment email payload: %w", err)
		}

		user, err := users.GetByID(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("could not resolve user %s: %w", p.UserID, err)
		}

		subject := fmt.Sprintf("Appointment %s", p.Status)
		body := fmt.Sprintf(
			"Hello %s,\n\nYour appointment on %s at %s is now %s.\n",
			p.PatientName, p.Date, p.Time, p.Status,
		)
		if err := utils.SendMail(user.Email, subject, body); err != nil {
			return err
		}

		utils.GetLogger().Info("appointment mail delivered",
			zap.String("appointmentID", p.AppointmentID),
			zap.String("status", p.Status))
		return nil
	}
}

func handlePrescriptionEmail(users userRepo.UserRepository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p notification.PrescriptionEmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("bad prescription email payload: %w", err)
		}

		patient, err := users.GetByID(ctx, p.PatientID)
		if err != nil {
			return fmt.Errorf("could not resolve patient %s: %w", p.PatientID, err)
		}

		body := fmt.Sprintf(
			"Hello %s,\n\nA new prescription has been issued for you. It is valid until %s.\n",
			patient.Name, p.ExpiryDate,
		)
		if err := utils.SendMail(patient.Email, "New prescription issued", body); err != nil {
			return err
		}

		utils.GetLogger().Info("prescription mail delivered",
			zap.String("prescriptionID", p.PrescriptionID))
		return nil
	}
}

// handleReminder re-checks the appointment at delivery time: a reminder for
// an appointment that is no longer approved is dropped, not an error.
func handleReminder(users userRepo.UserRepository, appointments appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p notification.AppointmentEmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("bad reminder payload: %w", err)
		}

		appt, err := appointments.GetByID(ctx, p.AppointmentID)
		if err != nil {
			return fmt.Errorf("could not load appointment %s: %w", p.AppointmentID, err)
		}
		if appt.Status != models.AppointmentApproved {
			utils.GetLogger().Debug("skipping reminder for non-approved appointment",
				zap.String("appointmentID", appt.ID),
				zap.String("status", string(appt.Status)))
			return nil
		}

		user, err := users.GetByID(ctx, p.UserID)
		if err != nil {
			return fmt.Errorf("could not resolve user %s: %w", p.UserID, err)
		}

		body := fmt.Sprintf(
			"Hello %s,\n\nThis is a reminder for your appointment tomorrow, %s at %s.\n",
			p.PatientName, appt.Date, appt.Time,
		)
		return utils.SendMail(user.Email, "Appointment reminder", body)
	}
}
