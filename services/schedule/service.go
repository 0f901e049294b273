// File: services/schedule/service.go
package schedule

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services"
	"medibook/utils"
)

// DeclareSchedule validates and stores a new availability window for the
// acting doctor. Admins may declare on behalf of a doctor via in.DoctorID.
func (s *DefaultScheduleService) DeclareSchedule(ctx context.Context, actor models.Actor, in DeclareScheduleInput) (*models.Schedule, error) {
	doctorID := in.DoctorID
	switch actor.Role {
	case models.RoleDoctor:
		doctorID = actor.ID
	case models.RoleAdmin:
		if doctorID == "" {
			return nil, services.NewValidationError("doctorId is required")
		}
	default:
		return nil, services.NewForbidden("only doctors can declare schedules")
	}

	if err := validateWindow(in); err != nil {
		return nil, err
	}

	sched := &models.Schedule{
		DoctorID:  doctorID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		IsHoliday: in.IsHoliday,
	}
	if err := s.Repo.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}

	utils.GetLogger().Info("schedule declared",
		zap.String("scheduleID", sched.ID),
		zap.String("doctorID", doctorID),
		zap.String("range", in.StartDate+".."+in.EndDate))
	return sched, nil
}

// DeclareLeave marks a leave sub-range on the schedule. The update is guarded
// by the schedule's document version; a lost race surfaces as a conflict the
// caller can retry after re-reading.
func (s *DefaultScheduleService) DeclareLeave(ctx context.Context, actor models.Actor, scheduleID string, in DeclareLeaveInput) (*models.Schedule, error) {
	sched, err := s.Repo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("schedule %s not found", scheduleID)
		}
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	if actor.Role == models.RoleDoctor && actor.ID != sched.DoctorID {
		return nil, services.NewForbidden("schedule belongs to another doctor")
	}
	if actor.Role == models.RoleUser {
		return nil, services.NewForbidden("only doctors can declare leave")
	}

	if !models.ValidDate(in.Start) || !models.ValidDate(in.End) {
		return nil, services.NewValidationError("leave dates must be YYYY-MM-DD")
	}
	if in.Start > in.End {
		return nil, services.NewValidationError("leave start must not be after leave end")
	}
	if in.Start < sched.StartDate || in.End > sched.EndDate {
		return nil, services.NewValidationError("leave range must fall within the schedule range %s..%s", sched.StartDate, sched.EndDate)
	}

	if err := s.Repo.SetLeave(ctx, scheduleID, in.Start, in.End, in.Reason, sched.Version); err != nil {
		if errors.Is(err, scheduleRepo.ErrVersionMismatch) {
			return nil, services.NewConflict("schedule was modified concurrently, retry")
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, services.NewNotFound("schedule %s not found", scheduleID)
		}
		return nil, fmt.Errorf("failed to set leave: %w", err)
	}

	updated, err := s.Repo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload schedule: %w", err)
	}

	utils.GetLogger().Info("leave declared",
		zap.String("scheduleID", scheduleID),
		zap.String("range", in.Start+".."+in.End))
	return updated, nil
}

// ListWindows returns the doctor's declared windows overlapping the optional
// date range.
func (s *DefaultScheduleService) ListWindows(ctx context.Context, doctorID, fromDate, toDate string) ([]models.Schedule, error) {
	if doctorID == "" {
		return nil, services.NewValidationError("doctorId is required")
	}
	if fromDate != "" && !models.ValidDate(fromDate) {
		return nil, services.NewValidationError("from date must be YYYY-MM-DD")
	}
	if toDate != "" && !models.ValidDate(toDate) {
		return nil, services.NewValidationError("to date must be YYYY-MM-DD")
	}
	return s.Repo.ListByDoctor(ctx, doctorID, fromDate, toDate)
}

func validateWindow(in DeclareScheduleInput) error {
	if !models.ValidDate(in.StartDate) || !models.ValidDate(in.EndDate) {
		return services.NewValidationError("dates must be YYYY-MM-DD")
	}
	if in.StartDate > in.EndDate {
		return services.NewValidationError("startDate must not be after endDate")
	}
	if !models.ValidTime(in.StartTime) || !models.ValidTime(in.EndTime) {
		return services.NewValidationError("times must be HH:MM")
	}
	if in.StartTime >= in.EndTime {
		return services.NewValidationError("startTime must be before endTime")
	}
	return nil
}
