// File: services/schedule/interface.go
package schedule

import (
	"context"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
)

// DeclareScheduleInput is a doctor's availability window declaration.
type DeclareScheduleInput struct {
	DoctorID  string `json:"doctorId"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	IsHoliday bool   `json:"isHoliday"`
}

// DeclareLeaveInput marks a leave sub-range on an existing schedule.
type DeclareLeaveInput struct {
	Start  string `json:"start" binding:"required"`
	End    string `json:"end" binding:"required"`
	Reason string `json:"reason"`
}

// ScheduleService owns a doctor's declared windows.
type ScheduleService interface {
	DeclareSchedule(ctx context.Context, actor models.Actor, in DeclareScheduleInput) (*models.Schedule, error)
	DeclareLeave(ctx context.Context, actor models.Actor, scheduleID string, in DeclareLeaveInput) (*models.Schedule, error)
	ListWindows(ctx context.Context, doctorID, fromDate, toDate string) ([]models.Schedule, error)
}

// DefaultScheduleService implements ScheduleService.
type DefaultScheduleService struct {
	Repo scheduleRepo.ScheduleRepository
}
