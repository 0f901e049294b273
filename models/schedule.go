package models

import "time"

// Schedule represents a doctor's declared availability window: a calendar
// range with daily working hours, plus optional holiday/leave overrides.
type Schedule struct {
	ID             string    `bson:"id" json:"id"`
	DoctorID       string    `bson:"doctorId" json:"doctorId"`
	StartDate      string    `bson:"startDate" json:"startDate"` // "2006-01-02"
	EndDate        string    `bson:"endDate" json:"endDate"`
	StartTime      string    `bson:"startTime" json:"startTime"` // "15:04"
	EndTime        string    `bson:"endTime" json:"endTime"`
	IsHoliday      bool      `bson:"isHoliday" json:"isHoliday"`
	IsOnLeave      bool      `bson:"isOnLeave" json:"isOnLeave"`
	LeaveStartDate string    `bson:"leaveStartDate,omitempty" json:"leaveStartDate,omitempty"`
	LeaveEndDate   string    `bson:"leaveEndDate,omitempty" json:"leaveEndDate,omitempty"`
	LeaveReason    string    `bson:"leaveReason,omitempty" json:"leaveReason,omitempty"`
	Version        int       `bson:"version" json:"version"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookedSlot is the secondary index entry for a confirmed appointment slot.
// The slots collection carries a unique index on (doctorId, date, time), so
// inserting a duplicate slot fails at the store and a losing concurrent
// approval cannot overwrite the winner.
type BookedSlot struct {
	ID            string    `bson:"id" json:"id"`
	DoctorID      string    `bson:"doctorId" json:"doctorId"`
	ScheduleID    string    `bson:"scheduleId" json:"scheduleId"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	PatientName   string    `bson:"patientName" json:"patientName"`
	Date          string    `bson:"date" json:"date"`
	Time          string    `bson:"time" json:"time"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// BlockedOn reports whether the schedule suppresses availability on the given
// date, either as a whole-range holiday or a leave sub-range override.
func (s Schedule) BlockedOn(date string) bool {
	if s.IsHoliday {
		return true
	}
	if s.IsOnLeave && s.LeaveStartDate != "" && s.LeaveEndDate != "" {
		return DateInRange(date, s.LeaveStartDate, s.LeaveEndDate)
	}
	return false
}

// Covers reports whether date falls inside the schedule's calendar range.
func (s Schedule) Covers(date string) bool {
	return DateInRange(date, s.StartDate, s.EndDate)
}

// WithinHours reports whether t falls inside the half-open daily window
// [StartTime, EndTime).
func (s Schedule) WithinHours(t string) bool {
	return t >= s.StartTime && t < s.EndTime
}
