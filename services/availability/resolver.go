// File: services/availability/resolver.go
package availability

import "medibook/models"

// Reason explains why a requested slot is not bookable.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonNoScheduleDeclared  Reason = "noScheduleDeclared"
	ReasonDoctorUnavailable   Reason = "doctorUnavailable"
	ReasonOutsideWorkingHours Reason = "outsideWorkingHours"
	ReasonSlotAlreadyTaken    Reason = "slotAlreadyTaken"
)

// Decision is the outcome of an availability check.
type Decision struct {
	OK     bool   `json:"ok"`
	Reason Reason `json:"reason,omitempty"`
}

// Resolve decides whether the (date, time) slot is bookable given the
// doctor's schedules and the already-booked slots for that date. It is a pure
// function over its inputs; callers are responsible for loading current state.
//
// Unavailability is sticky: when several schedules cover the same date, a
// single holiday or leave block makes the whole day unavailable, whatever the
// other windows say.
func Resolve(schedules []models.Schedule, booked []models.BookedSlot, date, t string) Decision {
	var covering []models.Schedule
	for _, s := range schedules {
		if s.Covers(date) {
			covering = append(covering, s)
		}
	}
	if len(covering) == 0 {
		return Decision{Reason: ReasonNoScheduleDeclared}
	}

	for _, s := range covering {
		if s.BlockedOn(date) {
			return Decision{Reason: ReasonDoctorUnavailable}
		}
	}

	withinHours := false
	for _, s := range covering {
		if s.WithinHours(t) {
			withinHours = true
			break
		}
	}
	if !withinHours {
		return Decision{Reason: ReasonOutsideWorkingHours}
	}

	for _, b := range booked {
		if b.Date == date && b.Time == t {
			return Decision{Reason: ReasonSlotAlreadyTaken}
		}
	}

	return Decision{OK: true}
}
