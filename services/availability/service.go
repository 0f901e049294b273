// File: services/availability/service.go
package availability

import (
	"context"
	"fmt"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/services"
)

// Checker loads current store state and runs the conflict resolver over it.
// Every call re-reads the store; availability is never cached across
// requests, since a stale answer here is a double-booking.
type Checker struct {
	Schedules scheduleRepo.ScheduleRepository
}

// IsAvailable reports whether the doctor can take the (date, time) slot.
// The returned Decision carries the specific refusal reason; the error is
// reserved for storage failures.
func (c *Checker) IsAvailable(ctx context.Context, doctorID, date, t string) (Decision, error) {
	schedules, err := c.Schedules.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to load schedules for doctor %s: %w", doctorID, err)
	}

	booked, err := c.Schedules.SlotsByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to load booked slots for doctor %s: %w", doctorID, err)
	}

	return Resolve(schedules, booked, date, t), nil
}

// Err converts a refusing decision into the engine's typed error. Calling it
// on an OK decision returns nil.
func (d Decision) Err() error {
	switch d.Reason {
	case ReasonNone:
		return nil
	case ReasonNoScheduleDeclared:
		return services.NewUnavailable(services.CodeNoScheduleDeclared, "doctor has no schedule covering the requested date")
	case ReasonDoctorUnavailable:
		return services.NewUnavailable(services.CodeDoctorUnavailable, "doctor is on holiday or leave for the requested date")
	case ReasonOutsideWorkingHours:
		return services.NewUnavailable(services.CodeOutsideWorkingHours, "requested time is outside the doctor's working hours")
	case ReasonSlotAlreadyTaken:
		return services.NewUnavailable(services.CodeSlotAlreadyTaken, "requested slot is already booked")
	default:
		return services.NewUnavailable(services.CodeDoctorUnavailable, "slot is not available")
	}
}
