package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to the target status and keeps concluded_at in step
// with it: set when entering completed, cleared on any move away from it.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	from := Status(ap.Status)
	if err := CanTransition(from, to); err != nil {
		return err
	}

	ap.Status = string(to)
	if to == StatusCompleted {
		concluded := now
		ap.ConcludedAt = &concluded
		return nil
	}
	ap.ConcludedAt = nil
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCanceled, now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, now)
}

// Reschedule moves a non-terminal appointment to a new civil date/time.
// Availability of the target is the caller's concern.
func Reschedule(ap *models.Appointment, date, clock string) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}
	ap.Date = date
	ap.Time = clock
	return nil
}

// InitialStatus is pending for self-service bookings and confirmed when staff
// book on the client's behalf.
func InitialStatus(staffBooked bool) Status {
	if staffBooked {
		return StatusConfirmed
	}
	return StatusPending
}
