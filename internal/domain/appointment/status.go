package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusInService Status = "em_atendimento"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusInService, StatusCompleted, StatusCanceled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// IsActive reports whether an appointment in this status blocks its slot.
func IsActive(s Status) bool {
	return s != StatusCanceled
}

// IsTerminal reports whether scheduling changes are closed for s.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCanceled
}

// ===============================
// Transitions
// ===============================

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusInService, StatusCompleted, StatusCanceled},
	StatusConfirmed: {StatusPending, StatusInService, StatusCompleted, StatusCanceled},
	StatusInService: {StatusConfirmed, StatusCompleted, StatusCanceled},
	// revert from completed reopens the appointment
	StatusCompleted: {StatusPending, StatusConfirmed},
	StatusCanceled:  {},
}

// CanTransition validates from -> to. Staying in the same status is allowed
// (completed -> completed with a price or new items re-settles).
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrInvalidTransition
}

// CanReschedule rejects completed and canceled appointments.
func CanReschedule(current Status) error {
	if IsTerminal(current) {
		return ErrAlreadyTerminal
	}
	return nil
}
