package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// CancelAppointment is the dashboard shortcut for a move to canceled.
type CancelAppointment struct {
	status *SetAppointmentStatus
}

func NewCancelAppointment(d Deps) *CancelAppointment {
	return &CancelAppointment{status: NewSetAppointmentStatus(d)}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorUserID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	return uc.status.Execute(ctx, SetAppointmentStatusInput{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		Status:        string(domain.StatusCanceled),
		ActorUserID:   &actorUserID,
	})
}
