package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type CompleteAppointmentInput struct {
	TenantID      uint
	AppointmentID uint
	SettledPrice  *float64
	LineItems     []domain.LineItemInput
	ActorUserID   *uint
}

// CompleteAppointment settles an appointment: completed status,
// concluded_at stamped, price and consumption recorded.
type CompleteAppointment struct {
	status *SetAppointmentStatus
}

func NewCompleteAppointment(d Deps) *CompleteAppointment {
	return &CompleteAppointment{status: NewSetAppointmentStatus(d)}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	in CompleteAppointmentInput,
) (*models.Appointment, error) {

	return uc.status.Execute(ctx, SetAppointmentStatusInput{
		TenantID:      in.TenantID,
		AppointmentID: in.AppointmentID,
		Status:        string(domain.StatusCompleted),
		SettledPrice:  in.SettledPrice,
		LineItems:     in.LineItems,
		ActorUserID:   in.ActorUserID,
	})
}
