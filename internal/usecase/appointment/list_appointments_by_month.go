package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/dto"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	tenantID uint,
	professionalID *uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidDateOrTime
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		tenantID,
		professionalID,
		first.Format(timezone.DateLayout),
		last.Format(timezone.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}
