package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/dto"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID uint,
	professionalID *uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	if _, err := timezone.ParseDate(date); err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		tenantID,
		professionalID,
		date,
		date,
	)
	if err != nil {
		return nil, err
	}

	return toListDTO(appointments), nil
}

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		item := dto.AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.Date,
			Time:        ap.Time,
			Status:      ap.Status,
			Origin:      ap.Origin,
			Price:       ap.Price,
			ConcludedAt: ap.ConcludedAt,
			ClientName:  ap.Client.Name,
			ClientPhone: ap.Client.Phone,
		}
		if ap.Service != nil {
			item.ServiceName = ap.Service.Name
		}
		if ap.Professional != nil {
			item.ProfessionalName = ap.Professional.Name
		}
		out = append(out, item)
	}
	return out
}
