package appointment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type RescheduleAppointmentInput struct {
	TenantID      uint
	AppointmentID uint
	Date          string
	Time          string
	ActorUserID   *uint
}

type RescheduleAppointment struct {
	d Deps
}

func NewRescheduleAppointment(d Deps) *RescheduleAppointment {
	return &RescheduleAppointment{d: d.withDefaults()}
}

// Execute moves the appointment in place after recomputing availability for
// the target day with the appointment itself left out of the busy set.
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	if _, err := timezone.ParseDate(in.Date); err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}
	at, err := schedule.ParseClock(in.Time)
	if err != nil || at >= schedule.MinutesPerDay {
		return nil, domain.ErrInvalidDateOrTime
	}

	tenant, err := uc.d.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	var (
		ap       *models.Appointment
		fromDate string
		fromTime string
	)
	err = uc.d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, tenant.ID, in.AppointmentID)
		if err != nil {
			return err
		}
		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}
		fromDate, fromTime = ap.Date, ap.Time

		ok, err := bookable(ctx, tx, uc.d.Logger, tenant, uc.d.Clock, domain.DayQuery{
			TenantID:       tenant.ID,
			ProfessionalID: ap.ProfessionalID,
			Date:           in.Date,
			ExcludeID:      ap.ID,
		}, at, false)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrSlotNoLongerAvailable
		}

		if err := domain.Reschedule(ap, in.Date, at.String()); err != nil {
			return err
		}
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotNoLongerAvailable) {
			uc.d.Metrics.ObserveConflict("reschedule")
		}
		return nil, err
	}

	uc.d.Cache.Invalidate(ctx, tenant.ID)
	uc.d.Logger.Info("appointment rescheduled",
		zap.Uint("appointment_id", ap.ID),
		zap.String("from", fromDate+" "+fromTime),
		zap.String("to", ap.Date+" "+ap.Time),
	)
	uc.d.Audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   in.ActorUserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{
			"from_date": fromDate, "from_time": fromTime,
			"to_date": ap.Date, "to_time": ap.Time,
		},
	})

	return ap, nil
}
