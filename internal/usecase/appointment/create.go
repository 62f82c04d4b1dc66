package appointment

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/client"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID       uint
	ProfessionalID *uint
	ServiceID      uint

	ClientName  string
	ClientPhone string
	ClientEmail string
	// Identity is the authenticated customer subject, empty when anonymous.
	Identity string

	Date  string
	Time  string
	Notes string

	// StaffBooked marks bookings made from the dashboard: they start
	// confirmed instead of pending.
	StaffBooked bool
	// Origin defaults to site for customers and manual for staff.
	// manual_history registers past appointments and skips the "now" cut.
	Origin      string
	ActorUserID *uint

	IdempotencyKey string
}

// quick sales have their own use case and never take a slot
var bookingOrigins = map[string]bool{
	models.OriginSite:          true,
	models.OriginManual:        true,
	models.OriginManualHistory: true,
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	d        Deps
	resolver *client.Resolver
}

func NewCreateAppointment(d Deps) *CreateAppointment {
	d = d.withDefaults()
	return &CreateAppointment{
		d:        d,
		resolver: client.NewResolver(d.Logger),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (_ *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.create")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("tenant.id", int64(in.TenantID)),
		attribute.String("appointment.date", in.Date),
		attribute.String("appointment.time", in.Time),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.Identity = strings.TrimSpace(in.Identity)
	if in.ClientName == "" {
		return nil, domain.ErrClientNameRequired
	}
	if !in.StaffBooked && in.Identity == "" && client.NormalizePhone(in.ClientPhone) == "" {
		return nil, domain.ErrClientPhoneMissing
	}
	if _, err := timezone.ParseDate(in.Date); err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}
	at, err := schedule.ParseClock(in.Time)
	if err != nil || at >= schedule.MinutesPerDay {
		return nil, domain.ErrInvalidDateOrTime
	}
	in.Time = at.String()

	origin := in.Origin
	if origin == "" {
		origin = models.OriginSite
		if in.StaffBooked {
			origin = models.OriginManual
		}
	}
	if !bookingOrigins[origin] {
		return nil, domain.ErrInvalidOrigin
	}

	// --------------------------------------------------
	// Tenant / professional / service
	// --------------------------------------------------
	tenant, err := uc.d.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	if in.ProfessionalID != nil {
		if _, err := uc.d.Repo.GetProfessional(ctx, tenant.ID, *in.ProfessionalID); err != nil {
			return nil, err
		}
	}

	service, err := uc.d.Repo.GetCatalogItem(ctx, tenant.ID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, domain.ErrServiceNotFound
	}

	// --------------------------------------------------
	// Idempotency
	// --------------------------------------------------
	res, replayID, err := uc.d.Idempotency.Begin(ctx, tenant.ID, in.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if replayID != 0 {
		uc.d.Logger.Info("idempotent replay", zap.Uint("appointment_id", replayID))
		return uc.d.Repo.GetAppointment(ctx, tenant.ID, replayID)
	}
	defer func() {
		if err != nil {
			uc.d.Idempotency.Release(ctx, res)
		}
	}()

	// --------------------------------------------------
	// Commit: re-check, resolve client, insert
	// --------------------------------------------------
	ap := &models.Appointment{
		TenantID:       tenant.ID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      &service.ID,
		Date:           in.Date,
		Time:           in.Time,
		Status:         string(domain.InitialStatus(in.StaffBooked)),
		Origin:         origin,
		Notes:          strings.TrimSpace(in.Notes),
	}

	stage := "unique_index"
	err = uc.d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := bookable(ctx, tx, uc.d.Logger, tenant, uc.d.Clock, domain.DayQuery{
			TenantID:       tenant.ID,
			ProfessionalID: in.ProfessionalID,
			Date:           in.Date,
		}, at, origin == models.OriginManualHistory)
		if err != nil {
			return err
		}
		if !ok {
			stage = "recheck"
			return domain.ErrSlotNoLongerAvailable
		}

		c, err := uc.resolver.Resolve(ctx, tx, client.Input{
			TenantID:    tenant.ID,
			OwnerUserID: tenant.OwnerUserID,
			Identity:    in.Identity,
			Name:        in.ClientName,
			Phone:       in.ClientPhone,
			Email:       in.ClientEmail,
		})
		if err != nil {
			return err
		}
		ap.ClientID = c.ID

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotNoLongerAvailable) {
			uc.d.Metrics.ObserveConflict(stage)
			uc.d.Logger.Info("booking lost slot race",
				zap.Uint("tenant_id", tenant.ID),
				zap.String("date", in.Date),
				zap.String("time", in.Time),
				zap.String("stage", stage),
			)
		}
		return nil, err
	}

	// --------------------------------------------------
	// After commit
	// --------------------------------------------------
	uc.d.Idempotency.Complete(ctx, res, ap.ID)
	uc.d.Cache.Invalidate(ctx, tenant.ID)
	uc.d.Metrics.ObserveCreated(origin)
	span.SetAttributes(attribute.Int64("appointment.id", int64(ap.ID)))

	uc.d.Audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   in.ActorUserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"origin": origin, "client_id": ap.ClientID},
	})

	ap.Service = service
	return ap, nil
}
