package appointment

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type SetAppointmentStatusInput struct {
	TenantID      uint
	AppointmentID uint
	Status        string

	// SettledPrice overrides the computed total when completing.
	SettledPrice *float64
	// LineItems, when non-nil, replaces the consumption set. An empty slice
	// clears it.
	LineItems []domain.LineItemInput

	ActorUserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type SetAppointmentStatus struct {
	d Deps
}

func NewSetAppointmentStatus(d Deps) *SetAppointmentStatus {
	return &SetAppointmentStatus{d: d.withDefaults()}
}

// Execute applies a status transition. The status change and price commit
// together; the line-item replacement runs afterwards and only logs on
// failure, since the total can be recomputed from the items later.
func (uc *SetAppointmentStatus) Execute(
	ctx context.Context,
	in SetAppointmentStatusInput,
) (_ *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.set_status")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("appointment.id", int64(in.AppointmentID)),
		attribute.String("appointment.status.to", in.Status),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.SettledPrice != nil && *in.SettledPrice < 0 {
		return nil, domain.ErrNegativePrice
	}

	tenant, err := uc.d.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Price the consumption before touching anything
	// --------------------------------------------------
	var items []models.AppointmentLineItem
	if in.LineItems != nil {
		items, err = buildItems(ctx, uc.d.Repo, tenant.ID, in.AppointmentID, in.LineItems)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Status + price
	// --------------------------------------------------
	now := timezone.NowIn(uc.d.Clock, tenant.Timezone)
	var (
		ap   *models.Appointment
		from string
	)
	err = uc.d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, tenant.ID, in.AppointmentID)
		if err != nil {
			return err
		}
		from = ap.Status

		if err := domain.Transition(ap, to, now); err != nil {
			return err
		}

		if to == domain.StatusCompleted {
			switch {
			case in.SettledPrice != nil:
				price := *in.SettledPrice
				ap.Price = &price
				ap.PriceOverride = true
			case in.LineItems != nil:
				total := domain.SettledTotal(domain.BasePrice(ap.Service), items)
				ap.Price = &total
				ap.PriceOverride = false
			case domain.Status(from) == domain.StatusCompleted && ap.Price != nil:
				// already settled; nothing new to price
			default:
				existing, err := tx.ListLineItems(ctx, ap.ID)
				if err != nil {
					return err
				}
				total := domain.SettledTotal(domain.BasePrice(ap.Service), existing)
				ap.Price = &total
				ap.PriceOverride = false
			}
		}

		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("appointment.status.from", from))
	uc.d.Metrics.ObserveTransition(from, string(to))
	uc.d.Cache.Invalidate(ctx, tenant.ID)

	// --------------------------------------------------
	// Ledger (soft-fail)
	// --------------------------------------------------
	if in.LineItems != nil {
		if lerr := uc.d.Repo.ReplaceLineItems(ctx, ap.ID, items); lerr != nil {
			uc.d.Logger.Warn("line items not saved after status change",
				zap.Uint("appointment_id", ap.ID),
				zap.String("status", string(to)),
				zap.Error(lerr),
			)
		} else {
			ap.LineItems = items
		}
	}

	uc.d.Audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   in.ActorUserID,
		Action:   "appointment_" + string(to),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"from": from, "to": string(to), "price": ap.Price},
	})

	return ap, nil
}

// buildItems snapshots catalog prices for the requested lines.
func buildItems(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	appointmentID uint,
	inputs []domain.LineItemInput,
) ([]models.AppointmentLineItem, error) {

	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.CatalogItemID)
	}
	catalog, err := repo.ListCatalogItems(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	return domain.BuildLineItems(appointmentID, inputs, catalog)
}
