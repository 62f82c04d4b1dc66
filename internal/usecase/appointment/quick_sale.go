package appointment

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/client"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type QuickSaleInput struct {
	TenantID       uint
	ProfessionalID *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Items       []domain.LineItemInput
	Notes       string
	ActorUserID *uint
}

// QuickSale records a walk-in sale with no prior booking. It lands as an
// already completed appointment stamped at tenant-local now and never
// occupies a slot.
type QuickSale struct {
	d        Deps
	resolver *client.Resolver
}

func NewQuickSale(d Deps) *QuickSale {
	d = d.withDefaults()
	return &QuickSale{d: d, resolver: client.NewResolver(d.Logger)}
}

func (uc *QuickSale) Execute(
	ctx context.Context,
	in QuickSaleInput,
) (*models.Appointment, error) {

	if len(in.Items) == 0 {
		return nil, domain.ErrNoLineItems
	}
	in.ClientName = strings.TrimSpace(in.ClientName)
	if in.ClientName == "" {
		return nil, domain.ErrClientNameRequired
	}

	tenant, err := uc.d.Repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if in.ProfessionalID != nil {
		if _, err := uc.d.Repo.GetProfessional(ctx, tenant.ID, *in.ProfessionalID); err != nil {
			return nil, err
		}
	}

	items, err := buildItems(ctx, uc.d.Repo, tenant.ID, 0, in.Items)
	if err != nil {
		return nil, err
	}
	total := domain.SettledTotal(nil, items)

	now := timezone.NowIn(uc.d.Clock, tenant.Timezone)
	ap := &models.Appointment{
		TenantID:       tenant.ID,
		ProfessionalID: in.ProfessionalID,
		Date:           now.Format(timezone.DateLayout),
		Time:           now.Format(timezone.TimeLayout),
		Status:         string(domain.StatusCompleted),
		Origin:         models.OriginQuickSale,
		Price:          &total,
		ConcludedAt:    &now,
		Notes:          strings.TrimSpace(in.Notes),
	}

	err = uc.d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		c, err := uc.resolver.Resolve(ctx, tx, client.Input{
			TenantID:    tenant.ID,
			OwnerUserID: tenant.OwnerUserID,
			Name:        in.ClientName,
			Phone:       in.ClientPhone,
			Email:       in.ClientEmail,
		})
		if err != nil {
			return err
		}
		ap.ClientID = c.ID

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return err
		}
		return tx.ReplaceLineItems(ctx, ap.ID, items)
	})
	if err != nil {
		return nil, err
	}

	ap.LineItems = items
	uc.d.Metrics.ObserveCreated(models.OriginQuickSale)
	uc.d.Logger.Debug("quick sale recorded",
		zap.Uint("appointment_id", ap.ID),
		zap.Float64("total", total),
	)
	uc.d.Audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   in.ActorUserID,
		Action:   "quick_sale_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"total": total},
	})
	return ap, nil
}
