package appointment

import (
	"context"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type AttachLineItemsInput struct {
	TenantID      uint
	AppointmentID uint
	Items         []domain.LineItemInput
	ActorUserID   *uint
}

type AttachLineItems struct {
	d Deps
}

func NewAttachLineItems(d Deps) *AttachLineItems {
	return &AttachLineItems{d: d.withDefaults()}
}

// Execute replaces the appointment's consumption with in.Items. A completed
// appointment is re-settled to base price plus the new lines in the same
// transaction, unless staff fixed its price at completion.
func (uc *AttachLineItems) Execute(
	ctx context.Context,
	in AttachLineItemsInput,
) (*models.Appointment, error) {

	items, err := buildItems(ctx, uc.d.Repo, in.TenantID, in.AppointmentID, in.Items)
	if err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err = uc.d.Repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointmentForUpdate(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return err
		}
		if domain.Status(ap.Status) == domain.StatusCanceled {
			return domain.ErrAlreadyTerminal
		}

		if err := tx.ReplaceLineItems(ctx, ap.ID, items); err != nil {
			return err
		}

		if domain.Status(ap.Status) == domain.StatusCompleted && !ap.PriceOverride {
			total := domain.SettledTotal(domain.BasePrice(ap.Service), items)
			ap.Price = &total
			return tx.UpdateAppointment(ctx, ap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ap.LineItems = items
	uc.d.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActorUserID,
		Action:   "appointment_items_replaced",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"lines": len(items), "total": domain.LineItemsTotal(items)},
	})
	return ap, nil
}
