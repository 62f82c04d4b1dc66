package appointment

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type ReplaceOperatingHoursInput struct {
	TenantID uint
	// ProfessionalID nil replaces the tenant's general week.
	ProfessionalID *uint
	Days           []models.OperatingHours
	ActorUserID    *uint
}

type ReplaceOperatingHours struct {
	d Deps
}

func NewReplaceOperatingHours(d Deps) *ReplaceOperatingHours {
	return &ReplaceOperatingHours{d: d.withDefaults()}
}

// Execute makes the scope's week exactly in.Days. Days left out become
// closed by absence.
func (uc *ReplaceOperatingHours) Execute(
	ctx context.Context,
	in ReplaceOperatingHoursInput,
) ([]models.OperatingHours, error) {

	if in.ProfessionalID != nil {
		if _, err := uc.d.Repo.GetProfessional(ctx, in.TenantID, *in.ProfessionalID); err != nil {
			return nil, err
		}
	}

	rows := make([]models.OperatingHours, len(in.Days))
	for i, day := range in.Days {
		if day.SlotDuration == 0 {
			day.SlotDuration = schedule.DefaultSlotDuration
		}
		rows[i] = day
	}
	if err := schedule.ValidateWeek(rows); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOperatingHours, err)
	}

	if err := uc.d.Repo.ReplaceOperatingHours(ctx, in.TenantID, in.ProfessionalID, rows); err != nil {
		return nil, err
	}

	uc.d.Cache.Invalidate(ctx, in.TenantID)
	uc.d.Audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.ActorUserID,
		Action:   "operating_hours_replaced",
		Entity:   "operating_hours",
		Metadata: map[string]any{"days": len(rows), "professional_id": in.ProfessionalID},
	})
	return rows, nil
}
