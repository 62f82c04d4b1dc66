package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ListAvailableSlotsInput struct {
	TenantID uint
	// ProfessionalID nil lists against the tenant's general hours and every
	// appointment of the day.
	ProfessionalID *uint
	Date           string
}

// ======================================================
// USE CASE
// ======================================================

type ListAvailableSlots struct {
	d Deps
}

func NewListAvailableSlots(d Deps) *ListAvailableSlots {
	return &ListAvailableSlots{d: d.withDefaults()}
}

// Execute returns the HH:MM starts still bookable on in.Date. The answer is
// advisory; CreateAppointment checks again when committing.
func (uc *ListAvailableSlots) Execute(
	ctx context.Context,
	in ListAvailableSlotsInput,
) ([]string, error) {

	started := time.Now()

	if _, err := timezone.ParseDate(in.Date); err != nil {
		return nil, domain.ErrInvalidDateOrTime
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

	past, cutoff := dayWindow(tenant, uc.d.Clock, in.Date)
	if past {
		return []string{}, nil
	}

	// generation is read before the store so a concurrent commit can only
	// make this entry stale under an already-abandoned generation
	gen := uc.d.Cache.Generation(ctx, tenant.ID)
	if cached, ok := uc.d.Cache.Get(ctx, tenant.ID, gen, in.ProfessionalID, in.Date); ok {
		out := cutString(cached, cutoff)
		uc.d.Metrics.ObserveAvailability(true, time.Since(started).Seconds())
		return out, nil
	}

	slots, err := freeSlots(ctx, uc.d.Repo, uc.d.Logger, domain.DayQuery{
		TenantID:       tenant.ID,
		ProfessionalID: in.ProfessionalID,
		Date:           in.Date,
	})
	if err != nil {
		return nil, err
	}
	uc.d.Cache.Set(ctx, tenant.ID, gen, in.ProfessionalID, in.Date, schedule.FormatSlots(slots))

	out := schedule.FormatSlots(applyCutoff(slots, cutoff))
	uc.d.Metrics.ObserveAvailability(false, time.Since(started).Seconds())
	return out, nil
}

func cutString(slots []string, cutoff schedule.Minute) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		m, err := schedule.ParseClock(s)
		if err != nil || m < cutoff {
			continue
		}
		out = append(out, s)
	}
	return out
}
