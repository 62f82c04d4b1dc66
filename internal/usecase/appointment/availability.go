package appointment

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// freeSlots runs config selection, slot generation and the busy filter for
// one day, without the "now" cut. Missing or unusable config is a closed day.
// repo may be bound to a transaction.
func freeSlots(
	ctx context.Context,
	repo domain.Repository,
	logger *zap.Logger,
	q domain.DayQuery,
) ([]schedule.Minute, error) {

	date, err := timezone.ParseDate(q.Date)
	if err != nil {
		return nil, domain.ErrInvalidDateOrTime
	}

	rows, err := repo.ListOperatingHours(ctx, q.TenantID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}

	row, ok := schedule.SelectConfig(rows, q.ProfessionalID)
	if !ok {
		return []schedule.Minute{}, nil
	}

	cfg, err := schedule.ParseConfig(row)
	if err != nil {
		logger.Warn("stored operating hours unusable, treating day as closed",
			zap.Uint("tenant_id", q.TenantID),
			zap.Uint("operating_hours_id", row.ID),
			zap.Error(err),
		)
		return []schedule.Minute{}, nil
	}
	if cfg.Closed {
		return []schedule.Minute{}, nil
	}

	aps, err := repo.ListActiveAppointmentsForDay(ctx, q)
	if err != nil {
		return nil, err
	}

	busy := schedule.BusyIntervals(aps, cfg.SlotDuration)
	return schedule.FilterAvailable(schedule.GenerateSlots(cfg), cfg.SlotDuration, busy, 0), nil
}

// dayWindow decides how "now" affects a date in the tenant's timezone: past
// dates offer nothing, today is cut at now plus the tenant's minimum advance,
// and future dates are not cut.
func dayWindow(tenant *models.Tenant, clock timezone.Clock, date string) (past bool, cutoff schedule.Minute) {
	today, nowMinute := timezone.Today(clock, tenant.Timezone)
	switch {
	case date < today:
		return true, 0
	case date == today:
		advance := tenant.MinAdvanceMinutes
		if advance < 0 {
			advance = 0
		}
		return false, schedule.Minute(nowMinute + advance)
	default:
		return false, 0
	}
}

func applyCutoff(slots []schedule.Minute, cutoff schedule.Minute) []schedule.Minute {
	return schedule.FilterAvailable(slots, 0, nil, cutoff)
}

// bookable reports whether clock is offered on date right now.
func bookable(
	ctx context.Context,
	repo domain.Repository,
	logger *zap.Logger,
	tenant *models.Tenant,
	clock timezone.Clock,
	q domain.DayQuery,
	at schedule.Minute,
	ignoreNow bool,
) (bool, error) {

	past, cutoff := dayWindow(tenant, clock, q.Date)
	if ignoreNow {
		past, cutoff = false, 0
	}
	if past {
		return false, nil
	}

	slots, err := freeSlots(ctx, repo, logger, q)
	if err != nil {
		return false, err
	}
	return schedule.Contains(applyCutoff(slots, cutoff), at), nil
}
