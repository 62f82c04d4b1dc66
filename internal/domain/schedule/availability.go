// Package schedule turns operating hours and committed appointments into
// bookable slots. Everything here is pure and safe to call concurrently.
package schedule

import (
	"sort"

	"github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Interval is a half-open civil time range [Start, End).
type Interval struct {
	Start Minute
	End   Minute
}

func Overlaps(aStart, aEnd, bStart, bEnd Minute) bool {
	return aStart < bEnd && aEnd > bStart
}

// GenerateSlots emits fixed-width slot starts from opening time while a whole
// slot still fits before closing. Slots touching lunch are dropped, never
// shifted.
func GenerateSlots(cfg Config) []Minute {
	if cfg.Closed || cfg.SlotDuration <= 0 {
		return []Minute{}
	}

	slots := make([]Minute, 0, int(cfg.End-cfg.Start)/cfg.SlotDuration)
	for cur := cfg.Start; cur.Add(cfg.SlotDuration) <= cfg.End; cur = cur.Add(cfg.SlotDuration) {
		if cfg.HasLunch && Overlaps(cur, cur.Add(cfg.SlotDuration), cfg.LunchStart, cfg.LunchEnd) {
			continue
		}
		slots = append(slots, cur)
	}
	return slots
}

// BusyIntervals maps blocking appointments to [time, time+slotDuration).
// Canceled rows and quick sales never block; unparsable times are skipped.
func BusyIntervals(appointments []models.Appointment, slotDuration int) []Interval {
	out := make([]Interval, 0, len(appointments))
	for _, ap := range appointments {
		if !Blocks(ap) {
			continue
		}
		start, err := ParseClock(ap.Time)
		if err != nil {
			continue
		}
		out = append(out, Interval{Start: start, End: start.Add(slotDuration)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Blocks reports whether ap occupies its slot.
func Blocks(ap models.Appointment) bool {
	return appointment.IsActive(appointment.Status(ap.Status)) && ap.Origin != models.OriginQuickSale
}

// FilterAvailable keeps slots that overlap no busy interval and start at or
// after cutoff. A zero cutoff disables the time-of-day cut.
func FilterAvailable(slots []Minute, slotDuration int, busy []Interval, cutoff Minute) []Minute {
	out := make([]Minute, 0, len(slots))
	for _, s := range slots {
		if s < cutoff {
			continue
		}
		end := s.Add(slotDuration)
		free := true
		for _, b := range busy {
			if Overlaps(s, end, b.Start, b.End) {
				free = false
				break
			}
		}
		if free {
			out = append(out, s)
		}
	}
	return out
}

func Contains(slots []Minute, m Minute) bool {
	for _, s := range slots {
		if s == m {
			return true
		}
	}
	return false
}

func FormatSlots(slots []Minute) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

// Available runs the whole pipeline for one day.
func Available(cfg Config, appointments []models.Appointment, cutoff Minute) []Minute {
	slots := GenerateSlots(cfg)
	busy := BusyIntervals(appointments, cfg.SlotDuration)
	return FilterAvailable(slots, cfg.SlotDuration, busy, cutoff)
}
