package schedule

import (
	"errors"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

var (
	ErrInvalidDayOfWeek    = errors.New("schedule: day_of_week must be 0..6")
	ErrInvalidRange        = errors.New("schedule: start_time must be before end_time")
	ErrInvalidLunch        = errors.New("schedule: lunch must have both bounds, ordered, inside opening hours")
	ErrInvalidSlotDuration = errors.New("schedule: slot_duration must be positive")
	ErrDuplicateDay        = errors.New("schedule: day_of_week repeated in one scope")
)

const DefaultSlotDuration = 30

// Config is one day's parsed operating hours.
type Config struct {
	Start        Minute
	End          Minute
	HasLunch     bool
	LunchStart   Minute
	LunchEnd     Minute
	SlotDuration int
	Closed       bool
}

// SelectConfig picks the row that governs a day: the professional's own row
// when one exists, otherwise the tenant's general row. No row means closed.
func SelectConfig(rows []models.OperatingHours, professionalID *uint) (models.OperatingHours, bool) {
	var general *models.OperatingHours
	for i := range rows {
		row := &rows[i]
		if row.ProfessionalID == nil {
			if general == nil {
				general = row
			}
			continue
		}
		if professionalID != nil && *row.ProfessionalID == *professionalID {
			return *row, true
		}
	}
	if general != nil {
		return *general, true
	}
	return models.OperatingHours{}, false
}

// ParseConfig validates a stored row. Closed rows skip time validation.
func ParseConfig(row models.OperatingHours) (Config, error) {
	if row.DayOfWeek < 0 || row.DayOfWeek > 6 {
		return Config{}, ErrInvalidDayOfWeek
	}
	if row.IsClosed {
		return Config{Closed: true, SlotDuration: row.SlotDuration}, nil
	}

	cfg := Config{SlotDuration: row.SlotDuration}
	if cfg.SlotDuration <= 0 {
		return Config{}, ErrInvalidSlotDuration
	}

	var err error
	if cfg.Start, err = ParseClock(row.StartTime); err != nil {
		return Config{}, err
	}
	if cfg.End, err = ParseClock(row.EndTime); err != nil {
		return Config{}, err
	}
	if cfg.Start >= cfg.End {
		return Config{}, ErrInvalidRange
	}

	switch {
	case row.LunchStart == "" && row.LunchEnd == "":
	case row.LunchStart == "" || row.LunchEnd == "":
		return Config{}, ErrInvalidLunch
	default:
		if cfg.LunchStart, err = ParseClock(row.LunchStart); err != nil {
			return Config{}, err
		}
		if cfg.LunchEnd, err = ParseClock(row.LunchEnd); err != nil {
			return Config{}, err
		}
		if cfg.LunchStart >= cfg.LunchEnd || cfg.LunchStart < cfg.Start || cfg.LunchEnd > cfg.End {
			return Config{}, ErrInvalidLunch
		}
		cfg.HasLunch = true
	}

	return cfg, nil
}

// ValidateWeek checks a replacement set for one scope: every row parses and
// no day appears twice.
func ValidateWeek(rows []models.OperatingHours) error {
	seen := make(map[int]bool, len(rows))
	for _, row := range rows {
		if _, err := ParseConfig(row); err != nil {
			return err
		}
		if seen[row.DayOfWeek] {
			return ErrDuplicateDay
		}
		seen[row.DayOfWeek] = true
	}
	return nil
}
