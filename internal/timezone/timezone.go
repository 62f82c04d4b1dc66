package timezone

import (
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock is the source of "now". Tests swap it for a fixed instant.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

func NowIn(clock Clock, tz string) time.Time {
	if clock == nil {
		clock = SystemClock{}
	}
	return clock.Now().In(Location(tz))
}

// Today returns the civil date (YYYY-MM-DD) and minute-of-day of now in tz.
func Today(clock Clock, tz string) (string, int) {
	now := NowIn(clock, tz)
	return now.Format(DateLayout), now.Hour()*60 + now.Minute()
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
