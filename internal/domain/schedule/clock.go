package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClock = errors.New("schedule: invalid HH:MM clock value")

// Minute is a civil time of day expressed as minutes since midnight.
type Minute int

const MinutesPerDay Minute = 24 * 60

func ParseClock(s string) (Minute, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, ErrInvalidClock
	}
	hh, err := strconv.Atoi(h)
	if err != nil || hh < 0 || hh > 24 {
		return 0, ErrInvalidClock
	}
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 0 || mm > 59 {
		return 0, ErrInvalidClock
	}
	v := Minute(hh*60 + mm)
	// 24:00 is accepted as an end-of-day closing time only.
	if v > MinutesPerDay {
		return 0, ErrInvalidClock
	}
	return v, nil
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m Minute) Add(minutes int) Minute {
	return m + Minute(minutes)
}
