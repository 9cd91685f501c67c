// Package timeconv converts between client-local wall-clock times and
// canonical UTC instants, and computes elapsed-hours arithmetic.
//
// All functions are pure. Malformed input yields an error wrapping
// apperrors.ErrInvalidTimeFormat; nothing here panics or silently passes bad
// data through.
package timeconv

import (
	"fmt"
	"time"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
)

const (
	// DateLayout is the calendar-date shape used across the scheduling domain.
	DateLayout = "2006-01-02"

	clockLayout        = "15:04"
	clockLayoutSeconds = "15:04:05"
)

// ParseClock parses a bare HH:MM or HH:MM:SS wall-clock value.
func ParseClock(clock string) (time.Time, error) {
	if t, err := time.Parse(clockLayout, clock); err == nil {
		return t, nil
	}
	t, err := time.Parse(clockLayoutSeconds, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad clock value %q", apperrors.ErrInvalidTimeFormat, clock)
	}
	return t, nil
}

// LocalToUTC interprets clock as wall-clock time in the given IANA zone on the
// given calendar date and returns the equivalent UTC instant. The zone's DST
// offset for that specific date is applied, not a fixed offset.
func LocalToUTC(date, clock, ianaZone string) (time.Time, error) {
	loc, err := time.LoadLocation(ianaZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unknown timezone %q", apperrors.ErrInvalidTimeFormat, ianaZone)
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", apperrors.ErrInvalidTimeFormat, date)
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc)
	return local.UTC(), nil
}

// UTCToLocal is the inverse of LocalToUTC: it renders a UTC instant as the
// (date, HH:MM) pair a wall clock in the given zone would have shown.
func UTCToLocal(instant time.Time, ianaZone string) (string, string, error) {
	loc, err := time.LoadLocation(ianaZone)
	if err != nil {
		return "", "", fmt.Errorf("%w: unknown timezone %q", apperrors.ErrInvalidTimeFormat, ianaZone)
	}
	local := instant.In(loc)
	return local.Format(DateLayout), local.Format(clockLayout), nil
}

// ElapsedHours returns the hours between two bare HH:MM wall-clock values.
// When end precedes start the interval is interpreted as crossing midnight and
// 24 hours are added. That wraparound is a deliberate business rule for
// overnight shifts, not a bug.
func ElapsedHours(startClock, endClock string) (float64, error) {
	start, err := ParseClock(startClock)
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(endClock)
	if err != nil {
		return 0, err
	}
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours += 24
	}
	return hours, nil
}

// ElapsedHoursBetween returns the hours between two absolute instants as a
// plain subtraction. A negative result gets the same +24h midnight wrap as
// ElapsedHours. That is a quirk inherited for compatibility: for instants the
// wrap can mask genuinely inverted inputs, so callers that can reject
// end-before-start should do so before calling.
func ElapsedHoursBetween(start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours += 24
	}
	return hours
}
