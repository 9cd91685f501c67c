// Package scheduling holds the pure shift arithmetic shared by the scheduler,
// the claim engine and timesheet validation: the scheduled-hours ceiling for a
// shift and pay-week normalization.
package scheduling

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/utils/timeconv"
)

// ShiftWindow is the canonical internal shape of one shift's schedule: bare
// HH:MM wall-clock values, lunch fields empty when the shift has no lunch.
// Every historical field variant is normalized into this shape once, at the
// data-access boundary, so nothing downstream branches on shape.
type ShiftWindow struct {
	Start      string
	End        string
	LunchStart string
	LunchEnd   string
}

// RawShift tolerates the two historical representations of a shift's times:
// the current grouped UTC instants (DayStart/DayEnd) and the legacy
// DayStartTime/DayEndTime string fields, which may hold either full RFC3339
// timestamps or bare HH:MM values.
type RawShift struct {
	DayStart   *time.Time
	DayEnd     *time.Time
	LunchStart *time.Time
	LunchEnd   *time.Time

	DayStartTime   string
	DayEndTime     string
	LunchStartTime string
	LunchEndTime   string
}

// clockOf renders one time field as HH:MM, preferring the current instant
// shape over the legacy string shape.
func clockOf(instant *time.Time, legacy string) (string, error) {
	if instant != nil {
		return instant.UTC().Format("15:04"), nil
	}
	if legacy == "" {
		return "", nil
	}
	if ts, err := time.Parse(time.RFC3339, legacy); err == nil {
		return ts.UTC().Format("15:04"), nil
	}
	if _, err := timeconv.ParseClock(legacy); err != nil {
		return "", err
	}
	return legacy[:5], nil
}

// Normalize converts either historical shape into the canonical ShiftWindow.
func Normalize(raw RawShift) (ShiftWindow, error) {
	var w ShiftWindow
	var err error
	if w.Start, err = clockOf(raw.DayStart, raw.DayStartTime); err != nil {
		return ShiftWindow{}, err
	}
	if w.End, err = clockOf(raw.DayEnd, raw.DayEndTime); err != nil {
		return ShiftWindow{}, err
	}
	if w.LunchStart, err = clockOf(raw.LunchStart, raw.LunchStartTime); err != nil {
		return ShiftWindow{}, err
	}
	if w.LunchEnd, err = clockOf(raw.LunchEnd, raw.LunchEndTime); err != nil {
		return ShiftWindow{}, err
	}
	if w.Start == "" || w.End == "" {
		return ShiftWindow{}, fmt.Errorf("%w: shift is missing start or end time", apperrors.ErrInvalidTimeFormat)
	}
	return w, nil
}

// WindowOf builds the canonical window for a shift stored in the current
// grouped-instant shape.
func WindowOf(dayStart, dayEnd time.Time, lunchStart, lunchEnd *time.Time) ShiftWindow {
	w := ShiftWindow{
		Start: dayStart.UTC().Format("15:04"),
		End:   dayEnd.UTC().Format("15:04"),
	}
	if lunchStart != nil && lunchEnd != nil {
		w.LunchStart = lunchStart.UTC().Format("15:04")
		w.LunchEnd = lunchEnd.UTC().Format("15:04")
	}
	return w
}

// CalculateMaxHours returns the scheduled hours ceiling for a shift: the day
// span minus the lunch span, rounded to 2 decimals. This is the single source
// of truth wherever the scheduled ceiling is needed; applying it to the same
// shift through either field shape yields the identical value.
func CalculateMaxHours(w ShiftWindow) (decimal.Decimal, error) {
	gross, err := timeconv.ElapsedHours(w.Start, w.End)
	if err != nil {
		return decimal.Zero, err
	}
	lunch := 0.0
	if w.LunchStart != "" && w.LunchEnd != "" {
		lunch, err = timeconv.ElapsedHours(w.LunchStart, w.LunchEnd)
		if err != nil {
			return decimal.Zero, err
		}
	}
	return decimal.NewFromFloat(gross - lunch).Round(2), nil
}

// WeekBegin returns the Sunday that begins the pay week containing the given
// calendar date, at midnight UTC. This is the single source of truth for the
// week a timesheet belongs to.
func WeekBegin(date string) (time.Time, error) {
	day, err := time.Parse(timeconv.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", apperrors.ErrInvalidTimeFormat, date)
	}
	return WeekBeginOf(day), nil
}

// WeekBeginOf normalizes an instant to its week's Sunday at midnight UTC.
func WeekBeginOf(t time.Time) time.Time {
	t = t.UTC()
	start := t.AddDate(0, 0, -int(t.Weekday()))
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
