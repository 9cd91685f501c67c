package timeconv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
)

func TestLocalToUTC(t *testing.T) {
	// June: New York observes EDT (UTC-4).
	got, err := LocalToUTC("2024-06-03", "08:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC), got)

	// January: EST (UTC-5). Same wall clock, different instant.
	got, err = LocalToUTC("2024-01-03", "08:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 3, 13, 0, 0, 0, time.UTC), got)

	// Seconds-bearing clock values are accepted.
	got, err = LocalToUTC("2024-06-03", "08:00:30", "UTC")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 3, 8, 0, 30, 0, time.UTC), got)
}

func TestLocalToUTCErrors(t *testing.T) {
	_, err := LocalToUTC("2024-06-03", "08:00", "Mars/Olympus_Mons")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeFormat)

	_, err = LocalToUTC("June 3rd", "08:00", "UTC")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeFormat)

	_, err = LocalToUTC("2024-06-03", "8am", "UTC")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeFormat)
}

func TestUTCToLocalRoundTrip(t *testing.T) {
	instant, err := LocalToUTC("2024-06-03", "08:00", "America/New_York")
	require.NoError(t, err)

	date, clock, err := UTCToLocal(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", date)
	assert.Equal(t, "08:00", clock)
}

func TestUTCToLocalCrossesDateLine(t *testing.T) {
	// 02:00 UTC on the 4th is still the evening of the 3rd in New York.
	instant := time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC)
	date, clock, err := UTCToLocal(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", date)
	assert.Equal(t, "22:00", clock)
}

func TestElapsedHours(t *testing.T) {
	hours, err := ElapsedHours("08:00", "16:00")
	require.NoError(t, err)
	assert.Equal(t, 8.0, hours)

	hours, err = ElapsedHours("08:00", "16:30")
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)

	// Overnight shift wraps across midnight.
	hours, err = ElapsedHours("22:00", "02:00")
	require.NoError(t, err)
	assert.Equal(t, 4.0, hours)

	hours, err = ElapsedHours("02:00", "22:00")
	require.NoError(t, err)
	assert.Equal(t, 20.0, hours)

	_, err = ElapsedHours("8 o'clock", "16:00")
	assert.ErrorIs(t, err, apperrors.ErrInvalidTimeFormat)
}

func TestElapsedHoursBetween(t *testing.T) {
	start := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, 8.0, ElapsedHoursBetween(start, end))

	// Inverted instants get the same +24h wrap as bare clock values.
	assert.Equal(t, 16.0, ElapsedHoursBetween(end, start))
}
