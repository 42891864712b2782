package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(1, 2024))
	assert.Equal(t, 29, DaysInMonth(2, 2024))
	assert.Equal(t, 28, DaysInMonth(2, 2023))
	assert.Equal(t, 30, DaysInMonth(6, 2024))
	assert.Equal(t, 31, DaysInMonth(12, 2024))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2, 2024)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestInclusiveDays(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, 1, InclusiveDays(d(5), d(5)))
	assert.Equal(t, 3, InclusiveDays(d(1), d(3)))
	assert.Equal(t, 31, InclusiveDays(d(1), d(31)))
}

func TestDateOf(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	late := time.Date(2024, 5, 10, 23, 30, 0, 0, jakarta)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), DateOf(late))
}

func TestClock(t *testing.T) {
	c, err := ParseClock("18:00")
	require.NoError(t, err)
	assert.Equal(t, "18:00", c.String())

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	got := c.On(day, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC), got)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}
