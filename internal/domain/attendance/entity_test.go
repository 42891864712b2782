package attendance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []Attendance{
		{Status: StatusPresent},
		{Status: StatusPresent},
		{Status: StatusLate},
		{Status: StatusHalfDay},
		{Status: StatusHalfDay},
		{Status: StatusHalfDay},
		{Status: StatusAbsent},
	}

	s := Summarize(records)

	assert.Equal(t, 3, s.PresentCount)
	assert.Equal(t, 1, s.LateCount)
	assert.Equal(t, 3, s.HalfDayCount)
	assert.Equal(t, 1, s.AbsentCount)
	assert.True(t, decimal.RequireFromString("4.5").Equal(s.DaysPresent), "got %s", s.DaysPresent)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.PresentCount)
	assert.True(t, s.DaysPresent.IsZero())
}

func TestMarkAttendanceRequest_Validate(t *testing.T) {
	valid := MarkAttendanceRequest{
		EmployeeID: "123e4567-e89b-12d3-a456-426614174000",
		Date:       "2024-03-01",
		Status:     "half-day",
	}
	assert.NoError(t, valid.Validate())

	invalid := MarkAttendanceRequest{EmployeeID: "nope", Date: "03/01/2024", Status: "sleeping"}
	err := invalid.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "status")
}
