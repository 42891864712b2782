package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	d := func(s string) time.Time {
		v, _ := time.Parse("2006-01-02", s)
		return v
	}

	assert.Equal(t, 1, DaysBetween(d("2024-03-10"), d("2024-03-10")))
	assert.Equal(t, 3, DaysBetween(d("2024-03-10"), d("2024-03-12")))
	assert.Equal(t, 5, DaysBetween(d("2024-02-27"), d("2024-03-02")))
}

func TestType_Available(t *testing.T) {
	b := employee.DefaultLeaveBalance()

	assert.Equal(t, 12, TypeCasual.Available(b))
	assert.Equal(t, 10, TypeSick.Available(b))
	assert.Equal(t, 15, TypePaid.Available(b))
	assert.Equal(t, 0, Type("unpaid").Available(b))
}

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	req := CreateLeaveRequestRequest{
		LeaveType: "casual",
		StartDate: "2024-03-12",
		EndDate:   "2024-03-10",
		Reason:    "family",
	}
	err := req.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "end_date must not be before start_date")

	req.EndDate = "2024-03-14"
	assert.NoError(t, req.Validate())
}

func TestReviewLeaveRequest_Validate(t *testing.T) {
	req := ReviewLeaveRequest{ID: "x", Action: "maybe"}
	assert.Error(t, req.Validate())

	req.Action = "reject"
	assert.NoError(t, req.Validate())
}
