package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// LeaveBalance holds the remaining days per leave type.
type LeaveBalance struct {
	Casual int `json:"casual"`
	Sick   int `json:"sick"`
	Paid   int `json:"paid"`
}

// DefaultLeaveBalance is granted at onboarding.
func DefaultLeaveBalance() LeaveBalance {
	return LeaveBalance{Casual: 12, Sick: 10, Paid: 15}
}

type Employee struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	BaseSalary   decimal.Decimal
	LeaveBalance LeaveBalance
	IsActive     bool
	JoinDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}
