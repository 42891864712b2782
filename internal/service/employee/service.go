package employee

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/validator"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	audit        audit.Recorder
	clock        clockwork.Clock
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, recorder audit.Recorder, clock clockwork.Clock) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		audit:        recorder,
		clock:        clock,
	}
}

// Create onboards an employee with the default leave grant.
func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest, actorID string) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	role := employee.RoleEmployee
	if req.Role != "" {
		role = employee.Role(req.Role)
	}

	joinDate := calendar.DateOf(s.clock.Now())
	if req.JoinDate != "" {
		joinDate, _ = validator.IsValidDate(req.JoinDate)
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         role,
		BaseSalary:   req.BaseSalary,
		LeaveBalance: employee.DefaultLeaveBalance(),
		IsActive:     true,
		JoinDate:     joinDate,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	resp := employee.ToResponse(created)
	s.audit.Record(ctx, audit.User(actorID), audit.ActionUserCreated, audit.EntityUser, created.ID, audit.Changes{After: resp})

	return resp, nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(e), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.ToResponse(e))
	}
	return resp, nil
}

// Update changes name, base salary and active flag. Leave balances are only
// ever moved by leave approval.
func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest, actorID string) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	before := employee.ToResponse(current)

	next := current
	if req.Name != nil {
		next.Name = strings.TrimSpace(*req.Name)
	}
	if req.BaseSalary != nil {
		next.BaseSalary = *req.BaseSalary
	}
	if req.IsActive != nil {
		next.IsActive = *req.IsActive
	}

	updated, err := s.employeeRepo.Update(ctx, next)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	after := employee.ToResponse(updated)
	s.audit.Record(ctx, audit.User(actorID), audit.ActionUserUpdated, audit.EntityUser, updated.ID, audit.Changes{Before: before, After: after})

	return after, nil
}
