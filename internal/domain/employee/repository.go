package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	// ListActive returns active users with the employee role, the payroll population.
	ListActive(ctx context.Context) ([]Employee, error)
	ListAdminIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, e Employee) (Employee, error)
}
