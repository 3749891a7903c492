package services

import (
	"context"
	"fmt"
	"strings"

	"attendanceclient/internal/cache"
	"attendanceclient/internal/domain"
	"attendanceclient/internal/filter"
)

// EmployeeScreen lists registered employees. Search is applied locally to the cache.
type EmployeeScreen struct {
	deps      Deps
	employees *cache.EntityCache[domain.Employee]
	view      *syncedView[[]domain.Employee]
}

// NewEmployeeScreen returns an unloaded employee list.
func NewEmployeeScreen(deps Deps, opts ...filter.Option) *EmployeeScreen {
	s := &EmployeeScreen{
		deps:      deps,
		employees: cache.New[domain.Employee](),
	}
	s.view = newSyncedView("employees", deps, filter.State{},
		func(ctx context.Context, _ filter.State) ([]domain.Employee, error) {
			return deps.Gateway.FetchEmployees(ctx)
		}, s.employees.Replace, opts...)
	return s
}

// Load fetches the employee list.
func (s *EmployeeScreen) Load(ctx context.Context) error {
	return s.view.Refresh(ctx)
}

// Employees returns the cached employees.
func (s *EmployeeScreen) Employees() []domain.Employee {
	return s.employees.Items()
}

// Version changes each time the list is replaced by a fetch.
func (s *EmployeeScreen) Version() uint64 {
	return s.employees.Version()
}

// LastError is the last fetch failure, nil once a fetch succeeds.
func (s *EmployeeScreen) LastError() error {
	return s.view.LastError()
}

// Search returns cached employees whose name, employee id, department or email
// contains query, case-insensitively. An empty query returns everyone.
func (s *EmployeeScreen) Search(query string) []domain.Employee {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.employees.Items()
	}
	return s.employees.Filter(func(e domain.Employee) bool {
		for _, field := range []string{e.Name, e.EmployeeID, e.Department, e.Email} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	})
}

// DeleteEmployeeKey is the in-flight key used for deleting employeeID.
func DeleteEmployeeKey(employeeID string) string {
	return "employee:" + employeeID + ":delete"
}

// DeleteEmployee asks for confirmation, deletes the employee remotely and reloads the
// list. The cached row stays until the reload replaces it.
func (s *EmployeeScreen) DeleteEmployee(ctx context.Context, employeeID string) (Outcome, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return OutcomeFailed, fmt.Errorf("%w: employee id is required", domain.ErrInvalidInput)
	}
	name := employeeID
	if e, ok := s.employees.Find(func(e domain.Employee) bool { return e.EmployeeID == employeeID }); ok {
		name = e.Name
	}
	return s.deps.Coordinator.Execute(ctx, Mutation{
		Action:         "delete employee",
		Key:            DeleteEmployeeKey(employeeID),
		Prompt:         fmt.Sprintf("Delete employee %s (%s)? This cannot be undone.", name, employeeID),
		SuccessMessage: "Employee deleted",
		Do: func(ctx context.Context) (domain.Ack, error) {
			return s.deps.Gateway.DeleteEmployee(ctx, employeeID)
		},
		Reload: s.view.reconcile,
	})
}

// Close cancels pending reloads and drops the cached employees.
func (s *EmployeeScreen) Close() {
	s.view.close(s.employees.Invalidate)
}
