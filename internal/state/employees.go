package state

import (
	"context"
	"strings"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/schedule"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) Employees() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees.All()
}

// EmployeesVisibleTo lists the employees viewerID may see.
func (s *Store) EmployeesVisibleTo(viewerID int64) []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope := s.scope(viewerID)
	return s.employees.Filter(func(e employee.Employee) bool { return inScope(scope, e.ID) })
}

// ActiveEmployees excludes soft-deleted employees.
func (s *Store) ActiveEmployees() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees.Filter(func(e employee.Employee) bool { return e.Active() })
}

func (s *Store) GetEmployee(id int64) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees.FindByID(id)
	if !ok {
		return employee.Employee{}, internal.ErrEmployeeNotFound
	}
	return e, nil
}

// FindEmployeeByEmail matches case-insensitively.
func (s *Store) FindEmployeeByEmail(email string) (employee.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.TrimSpace(email)
	for _, e := range s.employees.All() {
		if strings.EqualFold(e.Email, email) {
			return e, true
		}
	}
	return employee.Employee{}, false
}

// AddEmployee creates an employee. Leave credits and the health-care
// allowance default to the organisation settings when not given.
func (s *Store) AddEmployee(ctx context.Context, dto employee.EmployeeDTO) (employee.Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err)
		return employee.Employee{}, err
	}

	hash := ""
	if dto.Password != "" {
		h, err := s.hasher.Hash(dto.Password)
		if err != nil {
			return employee.Employee{}, internal.NewInternalError("failed to hash password", err)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return employee.Employee{}, err
	}

	e := employee.Employee{
		ID:           s.ids.Next(),
		Role:         user.RoleEmployee,
		Status:       employee.StatusActive,
		PasswordHash: hash,
		LeaveCredits: s.settings.DefaultLeaveCredits,
	}
	e.HealthCareBenefit.Allowance = s.settings.HealthCareAllowance
	e.HealthCareBenefit.Balance = s.settings.HealthCareAllowance
	dto.Apply(&e)
	applyBenefitOverrides(&e, dto)

	all := s.employees.All()
	if err := employee.CheckUnique(all, e); err != nil {
		s.logger.Warn("employee rejected", "email", e.Email, "error", err)
		return employee.Employee{}, err
	}
	if err := employee.CheckSupervisor(all, e.ID, e.SupervisorID); err != nil {
		s.logger.Warn("employee rejected", "email", e.Email, "error", err)
		return employee.Employee{}, err
	}

	s.employees.Add(e)
	if err := s.persist(ctx, storage.KeyEmployees, s.employees.snapshot()); err != nil {
		return e, err
	}

	s.logger.Info("employee created", "employee_id", e.ID, "role", e.Role)
	return e, nil
}

// UpdateEmployee replaces the editable fields of employee id. An empty
// password keeps the current one.
func (s *Store) UpdateEmployee(ctx context.Context, id int64, dto employee.EmployeeDTO) (employee.Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err, "employee_id", id)
		return employee.Employee{}, err
	}

	hash := ""
	if dto.Password != "" {
		h, err := s.hasher.Hash(dto.Password)
		if err != nil {
			return employee.Employee{}, internal.NewInternalError("failed to hash password", err)
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return employee.Employee{}, err
	}

	e, ok := s.employees.FindByID(id)
	if !ok {
		s.logger.Warn("update of unknown employee", "employee_id", id)
		return employee.Employee{}, internal.ErrEmployeeNotFound
	}
	dto.Apply(&e)
	applyBenefitOverrides(&e, dto)
	if hash != "" {
		e.PasswordHash = hash
	}

	all := s.employees.All()
	if err := employee.CheckUnique(all, e); err != nil {
		s.logger.Warn("employee update rejected", "employee_id", id, "error", err)
		return employee.Employee{}, err
	}
	if err := employee.CheckSupervisor(all, e.ID, e.SupervisorID); err != nil {
		s.logger.Warn("employee update rejected", "employee_id", id, "error", err)
		return employee.Employee{}, err
	}

	if err := s.employees.Update(e); err != nil {
		return employee.Employee{}, internal.ErrEmployeeNotFound
	}
	if err := s.persist(ctx, storage.KeyEmployees, s.employees.snapshot()); err != nil {
		return e, err
	}

	s.logger.Info("employee updated", "employee_id", id)
	return e, nil
}

// DeactivateEmployee soft-deletes id. Its history and any open session
// stay intact.
func (s *Store) DeactivateEmployee(ctx context.Context, id int64) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return employee.Employee{}, err
	}

	e, ok := s.employees.FindByID(id)
	if !ok {
		return employee.Employee{}, internal.ErrEmployeeNotFound
	}
	if !e.Active() {
		return e, nil
	}
	e.Status = employee.StatusInactive
	_ = s.employees.Update(e)
	if err := s.persist(ctx, storage.KeyEmployees, s.employees.snapshot()); err != nil {
		return e, err
	}

	s.logger.Info("employee deactivated", "employee_id", id)
	return e, nil
}

func applyBenefitOverrides(e *employee.Employee, dto employee.EmployeeDTO) {
	if dto.LeaveCredits != nil {
		e.LeaveCredits = *dto.LeaveCredits
	}
	if dto.HealthCareAllowance != nil {
		e.HealthCareBenefit.Allowance = *dto.HealthCareAllowance
	}
	if dto.HealthCareBalance != nil {
		e.HealthCareBenefit.Balance = *dto.HealthCareBalance
	}
}

// Enrollments lists active employees carrying a biometric number.
func (s *Store) Enrollments() []attendance.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enrollments()
}

// enrollments must be called with s.mu held. ShiftStart reads a snapshot
// and is safe to call after the lock is released.
func (s *Store) enrollments() []attendance.Enrollment {
	scheds := s.schedules.All()
	var out []attendance.Enrollment
	for _, e := range s.employees.All() {
		if !e.Active() || e.AssignedBiometricNumber == nil {
			continue
		}
		empID := e.ID
		out = append(out, attendance.Enrollment{
			EmployeeID:      e.ID,
			EmployeeName:    e.Name,
			BiometricNumber: *e.AssignedBiometricNumber,
			ShiftStart: func(date string) string {
				sh, ok := shiftOn(scheds, empID, date)
				if !ok {
					return ""
				}
				return sh.Start
			},
		})
	}
	return out
}

// shiftOn finds the working window the employee's schedule sets for date.
func shiftOn(scheds []schedule.Schedule, employeeID int64, date string) (schedule.Shift, bool) {
	d, err := datefmt.ParseDate(date, time.UTC)
	if err != nil {
		return schedule.Shift{}, false
	}
	for _, sc := range scheds {
		if sc.EmployeeID != employeeID || !sc.ActiveOn(date) {
			continue
		}
		return schedule.ParseShift(sc.On(d.Weekday()))
	}
	return schedule.Shift{}, false
}
