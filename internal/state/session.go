package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/employee"
)

const DefaultModule = "dashboard"

// Navigation is the dashboard position of the logged-in user.
type Navigation struct {
	ActiveModule      string  `json:"activeModule"`
	ActiveSubModule   *string `json:"activeSubModule"`
	ViewingEmployeeID *int64  `json:"viewingEmployeeId"`
}

func defaultNavigation() Navigation {
	return Navigation{ActiveModule: DefaultModule}
}

// Login opens a session for userID and persists it.
func (s *Store) Login(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if _, ok := s.employees.FindByID(userID); !ok {
		s.logger.Warn("login for unknown employee", "employee_id", userID)
		return internal.ErrEmployeeNotFound
	}

	id := userID
	s.sessionUserID = &id
	if err := s.adapter.SaveSession(ctx, userID); err != nil {
		return internal.NewPersistenceError(err)
	}
	s.logger.Info("session opened", "employee_id", userID)
	return nil
}

// Logout clears the session and resets navigation.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.sessionUserID = nil
	s.nav = defaultNavigation()
	if err := s.adapter.ClearSession(ctx); err != nil {
		return internal.NewPersistenceError(err)
	}
	s.logger.Info("session closed")
	return nil
}

// IsAuthenticated reports whether a session is open, whether or not its
// employee still exists.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionUserID != nil
}

// CurrentUser resolves the session against the roster on every call.
func (s *Store) CurrentUser() (employee.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser()
}

func (s *Store) currentUser() (employee.Employee, bool) {
	if s.sessionUserID == nil {
		return employee.Employee{}, false
	}
	return s.employees.FindByID(*s.sessionUserID)
}

// UserRole is the current user's role, or "" when nobody is logged in.
func (s *Store) UserRole() user.Role {
	e, ok := s.CurrentUser()
	if !ok {
		return ""
	}
	return e.Role
}

func (s *Store) Navigation() Navigation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nav
}

// SetActiveModule switches module and drops the viewed employee.
func (s *Store) SetActiveModule(module string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.ActiveModule = module
	s.nav.ViewingEmployeeID = nil
}

func (s *Store) SetActiveSubModule(sub string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.ActiveSubModule = &sub
}

func (s *Store) ClearSubModule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav.ActiveSubModule = nil
}

// SetViewingEmployee points the profile view at id; nil clears it.
func (s *Store) SetViewingEmployee(id *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == nil {
		s.nav.ViewingEmployeeID = nil
		return
	}
	v := *id
	s.nav.ViewingEmployeeID = &v
}

// CanView reports whether viewer may see records belonging to subjectID:
// admins see everyone, others see themselves and their direct reports.
func (s *Store) CanView(viewerID, subjectID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canView(viewerID, subjectID)
}

func (s *Store) canView(viewerID, subjectID int64) bool {
	if viewerID == subjectID {
		return true
	}
	viewer, ok := s.employees.FindByID(viewerID)
	if !ok {
		return false
	}
	if viewer.IsAdmin() {
		return true
	}
	subject, ok := s.employees.FindByID(subjectID)
	return ok && subject.SupervisorID != nil && *subject.SupervisorID == viewerID
}

// ManagedEmployeeIDs is the set of employees viewerID may see. A nil map
// means every employee.
func (s *Store) ManagedEmployeeIDs(viewerID int64) map[int64]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope(viewerID)
}

func (s *Store) scope(viewerID int64) map[int64]bool {
	viewer, ok := s.employees.FindByID(viewerID)
	if ok && viewer.IsAdmin() {
		return nil
	}
	ids := map[int64]bool{viewerID: true}
	for _, id := range employee.DirectReports(s.employees.All(), viewerID) {
		ids[id] = true
	}
	return ids
}

func inScope(scope map[int64]bool, id int64) bool {
	return scope == nil || scope[id]
}
