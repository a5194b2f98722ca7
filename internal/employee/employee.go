package employee

import (
	"strings"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/benefit"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/leave"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

type ContractType string

const (
	ContractFullTime ContractType = "Full-Time"
	ContractPartTime ContractType = "Part-Time"
	ContractFixed    ContractType = "Contract"
)

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type EmploymentHistory struct {
	Company   string `json:"company"`
	Position  string `json:"position"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Contract struct {
	Type      ContractType `json:"type"`
	StartDate string       `json:"startDate"`
	EndDate   *string      `json:"endDate,omitempty"`
}

type Performance struct {
	LastReview          string   `json:"lastReview"`
	Achievements        []string `json:"achievements"`
	AreasForImprovement []string `json:"areasForImprovement"`
}

type Employee struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Email      string `json:"email"`
	// PasswordHash is bcrypt; LegacyPassword only appears in documents
	// written before hashing and is converted on load.
	PasswordHash            string              `json:"passwordHash,omitempty"`
	LegacyPassword          string              `json:"password,omitempty"`
	Role                    user.Role           `json:"role"`
	Avatar                  string              `json:"avatar"`
	Status                  Status              `json:"status"`
	Gender                  string              `json:"gender"`
	SupervisorID            *int64              `json:"supervisorId"`
	Address                 Address             `json:"address"`
	EmploymentHistory       []EmploymentHistory `json:"employmentHistory"`
	Contracts               []Contract          `json:"contracts"`
	Performance             Performance         `json:"performance"`
	LeaveCredits            leave.Credits       `json:"leaveCredits"`
	HealthCareBenefit       benefit.HealthCare  `json:"healthCareBenefit"`
	AccessibleModules       []string            `json:"accessibleModules"`
	AssignedBiometricNumber *int64              `json:"assignedBiometricNumber"`
}

func (e Employee) GetID() int64 { return e.ID }

func (e Employee) IsAdmin() bool {
	return e.Role == user.RoleAdmin
}

func (e Employee) Active() bool {
	return e.Status == StatusActive
}

// CanAccess reports whether the dashboard module is visible to e. Admins
// see everything regardless of their module list.
func (e Employee) CanAccess(module string) bool {
	if e.IsAdmin() {
		return true
	}
	for _, m := range e.AccessibleModules {
		if m == module {
			return true
		}
	}
	return false
}

// Public strips credentials before the record leaves the process.
func (e Employee) Public() Employee {
	e.PasswordHash = ""
	e.LegacyPassword = ""
	return e
}

func (e Employee) Principal() *user.Principal {
	return &user.Principal{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Role:         e.Role,
		SupervisorID: e.SupervisorID,
	}
}

// Normalize upgrades a record persisted by older releases: a missing role
// is derived from the legacy administrator email, and a plaintext password
// is replaced by its hash. It reports whether anything changed.
func Normalize(e *Employee, legacyAdminEmail string, hash func(string) (string, error)) (bool, error) {
	changed := false
	if e.Role == "" {
		e.Role = user.RoleEmployee
		if legacyAdminEmail != "" && strings.EqualFold(e.Email, legacyAdminEmail) {
			e.Role = user.RoleAdmin
		}
		changed = true
	}
	if e.LegacyPassword != "" {
		h, err := hash(e.LegacyPassword)
		if err != nil {
			return changed, err
		}
		e.PasswordHash = h
		e.LegacyPassword = ""
		changed = true
	}
	if e.Status == "" {
		e.Status = StatusActive
		changed = true
	}
	return changed, nil
}

// CheckSupervisor validates assigning supervisorID to employeeID against
// the full roster: the supervisor must exist, differ from the employee, and
// must not already report (directly or transitively) to the employee.
func CheckSupervisor(all []Employee, employeeID int64, supervisorID *int64) error {
	if supervisorID == nil {
		return nil
	}
	if *supervisorID == employeeID {
		return internal.ErrInvalidSupervisor
	}

	byID := make(map[int64]Employee, len(all))
	for _, e := range all {
		byID[e.ID] = e
	}
	if _, ok := byID[*supervisorID]; !ok {
		return internal.ErrInvalidSupervisor
	}

	seen := map[int64]bool{}
	cur := *supervisorID
	for {
		if cur == employeeID {
			return internal.ErrSupervisorCycle
		}
		if seen[cur] {
			// pre-existing loop that does not involve employeeID
			return nil
		}
		seen[cur] = true
		e, ok := byID[cur]
		if !ok || e.SupervisorID == nil {
			return nil
		}
		cur = *e.SupervisorID
	}
}

// CheckUnique enforces unique emails and biometric numbers across the
// roster, inactive employees included.
func CheckUnique(all []Employee, candidate Employee) error {
	for _, e := range all {
		if e.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(e.Email), strings.TrimSpace(candidate.Email)) {
			return internal.ErrDuplicateEmail
		}
		if candidate.AssignedBiometricNumber != nil && e.AssignedBiometricNumber != nil &&
			*e.AssignedBiometricNumber == *candidate.AssignedBiometricNumber {
			return internal.ErrDuplicateBiometricNumber
		}
	}
	return nil
}

// DirectReports returns the ids of employees whose supervisor is id.
func DirectReports(all []Employee, id int64) []int64 {
	var out []int64
	for _, e := range all {
		if e.SupervisorID != nil && *e.SupervisorID == id {
			out = append(out, e.ID)
		}
	}
	return out
}
