package employee

import (
	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/shopspring/decimal"
)

// EmployeeDTO is the create/update payload. Optional pointers fall back to
// organisation defaults on create and to the stored value on update.
type EmployeeDTO struct {
	Name                    string              `json:"name"`
	Position                string              `json:"position"`
	Department              string              `json:"department"`
	Email                   string              `json:"email"`
	Password                string              `json:"password,omitempty"`
	Role                    user.Role           `json:"role"`
	Avatar                  string              `json:"avatar"`
	Status                  Status              `json:"status"`
	Gender                  string              `json:"gender"`
	SupervisorID            *int64              `json:"supervisorId"`
	Address                 Address             `json:"address"`
	EmploymentHistory       []EmploymentHistory `json:"employmentHistory"`
	Contracts               []Contract          `json:"contracts"`
	Performance             Performance         `json:"performance"`
	LeaveCredits            *leave.Credits      `json:"leaveCredits,omitempty"`
	HealthCareAllowance     *decimal.Decimal    `json:"healthCareAllowance,omitempty"`
	HealthCareBalance       *decimal.Decimal    `json:"healthCareBalance,omitempty"`
	AccessibleModules       []string            `json:"accessibleModules"`
	AssignedBiometricNumber *int64              `json:"assignedBiometricNumber"`
}

func (dto EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("position", dto.Position).Required()
	v.Field("department", dto.Department).Required()
	v.Field("email", dto.Email).Required().Email()
	v.Field("role", string(dto.Role)).OneOf(string(user.RoleAdmin), string(user.RoleEmployee))
	v.Field("status", string(dto.Status)).OneOf(string(StatusActive), string(StatusInactive))
	for _, c := range dto.Contracts {
		v.Field("contracts.type", string(c.Type)).Required().OneOf(string(ContractFullTime), string(ContractPartTime), string(ContractFixed))
		v.Field("contracts.startDate", c.StartDate).Required().Date()
	}
	if dto.LeaveCredits != nil {
		v.Field("leaveCredits.vacation", dto.LeaveCredits.Vacation).MinInt(0, internal.ErrCodeValidationFailed)
		v.Field("leaveCredits.sick", dto.LeaveCredits.Sick).MinInt(0, internal.ErrCodeValidationFailed)
		v.Field("leaveCredits.personal", dto.LeaveCredits.Personal).MinInt(0, internal.ErrCodeValidationFailed)
	}
	if dto.HealthCareAllowance != nil {
		v.Field("healthCareAllowance", *dto.HealthCareAllowance).NotNegative(internal.ErrCodeInvalidAmount)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Apply copies the payload onto e. Credentials, credits and benefit
// figures are left to the caller.
func (dto EmployeeDTO) Apply(e *Employee) {
	e.Name = dto.Name
	e.Position = dto.Position
	e.Department = dto.Department
	e.Email = dto.Email
	if dto.Role != "" {
		e.Role = dto.Role
	}
	e.Avatar = dto.Avatar
	if dto.Status != "" {
		e.Status = dto.Status
	}
	e.Gender = dto.Gender
	e.SupervisorID = dto.SupervisorID
	e.Address = dto.Address
	e.EmploymentHistory = dto.EmploymentHistory
	e.Contracts = dto.Contracts
	e.Performance = dto.Performance
	e.AccessibleModules = dto.AccessibleModules
	e.AssignedBiometricNumber = dto.AssignedBiometricNumber
}
