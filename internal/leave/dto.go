package leave

import (
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
)

type CreateRequestDTO struct {
	EmployeeID int64  `json:"employeeId"`
	Type       Type   `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason"`
}

func (dto CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", dto.EmployeeID).Required()
	v.Field("type", string(dto.Type)).Required().OneOf(string(TypeVacation), string(TypeSick), string(TypePersonal))
	v.Field("startDate", dto.StartDate).Required().Date()
	v.Field("endDate", dto.EndDate).Required().Date()
	v.Field("reason", dto.Reason).Required().MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AvailabilityDTO struct {
	EmployeeID int64  `json:"employeeId"`
	Type       Type   `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}
