package schedule

import (
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
)

type CreateDTO struct {
	EmployeeID int64 `json:"employeeId"`
	Week
	EffectiveDate string `json:"effectiveDate"`
}

func (dto CreateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", dto.EmployeeID).Required()
	v.Field("effectiveDate", dto.EffectiveDate).Required().Date()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateDTO struct {
	Week
	EffectiveDate string  `json:"effectiveDate"`
	EndDate       *string `json:"endDate"`
}

func (dto UpdateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("effectiveDate", dto.EffectiveDate).Required().Date()
	if dto.EndDate != nil {
		v.Field("endDate", *dto.EndDate).Required().Date()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// SuggestDTO asks for a template either for an existing employee or for a
// position and department.
type SuggestDTO struct {
	EmployeeID int64  `json:"employeeId"`
	Position   string `json:"position"`
	Department string `json:"department"`
}
