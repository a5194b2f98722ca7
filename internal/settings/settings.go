package settings

import (
	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/shopspring/decimal"
)

type Holiday struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// Settings is the organisation-wide singleton.
type Settings struct {
	DefaultLeaveCredits leave.Credits   `json:"defaultLeaveCredits"`
	HealthCareAllowance decimal.Decimal `json:"healthCareAllowance"`
	TwoStepApproval     bool            `json:"twoStepApproval"`
	Holidays            []Holiday       `json:"holidays"`
}

func (s Settings) HolidayDates() []string {
	out := make([]string, 0, len(s.Holidays))
	for _, h := range s.Holidays {
		out = append(out, h.Date)
	}
	return out
}

func (s Settings) Validate() error {
	v := validation.NewValidator()
	v.Field("defaultLeaveCredits.vacation", s.DefaultLeaveCredits.Vacation).MinInt(0, internal.ErrCodeValidationFailed)
	v.Field("defaultLeaveCredits.sick", s.DefaultLeaveCredits.Sick).MinInt(0, internal.ErrCodeValidationFailed)
	v.Field("defaultLeaveCredits.personal", s.DefaultLeaveCredits.Personal).MinInt(0, internal.ErrCodeValidationFailed)
	v.Field("healthCareAllowance", s.HealthCareAllowance).NotNegative(internal.ErrCodeInvalidAmount)
	for _, h := range s.Holidays {
		v.Field("holidays.name", h.Name).Required()
		v.Field("holidays.date", h.Date).Required().Date()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Propagation selects which defaults are pushed to active employees.
type Propagation struct {
	Leave  bool `json:"leave"`
	Health bool `json:"health"`
}

type UpdateDTO struct {
	Settings  Settings    `json:"settings"`
	Propagate Propagation `json:"propagate"`
}
