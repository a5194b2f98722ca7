package overtime

import (
	"math"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/approval"
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
)

type Request struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	Date         string          `json:"date"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	Hours        float64         `json:"hours"`
	Reason       string          `json:"reason"`
	Status       approval.Status `json:"status"`
}

func (r Request) GetID() int64 { return r.ID }

// ComputeHours returns the span between start and end on date, measured in
// loc so DST shifts count. Spans that are not positive are rejected.
func ComputeHours(date, start, end string, loc *time.Location) (float64, error) {
	from, err := datefmt.ParseClock(date, start, loc)
	if err != nil {
		return 0, internal.NewValidationFieldError("startTime", "start time must be in HH:MM format", internal.ErrCodeInvalidTime)
	}
	to, err := datefmt.ParseClock(date, end, loc)
	if err != nil {
		return 0, internal.NewValidationFieldError("endTime", "end time must be in HH:MM format", internal.ErrCodeInvalidTime)
	}

	hours := to.Sub(from).Hours()
	if hours <= 0 {
		return 0, internal.ErrInvalidTimeRange
	}
	return math.Round(hours*100) / 100, nil
}

type CreateRequestDTO struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Reason     string `json:"reason"`
}

func (dto CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", dto.EmployeeID).Required()
	v.Field("date", dto.Date).Required().Date()
	v.Field("startTime", dto.StartTime).Required().Clock()
	v.Field("endTime", dto.EndTime).Required().Clock()
	v.Field("reason", dto.Reason).Required().MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}
