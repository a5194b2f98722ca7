package leave

import (
	"fmt"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/approval"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
)

type Type string

const (
	TypeVacation Type = "Vacation"
	TypeSick     Type = "Sick Leave"
	TypePersonal Type = "Personal"
)

func (t Type) Valid() bool {
	return t == TypeVacation || t == TypeSick || t == TypePersonal
}

// Credits are whole days of leave available per category.
type Credits struct {
	Vacation int `json:"vacation"`
	Sick     int `json:"sick"`
	Personal int `json:"personal"`
}

func (c Credits) For(t Type) int {
	switch t {
	case TypeVacation:
		return c.Vacation
	case TypeSick:
		return c.Sick
	case TypePersonal:
		return c.Personal
	}
	return 0
}

// Deduct subtracts days from the credit matching t.
func (c *Credits) Deduct(t Type, days int) error {
	if c.For(t) < days {
		return internal.ErrInsufficientLeaveBalance
	}
	switch t {
	case TypeVacation:
		c.Vacation -= days
	case TypeSick:
		c.Sick -= days
	case TypePersonal:
		c.Personal -= days
	}
	return nil
}

type Request struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	Type         Type            `json:"type"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	Reason       string          `json:"reason"`
	Status       approval.Status `json:"status"`
}

func (r Request) GetID() int64 { return r.ID }

// CountWorkingDays counts Monday to Friday dates in [start, end], inclusive,
// skipping the given holiday dates.
func CountWorkingDays(start, end string, holidays []string) (int, error) {
	from, err := datefmt.ParseDate(start, time.UTC)
	if err != nil {
		return 0, internal.NewValidationFieldError("startDate", "start date must be in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	to, err := datefmt.ParseDate(end, time.UTC)
	if err != nil {
		return 0, internal.NewValidationFieldError("endDate", "end date must be in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	if to.Before(from) {
		return 0, internal.ErrInvalidDateRange
	}

	skip := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		skip[h] = struct{}{}
	}

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if _, ok := skip[datefmt.FormatDate(d)]; ok {
			continue
		}
		days++
	}
	return days, nil
}

type Outcome string

const (
	OutcomeConfirmed Outcome = "CONFIRMED"
	OutcomeWarning   Outcome = "WARNING"
	OutcomeError     Outcome = "ERROR"
)

type Availability struct {
	Outcome     Outcome `json:"outcome"`
	WorkingDays int     `json:"workingDays"`
	Available   int     `json:"available"`
	Shortfall   int     `json:"shortfall"`
	Message     string  `json:"message"`
}

// Blocking reports whether a request with this result must not be submitted.
func (a Availability) Blocking() bool {
	return a.Outcome != OutcomeConfirmed
}

// CheckAvailability answers whether credits cover a leave of type t over
// [start, end]. Messages carry the CONFIRMED:/WARNING:/ERROR: prefixes the
// dashboard keys on.
func CheckAvailability(credits Credits, t Type, start, end string, holidays []string) Availability {
	if !t.Valid() {
		return Availability{
			Outcome: OutcomeError,
			Message: fmt.Sprintf("ERROR: Unknown leave type %q.", t),
		}
	}

	days, err := CountWorkingDays(start, end, holidays)
	if err != nil {
		return Availability{
			Outcome: OutcomeError,
			Message: "ERROR: " + err.Error(),
		}
	}

	available := credits.For(t)
	if days > available {
		short := days - available
		return Availability{
			Outcome:     OutcomeWarning,
			WorkingDays: days,
			Available:   available,
			Shortfall:   short,
			Message: fmt.Sprintf("WARNING: This request needs %d working day(s) of %s leave but only %d remain; short by %d day(s).",
				days, t, available, short),
		}
	}

	return Availability{
		Outcome:     OutcomeConfirmed,
		WorkingDays: days,
		Available:   available,
		Message: fmt.Sprintf("CONFIRMED: This request uses %d working day(s) of %s leave; %d day(s) available.",
			days, t, available),
	}
}
