package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
)

const DayOff = "Day Off"

// Week is a free-text shift per weekday, e.g. "9-5" or "Day Off".
type Week struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

func (w Week) On(day time.Weekday) string {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

type Schedule struct {
	ID           int64  `json:"id"`
	EmployeeID   int64  `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Week
	EffectiveDate string  `json:"effectiveDate"`
	EndDate       *string `json:"endDate"`
}

func (s Schedule) GetID() int64 { return s.ID }

// Open schedules have no end date; each employee has at most one.
func (s Schedule) Open() bool {
	return s.EndDate == nil
}

// ActiveOn reports whether the schedule covers date.
func (s Schedule) ActiveOn(date string) bool {
	if datefmt.Before(date, s.EffectiveDate) {
		return false
	}
	return s.EndDate == nil || !datefmt.Before(*s.EndDate, date)
}

// Supersede returns the end date the open schedule gets when a new schedule
// takes effect on effectiveDate: the day before.
func Supersede(open Schedule, effectiveDate string) (string, error) {
	if !datefmt.Before(open.EffectiveDate, effectiveDate) {
		return "", internal.ErrScheduleOverlap
	}
	return datefmt.AddDays(effectiveDate, -1)
}

// Shift is a parsed working window.
type Shift struct {
	Start string
	End   string
}

// ParseShift reads the shorthand used on schedules: "9-5", "8:30-17:00",
// "10-6". Hours without a meridiem that would end before they start are
// read as afternoon. ok is false for days off and unreadable text.
func ParseShift(text string) (Shift, bool) {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, DayOff) {
		return Shift{}, false
	}
	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return Shift{}, false
	}
	sh, sm, ok := parseHourMinute(parts[0])
	if !ok {
		return Shift{}, false
	}
	eh, em, ok := parseHourMinute(parts[1])
	if !ok {
		return Shift{}, false
	}
	if eh*60+em <= sh*60+sm && eh < 12 {
		eh += 12
	}
	if eh*60+em <= sh*60+sm || eh > 24 {
		return Shift{}, false
	}
	return Shift{
		Start: fmt.Sprintf("%02d:%02d", sh, sm),
		End:   fmt.Sprintf("%02d:%02d", eh, em),
	}, true
}

func parseHourMinute(s string) (int, int, bool) {
	s = strings.TrimSpace(s)
	hs, ms, hasMinutes := strings.Cut(s, ":")
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 24 {
		return 0, 0, false
	}
	m := 0
	if hasMinutes {
		m, err = strconv.Atoi(ms)
		if err != nil || m < 0 || m > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}

// DefaultTemplate proposes a weekly pattern for a role without calling out
// to the text generator.
func DefaultTemplate(position, department string) Week {
	role := strings.ToLower(position + " " + department)
	for _, kw := range []string{"support", "retail", "security", "operations", "store"} {
		if strings.Contains(role, kw) {
			return Week{
				Monday:    DayOff,
				Tuesday:   "9-5",
				Wednesday: "9-5",
				Thursday:  "9-5",
				Friday:    "9-5",
				Saturday:  "9-5",
				Sunday:    DayOff,
			}
		}
	}
	return Week{
		Monday:    "9-5",
		Tuesday:   "9-5",
		Wednesday: "9-5",
		Thursday:  "9-5",
		Friday:    "9-5",
		Saturday:  DayOff,
		Sunday:    DayOff,
	}
}
