package textgen

import (
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/settings"
)

// CheckLeaveAvailability answers from the leave rules alone and never calls
// the API. The reply starts with CONFIRMED:, WARNING: or ERROR:.
func (c *Client) CheckLeaveAvailability(employeeName string, credits leave.Credits, t leave.Type, startDate, endDate string, holidays []settings.Holiday) string {
	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	res := leave.CheckAvailability(credits, t, startDate, endDate, dates)
	c.logger.Debug("leave availability checked",
		"employee", employeeName,
		"type", t,
		"outcome", res.Outcome,
		"working_days", res.WorkingDays)
	return res.Message
}
