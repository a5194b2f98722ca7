package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventTypeLeaveStatusChanged    = "leave.status_changed"
	EventTypeOvertimeStatusChanged = "overtime.status_changed"
	EventTypeClaimStatusChanged    = "claim.status_changed"
	EventTypeSettingsPropagated    = "settings.propagated"
	EventTypeScheduleSuperseded    = "schedule.superseded"
	EventTypeBiometricSynced       = "biometric.synced"
)

// AllEventTypes lists every domain event the store emits.
var AllEventTypes = []string{
	EventTypeLeaveStatusChanged,
	EventTypeOvertimeStatusChanged,
	EventTypeClaimStatusChanged,
	EventTypeSettingsPropagated,
	EventTypeScheduleSuperseded,
	EventTypeBiometricSynced,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// RequestStatusChangedEvent covers leave and overtime approvals.
type RequestStatusChangedEvent struct {
	BaseEvent
	RequestID  int64  `json:"request_id"`
	EmployeeID int64  `json:"employee_id"`
	ActorID    int64  `json:"actor_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func NewLeaveStatusChangedEvent(requestID, employeeID, actorID int64, from, to string) *RequestStatusChangedEvent {
	return newRequestStatusChanged(EventTypeLeaveStatusChanged, requestID, employeeID, actorID, from, to)
}

func NewOvertimeStatusChangedEvent(requestID, employeeID, actorID int64, from, to string) *RequestStatusChangedEvent {
	return newRequestStatusChanged(EventTypeOvertimeStatusChanged, requestID, employeeID, actorID, from, to)
}

func newRequestStatusChanged(eventType string, requestID, employeeID, actorID int64, from, to string) *RequestStatusChangedEvent {
	return &RequestStatusChangedEvent{
		BaseEvent: newBase(eventType, map[string]interface{}{
			"request_id":  requestID,
			"employee_id": employeeID,
			"actor_id":    actorID,
			"from":        from,
			"to":          to,
		}),
		RequestID:  requestID,
		EmployeeID: employeeID,
		ActorID:    actorID,
		From:       from,
		To:         to,
	}
}

type ClaimStatusChangedEvent struct {
	BaseEvent
	ClaimID    int64           `json:"claim_id"`
	EmployeeID int64           `json:"employee_id"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	Balance    decimal.Decimal `json:"balance"`
}

func NewClaimStatusChangedEvent(claimID, employeeID int64, from, to string, balance decimal.Decimal) *ClaimStatusChangedEvent {
	return &ClaimStatusChangedEvent{
		BaseEvent: newBase(EventTypeClaimStatusChanged, map[string]interface{}{
			"claim_id":    claimID,
			"employee_id": employeeID,
			"from":        from,
			"to":          to,
			"balance":     balance.String(),
		}),
		ClaimID:    claimID,
		EmployeeID: employeeID,
		From:       from,
		To:         to,
		Balance:    balance,
	}
}

type SettingsPropagatedEvent struct {
	BaseEvent
	Leave             bool `json:"leave"`
	Health            bool `json:"health"`
	EmployeesAffected int  `json:"employees_affected"`
}

func NewSettingsPropagatedEvent(leave, health bool, affected int) *SettingsPropagatedEvent {
	return &SettingsPropagatedEvent{
		BaseEvent: newBase(EventTypeSettingsPropagated, map[string]interface{}{
			"leave":              leave,
			"health":             health,
			"employees_affected": affected,
		}),
		Leave:             leave,
		Health:            health,
		EmployeesAffected: affected,
	}
}

type ScheduleSupersededEvent struct {
	BaseEvent
	EmployeeID    int64  `json:"employee_id"`
	ClosedID      int64  `json:"closed_id"`
	ClosedEndDate string `json:"closed_end_date"`
	NewID         int64  `json:"new_id"`
}

func NewScheduleSupersededEvent(employeeID, closedID int64, closedEndDate string, newID int64) *ScheduleSupersededEvent {
	return &ScheduleSupersededEvent{
		BaseEvent: newBase(EventTypeScheduleSuperseded, map[string]interface{}{
			"employee_id":     employeeID,
			"closed_id":       closedID,
			"closed_end_date": closedEndDate,
			"new_id":          newID,
		}),
		EmployeeID:    employeeID,
		ClosedID:      closedID,
		ClosedEndDate: closedEndDate,
		NewID:         newID,
	}
}

type BiometricSyncedEvent struct {
	BaseEvent
	NewLogs        int     `json:"new_logs"`
	OfflineDevices []int64 `json:"offline_devices"`
}

func NewBiometricSyncedEvent(newLogs int, offline []int64) *BiometricSyncedEvent {
	return &BiometricSyncedEvent{
		BaseEvent: newBase(EventTypeBiometricSynced, map[string]interface{}{
			"new_logs":        newLogs,
			"offline_devices": offline,
		}),
		NewLogs:        newLogs,
		OfflineDevices: offline,
	}
}
