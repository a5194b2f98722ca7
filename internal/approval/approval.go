// Package approval is the two-step approval workflow shared by leave and
// overtime requests.
package approval

import (
	"github.com/frahmantamala/hr-core/internal"
)

type Status string

const (
	StatusPending              Status = "Pending"
	StatusApprovedBySupervisor Status = "Approved by Supervisor"
	StatusApproved             Status = "Approved"
	StatusRejected             Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApprovedBySupervisor, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Actor describes who is acting relative to the requester.
type Actor struct {
	IsAdmin bool
	// IsSupervisor is true when the actor is the requester's direct supervisor.
	IsSupervisor bool
	// RequesterHasSupervisor is false for employees reporting to nobody; an
	// admin then takes the supervisor step.
	RequesterHasSupervisor bool
}

type Policy struct {
	TwoStep bool
}

// Next returns the status reached when actor applies action to a request in
// current.
func Next(current Status, action Action, actor Actor, policy Policy) (Status, error) {
	if !current.Valid() || current.Terminal() {
		return current, internal.ErrInvalidTransition
	}

	switch action {
	case ActionReject:
		if actor.IsSupervisor || actor.IsAdmin {
			return StatusRejected, nil
		}
		return current, internal.ErrNotApprover

	case ActionApprove:
		if current == StatusApprovedBySupervisor {
			if actor.IsAdmin {
				return StatusApproved, nil
			}
			return current, internal.ErrNotApprover
		}
		if actor.IsSupervisor {
			if policy.TwoStep {
				return StatusApprovedBySupervisor, nil
			}
			return StatusApproved, nil
		}
		if actor.IsAdmin && !actor.RequesterHasSupervisor {
			return StatusApproved, nil
		}
		return current, internal.ErrNotApprover
	}

	return current, internal.ErrInvalidTransition
}

// ActionFor maps a requested target status onto the action that reaches it.
// Both approval statuses mean "approve"; the policy decides which one lands.
func ActionFor(target Status) (Action, error) {
	switch target {
	case StatusApprovedBySupervisor, StatusApproved:
		return ActionApprove, nil
	case StatusRejected:
		return ActionReject, nil
	}
	return "", internal.ErrInvalidTransition.WithMessage("Cannot move a request to status %q.", target)
}

// Available lists the actions actor may take right now.
func Available(current Status, actor Actor, policy Policy) []Action {
	var out []Action
	for _, a := range []Action{ActionApprove, ActionReject} {
		if _, err := Next(current, a, actor, policy); err == nil {
			out = append(out, a)
		}
	}
	return out
}
