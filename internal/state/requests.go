package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/approval"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/overtime"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) LeaveRequests() []leave.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaveRequests.All()
}

func (s *Store) LeaveRequestsVisibleTo(viewerID int64) []leave.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope := s.scope(viewerID)
	return s.leaveRequests.Filter(func(r leave.Request) bool { return inScope(scope, r.EmployeeID) })
}

func (s *Store) GetLeaveRequest(id int64) (leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.leaveRequests.FindByID(id)
	if !ok {
		return leave.Request{}, internal.ErrLeaveRequestNotFound
	}
	return r, nil
}

// CheckLeaveAvailability answers whether employeeID can take leave of type
// t over [start, end] given their credits and the holiday calendar.
func (s *Store) CheckLeaveAvailability(employeeID int64, t leave.Type, start, end string) (leave.Availability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees.FindByID(employeeID)
	if !ok {
		return leave.Availability{}, internal.ErrEmployeeNotFound
	}
	return leave.CheckAvailability(e.LeaveCredits, t, start, end, s.settings.HolidayDates()), nil
}

// AddLeaveRequest files a pending request after checking that the range is
// valid and the matching credit covers its working days.
func (s *Store) AddLeaveRequest(ctx context.Context, dto leave.CreateRequestDTO) (leave.Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("leave request validation failed", "error", err, "employee_id", dto.EmployeeID)
		return leave.Request{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return leave.Request{}, err
	}

	e, ok := s.employees.FindByID(dto.EmployeeID)
	if !ok {
		return leave.Request{}, internal.ErrEmployeeNotFound
	}

	days, err := leave.CountWorkingDays(dto.StartDate, dto.EndDate, s.settings.HolidayDates())
	if err != nil {
		s.logger.Warn("leave request rejected", "employee_id", e.ID, "error", err)
		return leave.Request{}, err
	}
	if available := e.LeaveCredits.For(dto.Type); days > available {
		s.logger.Warn("leave request exceeds balance",
			"employee_id", e.ID,
			"type", dto.Type,
			"working_days", days,
			"available", available)
		return leave.Request{}, internal.ErrInsufficientLeaveBalance.WithMessage(
			"Insufficient %s balance: %d working day(s) requested, %d available.", dto.Type, days, available)
	}

	r := leave.Request{
		ID:           s.ids.Next(),
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Type:         dto.Type,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
		Reason:       dto.Reason,
		Status:       approval.StatusPending,
	}
	s.leaveRequests.Add(r)
	if err := s.persist(ctx, storage.KeyLeaveRequests, s.leaveRequests.snapshot()); err != nil {
		return r, err
	}

	s.logger.Info("leave request created",
		"request_id", r.ID,
		"employee_id", e.ID,
		"type", r.Type,
		"working_days", days)
	return r, nil
}

// UpdateLeaveRequestStatus moves request id toward target on behalf of the
// logged-in user.
func (s *Store) UpdateLeaveRequestStatus(ctx context.Context, id int64, target approval.Status) (leave.Request, error) {
	actorID, err := s.sessionActor()
	if err != nil {
		return leave.Request{}, err
	}
	return s.ActOnLeaveRequest(ctx, actorID, id, target)
}

// ActOnLeaveRequest applies actorID's decision. Reaching Approved deducts
// the request's working days from the requester's credit.
func (s *Store) ActOnLeaveRequest(ctx context.Context, actorID, id int64, target approval.Status) (leave.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return leave.Request{}, err
	}

	r, ok := s.leaveRequests.FindByID(id)
	if !ok {
		return leave.Request{}, internal.ErrLeaveRequestNotFound
	}

	next, err := s.transition(r.Status, target, actorID, r.EmployeeID)
	if err != nil {
		s.logger.Warn("leave status change rejected",
			"request_id", id,
			"actor_id", actorID,
			"current_status", r.Status,
			"target", target,
			"error", err)
		return leave.Request{}, err
	}

	employeesChanged := false
	if next == approval.StatusApproved {
		e, ok := s.employees.FindByID(r.EmployeeID)
		if !ok {
			return leave.Request{}, internal.ErrEmployeeNotFound
		}
		days, err := leave.CountWorkingDays(r.StartDate, r.EndDate, s.settings.HolidayDates())
		if err != nil {
			return leave.Request{}, err
		}
		if err := e.LeaveCredits.Deduct(r.Type, days); err != nil {
			s.logger.Warn("leave approval exceeds balance", "request_id", id, "employee_id", e.ID, "working_days", days)
			return leave.Request{}, err
		}
		_ = s.employees.Update(e)
		employeesChanged = true
	}

	prev := r.Status
	r.Status = next
	_ = s.leaveRequests.Update(r)

	if err := s.persist(ctx, storage.KeyLeaveRequests, s.leaveRequests.snapshot()); err != nil {
		return r, err
	}
	if employeesChanged {
		if err := s.persist(ctx, storage.KeyEmployees, s.employees.snapshot()); err != nil {
			return r, err
		}
	}

	s.logger.Info("leave request status changed",
		"request_id", id,
		"actor_id", actorID,
		"from", prev,
		"to", next)
	s.publish(ctx, events.NewLeaveStatusChangedEvent(id, r.EmployeeID, actorID, string(prev), string(next)))
	return r, nil
}

func (s *Store) OvertimeRequests() []overtime.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overtimeRequests.All()
}

func (s *Store) OvertimeRequestsVisibleTo(viewerID int64) []overtime.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope := s.scope(viewerID)
	return s.overtimeRequests.Filter(func(r overtime.Request) bool { return inScope(scope, r.EmployeeID) })
}

// AddOvertimeRequest derives hours from the stated window and files a
// pending request. A window that is not positive inserts nothing.
func (s *Store) AddOvertimeRequest(ctx context.Context, dto overtime.CreateRequestDTO) (overtime.Request, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("overtime request validation failed", "error", err, "employee_id", dto.EmployeeID)
		return overtime.Request{}, err
	}

	hours, err := overtime.ComputeHours(dto.Date, dto.StartTime, dto.EndTime, s.loc)
	if err != nil {
		s.logger.Warn("overtime request rejected", "employee_id", dto.EmployeeID, "error", err)
		return overtime.Request{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return overtime.Request{}, err
	}

	e, ok := s.employees.FindByID(dto.EmployeeID)
	if !ok {
		return overtime.Request{}, internal.ErrEmployeeNotFound
	}

	r := overtime.Request{
		ID:           s.ids.Next(),
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Date:         dto.Date,
		StartTime:    dto.StartTime,
		EndTime:      dto.EndTime,
		Hours:        hours,
		Reason:       dto.Reason,
		Status:       approval.StatusPending,
	}
	s.overtimeRequests.Add(r)
	if err := s.persist(ctx, storage.KeyOvertimeRequests, s.overtimeRequests.snapshot()); err != nil {
		return r, err
	}

	s.logger.Info("overtime request created", "request_id", r.ID, "employee_id", e.ID, "hours", hours)
	return r, nil
}

func (s *Store) UpdateOvertimeRequestStatus(ctx context.Context, id int64, target approval.Status) (overtime.Request, error) {
	actorID, err := s.sessionActor()
	if err != nil {
		return overtime.Request{}, err
	}
	return s.ActOnOvertimeRequest(ctx, actorID, id, target)
}

func (s *Store) ActOnOvertimeRequest(ctx context.Context, actorID, id int64, target approval.Status) (overtime.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return overtime.Request{}, err
	}

	r, ok := s.overtimeRequests.FindByID(id)
	if !ok {
		return overtime.Request{}, internal.ErrOvertimeRequestNotFound
	}

	next, err := s.transition(r.Status, target, actorID, r.EmployeeID)
	if err != nil {
		s.logger.Warn("overtime status change rejected",
			"request_id", id,
			"actor_id", actorID,
			"current_status", r.Status,
			"target", target,
			"error", err)
		return overtime.Request{}, err
	}

	prev := r.Status
	r.Status = next
	_ = s.overtimeRequests.Update(r)
	if err := s.persist(ctx, storage.KeyOvertimeRequests, s.overtimeRequests.snapshot()); err != nil {
		return r, err
	}

	s.logger.Info("overtime request status changed",
		"request_id", id,
		"actor_id", actorID,
		"from", prev,
		"to", next)
	s.publish(ctx, events.NewOvertimeStatusChangedEvent(id, r.EmployeeID, actorID, string(prev), string(next)))
	return r, nil
}

// AvailableActions lists what actorID may do to a request in current.
func (s *Store) AvailableActions(actorID, requesterID int64, current approval.Status) []approval.Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actor, err := s.approvalActor(actorID, requesterID)
	if err != nil {
		return nil
	}
	return approval.Available(current, actor, approval.Policy{TwoStep: s.settings.TwoStepApproval})
}

// transition must be called with s.mu held.
func (s *Store) transition(current, target approval.Status, actorID, requesterID int64) (approval.Status, error) {
	action, err := approval.ActionFor(target)
	if err != nil {
		return current, err
	}
	actor, err := s.approvalActor(actorID, requesterID)
	if err != nil {
		return current, err
	}
	return approval.Next(current, action, actor, approval.Policy{TwoStep: s.settings.TwoStepApproval})
}

func (s *Store) approvalActor(actorID, requesterID int64) (approval.Actor, error) {
	a, ok := s.employees.FindByID(actorID)
	if !ok {
		return approval.Actor{}, internal.ErrNotApprover
	}
	actor := approval.Actor{IsAdmin: a.IsAdmin()}
	if r, ok := s.employees.FindByID(requesterID); ok && r.SupervisorID != nil {
		actor.RequesterHasSupervisor = true
		actor.IsSupervisor = *r.SupervisorID == actorID
	}
	return actor, nil
}

func (s *Store) sessionActor() (int64, error) {
	e, ok := s.CurrentUser()
	if !ok {
		return 0, internal.ErrNotAuthenticated
	}
	return e.ID, nil
}
