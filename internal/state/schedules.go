package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/schedule"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) Schedules() []schedule.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedules.All()
}

func (s *Store) SchedulesVisibleTo(viewerID int64) []schedule.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope := s.scope(viewerID)
	return s.schedules.Filter(func(sc schedule.Schedule) bool { return inScope(scope, sc.EmployeeID) })
}

// AddSchedule makes a new schedule the employee's open one. The schedule it
// replaces is closed the day before the new one takes effect.
func (s *Store) AddSchedule(ctx context.Context, dto schedule.CreateDTO) (schedule.Schedule, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("schedule validation failed", "error", err, "employee_id", dto.EmployeeID)
		return schedule.Schedule{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return schedule.Schedule{}, err
	}

	e, ok := s.employees.FindByID(dto.EmployeeID)
	if !ok {
		return schedule.Schedule{}, internal.ErrEmployeeNotFound
	}

	open := s.schedules.Filter(func(sc schedule.Schedule) bool {
		return sc.EmployeeID == e.ID && sc.Open()
	})
	closed := make([]schedule.Schedule, 0, len(open))
	for _, sc := range open {
		end, err := schedule.Supersede(sc, dto.EffectiveDate)
		if err != nil {
			s.logger.Warn("schedule rejected",
				"employee_id", e.ID,
				"open_schedule_id", sc.ID,
				"open_effective_date", sc.EffectiveDate,
				"effective_date", dto.EffectiveDate)
			return schedule.Schedule{}, err
		}
		sc.EndDate = &end
		closed = append(closed, sc)
	}

	for _, sc := range closed {
		_ = s.schedules.Update(sc)
	}
	n := schedule.Schedule{
		ID:            s.ids.Next(),
		EmployeeID:    e.ID,
		EmployeeName:  e.Name,
		Week:          dto.Week,
		EffectiveDate: dto.EffectiveDate,
	}
	s.schedules.Add(n)
	if err := s.persist(ctx, storage.KeySchedules, s.schedules.snapshot()); err != nil {
		return n, err
	}

	s.logger.Info("schedule created",
		"schedule_id", n.ID,
		"employee_id", e.ID,
		"effective_date", n.EffectiveDate,
		"superseded", len(closed))
	for _, sc := range closed {
		s.publish(ctx, events.NewScheduleSupersededEvent(e.ID, sc.ID, *sc.EndDate, n.ID))
	}
	return n, nil
}

// UpdateSchedule edits a schedule in place. It may not leave the employee
// with two open schedules or an end date before the effective date.
func (s *Store) UpdateSchedule(ctx context.Context, id int64, dto schedule.UpdateDTO) (schedule.Schedule, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("schedule validation failed", "error", err, "schedule_id", id)
		return schedule.Schedule{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return schedule.Schedule{}, err
	}

	sc, ok := s.schedules.FindByID(id)
	if !ok {
		return schedule.Schedule{}, internal.ErrScheduleNotFound
	}
	if dto.EndDate != nil && datefmt.Before(*dto.EndDate, dto.EffectiveDate) {
		return schedule.Schedule{}, internal.ErrInvalidDateRange
	}
	if dto.EndDate == nil {
		others := s.schedules.Filter(func(o schedule.Schedule) bool {
			return o.ID != id && o.EmployeeID == sc.EmployeeID && o.Open()
		})
		if len(others) > 0 {
			s.logger.Warn("schedule update would reopen a second schedule", "schedule_id", id, "employee_id", sc.EmployeeID)
			return schedule.Schedule{}, internal.ErrScheduleOverlap.WithMessage("Employee already has an open schedule.")
		}
	}

	sc.Week = dto.Week
	sc.EffectiveDate = dto.EffectiveDate
	sc.EndDate = dto.EndDate
	_ = s.schedules.Update(sc)
	if err := s.persist(ctx, storage.KeySchedules, s.schedules.snapshot()); err != nil {
		return sc, err
	}

	s.logger.Info("schedule updated", "schedule_id", id, "employee_id", sc.EmployeeID)
	return sc, nil
}

// SuggestSchedule proposes a weekly pattern for employeeID's role.
func (s *Store) SuggestSchedule(employeeID int64) (schedule.Week, error) {
	e, err := s.GetEmployee(employeeID)
	if err != nil {
		return schedule.Week{}, err
	}
	return schedule.DefaultTemplate(e.Position, e.Department), nil
}
