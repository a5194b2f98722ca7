package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) Settings() settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings replaces the organisation settings and optionally pushes
// the new defaults onto every active employee. Inactive employees keep
// their figures. It returns how many employees were touched.
func (s *Store) UpdateSettings(ctx context.Context, next settings.Settings, propagate settings.Propagation) (int, error) {
	if err := next.Validate(); err != nil {
		s.logger.Error("settings validation failed", "error", err)
		return 0, err
	}
	if next.Holidays == nil {
		next.Holidays = []settings.Holiday{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	for i := range next.Holidays {
		if next.Holidays[i].ID == 0 {
			next.Holidays[i].ID = s.ids.Next()
		}
	}

	s.settings = next

	affected := 0
	if propagate.Leave || propagate.Health {
		all := s.employees.All()
		for i := range all {
			if !all[i].Active() {
				continue
			}
			if propagate.Leave {
				all[i].LeaveCredits = next.DefaultLeaveCredits
			}
			if propagate.Health {
				all[i].HealthCareBenefit.Allowance = next.HealthCareAllowance
				all[i].HealthCareBenefit.Balance = next.HealthCareAllowance
			}
			affected++
		}
		s.employees = NewCollection(all)
	}

	// Both collections are written even if the first save fails.
	persistErr := s.persist(ctx, storage.KeySettings, s.settings)
	if propagate.Leave || propagate.Health {
		if err := s.persist(ctx, storage.KeyEmployees, s.employees.snapshot()); err != nil && persistErr == nil {
			persistErr = err
		}
	}
	if persistErr != nil {
		return affected, persistErr
	}

	s.logger.Info("settings updated",
		"propagate_leave", propagate.Leave,
		"propagate_health", propagate.Health,
		"employees_affected", affected)
	if affected > 0 {
		s.publish(ctx, events.NewSettingsPropagatedEvent(propagate.Leave, propagate.Health, affected))
	}
	return affected, nil
}
