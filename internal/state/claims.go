package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/benefit"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) HealthCareClaims() []benefit.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.All()
}

func (s *Store) HealthCareClaimsVisibleTo(viewerID int64) []benefit.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope := s.scope(viewerID)
	return s.claims.Filter(func(c benefit.Claim) bool { return inScope(scope, c.EmployeeID) })
}

// AddHealthCareClaim files a pending claim. The balance is only checked
// here; it changes when the claim is approved.
func (s *Store) AddHealthCareClaim(ctx context.Context, dto benefit.CreateClaimDTO) (benefit.Claim, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("claim validation failed", "error", err, "employee_id", dto.EmployeeID)
		return benefit.Claim{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return benefit.Claim{}, err
	}

	e, ok := s.employees.FindByID(dto.EmployeeID)
	if !ok {
		return benefit.Claim{}, internal.ErrEmployeeNotFound
	}
	if dto.Amount.GreaterThan(e.HealthCareBenefit.Balance) {
		s.logger.Warn("claim exceeds balance",
			"employee_id", e.ID,
			"amount", dto.Amount.String(),
			"balance", e.HealthCareBenefit.Balance.String())
		return benefit.Claim{}, internal.ErrInsufficientHealthBalance
	}

	c := benefit.Claim{
		ID:           s.ids.Next(),
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Date:         dto.Date,
		Type:         dto.Type,
		Amount:       dto.Amount,
		Status:       benefit.ClaimPending,
		ReceiptURL:   dto.ReceiptURL,
	}
	s.claims.Add(c)
	if err := s.persist(ctx, storage.KeyHealthCareClaims, s.claims.snapshot()); err != nil {
		return c, err
	}

	s.logger.Info("claim created", "claim_id", c.ID, "employee_id", e.ID, "amount", c.Amount.String())
	return c, nil
}

// UpdateHealthCareClaimStatus moves claim id to status and settles the
// balance against what the claim previously held.
func (s *Store) UpdateHealthCareClaimStatus(ctx context.Context, id int64, status benefit.ClaimStatus) (benefit.Claim, error) {
	if !status.Valid() {
		return benefit.Claim{}, internal.ErrInvalidClaimStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return benefit.Claim{}, err
	}

	prev, ok := s.claims.FindByID(id)
	if !ok {
		return benefit.Claim{}, internal.ErrClaimNotFound
	}
	next := prev
	next.Status = status
	return s.replaceClaim(ctx, prev, next)
}

// UpdateHealthCareClaim replaces a claim wholesale. A change of employee
// settles both balances. A pending claim may not grow past the balance it
// would later be paid from.
func (s *Store) UpdateHealthCareClaim(ctx context.Context, id int64, dto benefit.UpdateClaimDTO) (benefit.Claim, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("claim validation failed", "error", err, "claim_id", id)
		return benefit.Claim{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return benefit.Claim{}, err
	}

	prev, ok := s.claims.FindByID(id)
	if !ok {
		return benefit.Claim{}, internal.ErrClaimNotFound
	}
	e, ok := s.employees.FindByID(dto.EmployeeID)
	if !ok {
		return benefit.Claim{}, internal.ErrEmployeeNotFound
	}

	grows := e.ID != prev.EmployeeID || dto.Amount.GreaterThan(prev.Amount)
	if dto.Status == benefit.ClaimPending && grows && dto.Amount.GreaterThan(e.HealthCareBenefit.Balance) {
		s.logger.Warn("claim exceeds balance",
			"claim_id", id,
			"employee_id", e.ID,
			"amount", dto.Amount.String(),
			"balance", e.HealthCareBenefit.Balance.String())
		return benefit.Claim{}, internal.ErrInsufficientHealthBalance
	}

	next := benefit.Claim{
		ID:           id,
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Date:         dto.Date,
		Type:         dto.Type,
		Amount:       dto.Amount,
		Status:       dto.Status,
		ReceiptURL:   dto.ReceiptURL,
	}
	return s.replaceClaim(ctx, prev, next)
}

// replaceClaim must be called with s.mu held. The previous charge is
// credited back to its employee and the new charge debited; a debit that
// would leave a negative balance is refused.
func (s *Store) replaceClaim(ctx context.Context, prev, next benefit.Claim) (benefit.Claim, error) {
	touched := map[int64]employee.Employee{}
	load := func(id int64) (employee.Employee, error) {
		if e, ok := touched[id]; ok {
			return e, nil
		}
		e, ok := s.employees.FindByID(id)
		if !ok {
			return employee.Employee{}, internal.ErrEmployeeNotFound
		}
		return e, nil
	}

	if prev.EmployeeID == next.EmployeeID {
		e, err := load(prev.EmployeeID)
		if err != nil {
			return benefit.Claim{}, err
		}
		e.HealthCareBenefit.Balance = e.HealthCareBenefit.Balance.Add(benefit.BalanceDelta(prev, next))
		touched[e.ID] = e
	} else {
		from, err := load(prev.EmployeeID)
		if err != nil {
			return benefit.Claim{}, err
		}
		from.HealthCareBenefit.Balance = from.HealthCareBenefit.Balance.Add(prev.Charge())
		touched[from.ID] = from

		to, err := load(next.EmployeeID)
		if err != nil {
			return benefit.Claim{}, err
		}
		to.HealthCareBenefit.Balance = to.HealthCareBenefit.Balance.Sub(next.Charge())
		touched[to.ID] = to
	}

	for _, e := range touched {
		orig, _ := s.employees.FindByID(e.ID)
		bal := e.HealthCareBenefit.Balance
		if bal.IsNegative() && bal.LessThan(orig.HealthCareBenefit.Balance) {
			s.logger.Warn("claim would overdraw balance",
				"claim_id", next.ID,
				"employee_id", e.ID,
				"balance", e.HealthCareBenefit.Balance.String())
			return benefit.Claim{}, internal.ErrInsufficientHealthBalance
		}
	}

	_ = s.claims.Update(next)
	balanceChanged := false
	for _, e := range touched {
		orig, _ := s.employees.FindByID(e.ID)
		if !orig.HealthCareBenefit.Balance.Equal(e.HealthCareBenefit.Balance) {
			_ = s.employees.Update(e)
			balanceChanged = true
		}
	}

	if err := s.persist(ctx, storage.KeyHealthCareClaims, s.claims.snapshot()); err != nil {
		return next, err
	}
	if balanceChanged {
		if err := s.persist(ctx, storage.KeyEmployees, s.employees.snapshot()); err != nil {
			return next, err
		}
	}

	owner := touched[next.EmployeeID]
	s.logger.Info("claim updated",
		"claim_id", next.ID,
		"employee_id", next.EmployeeID,
		"from", prev.Status,
		"to", next.Status,
		"balance", owner.HealthCareBenefit.Balance.String())
	if prev.Status != next.Status {
		s.publish(ctx, events.NewClaimStatusChangedEvent(next.ID, next.EmployeeID, string(prev.Status), string(next.Status), owner.HealthCareBenefit.Balance))
	}
	return next, nil
}
