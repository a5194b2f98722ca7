package state

import (
	"context"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/talent"
)

func (s *Store) JobPostings() []talent.JobPosting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobPostings.All()
}

func (s *Store) OnboardingPlans() []talent.OnboardingPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboardingPlans.All()
}

func (s *Store) PerformanceReviews() []talent.PerformanceReview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.performanceReviews.All()
}

func (s *Store) AddJobPosting(ctx context.Context, dto talent.JobPostingDTO) (talent.JobPosting, error) {
	if err := dto.Validate(); err != nil {
		return talent.JobPosting{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return talent.JobPosting{}, err
	}

	j := talent.JobPosting{ID: s.ids.Next(), Title: dto.Title, Department: dto.Department, Status: dto.Status}
	if j.Status == "" {
		j.Status = talent.PostingOpen
	}
	s.jobPostings.Add(j)
	if err := s.persist(ctx, storage.KeyJobPostings, s.jobPostings.snapshot()); err != nil {
		return j, err
	}
	s.logger.Info("job posting created", "job_posting_id", j.ID)
	return j, nil
}

func (s *Store) AddOnboardingPlan(ctx context.Context, dto talent.OnboardingPlanDTO) (talent.OnboardingPlan, error) {
	if err := dto.Validate(); err != nil {
		return talent.OnboardingPlan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return talent.OnboardingPlan{}, err
	}

	p := talent.OnboardingPlan{
		ID:           s.ids.Next(),
		EmployeeName: dto.EmployeeName,
		Role:         dto.Role,
		StartDate:    dto.StartDate,
		Manager:      dto.Manager,
	}
	s.onboardingPlans.Add(p)
	if err := s.persist(ctx, storage.KeyOnboardingPlans, s.onboardingPlans.snapshot()); err != nil {
		return p, err
	}
	s.logger.Info("onboarding plan created", "onboarding_plan_id", p.ID)
	return p, nil
}

func (s *Store) AddPerformanceReview(ctx context.Context, dto talent.PerformanceReviewDTO) (talent.PerformanceReview, error) {
	if err := dto.Validate(); err != nil {
		return talent.PerformanceReview{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return talent.PerformanceReview{}, err
	}

	e, ok := s.employees.FindByID(dto.EmployeeID)
	if !ok {
		return talent.PerformanceReview{}, internal.ErrEmployeeNotFound
	}
	r := talent.PerformanceReview{
		ID:           s.ids.Next(),
		EmployeeID:   e.ID,
		EmployeeName: e.Name,
		Date:         dto.Date,
		Status:       talent.ReviewPending,
	}
	s.performanceReviews.Add(r)
	if err := s.persist(ctx, storage.KeyPerformanceReviews, s.performanceReviews.snapshot()); err != nil {
		return r, err
	}
	s.logger.Info("performance review scheduled", "review_id", r.ID, "employee_id", e.ID)
	return r, nil
}
