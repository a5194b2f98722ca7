package talent

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	JobPostings() []JobPosting
	OnboardingPlans() []OnboardingPlan
	PerformanceReviews() []PerformanceReview
	AddJobPosting(ctx context.Context, dto JobPostingDTO) (JobPosting, error)
	AddOnboardingPlan(ctx context.Context, dto OnboardingPlanDTO) (OnboardingPlan, error)
	AddPerformanceReview(ctx context.Context, dto PerformanceReviewDTO) (PerformanceReview, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) ListJobPostings(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.JobPostings())
}

func (h *Handler) CreateJobPosting(w http.ResponseWriter, r *http.Request) {
	var dto JobPostingDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	jp, err := h.Service.AddJobPosting(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, jp)
}

func (h *Handler) ListOnboardingPlans(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.OnboardingPlans())
}

func (h *Handler) CreateOnboardingPlan(w http.ResponseWriter, r *http.Request) {
	var dto OnboardingPlanDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	op, err := h.Service.AddOnboardingPlan(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, op)
}

func (h *Handler) ListPerformanceReviews(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.PerformanceReviews())
}

func (h *Handler) CreatePerformanceReview(w http.ResponseWriter, r *http.Request) {
	var dto PerformanceReviewDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	pr, err := h.Service.AddPerformanceReview(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, pr)
}
