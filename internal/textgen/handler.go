package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	GenerateJobDescription(ctx context.Context, title, requirements string) string
	GeneratePerformanceReview(ctx context.Context, name, achievements, improvementAreas string) string
	AnalyzeChartData(ctx context.Context, chartTitle, dataSummary string) string
	GenerateOnboardingPlan(ctx context.Context, role, department string) string
	GenerateEmployeeSchedule(ctx context.Context, position, department string) string
	NewChat(systemInstruction string) *Chat
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI

	mu    sync.Mutex
	chats map[int64]*Chat
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
		chats:       make(map[int64]*Chat),
	}
}

type TextResponse struct {
	Text string `json:"text"`
}

type JobDescriptionRequest struct {
	Title        string `json:"title"`
	Requirements string `json:"requirements"`
}

type PerformanceReviewRequest struct {
	Name             string `json:"name"`
	Achievements     string `json:"achievements"`
	ImprovementAreas string `json:"improvementAreas"`
}

type ChartInsightsRequest struct {
	ChartTitle  string `json:"chartTitle"`
	DataSummary string `json:"dataSummary"`
}

type RoleRequest struct {
	Role       string `json:"role"`
	Position   string `json:"position"`
	Department string `json:"department"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) JobDescription(w http.ResponseWriter, r *http.Request) {
	var req JobDescriptionRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		h.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}
	h.WriteJSON(w, http.StatusOK, TextResponse{Text: h.Service.GenerateJobDescription(r.Context(), req.Title, req.Requirements)})
}

func (h *Handler) PerformanceReview(w http.ResponseWriter, r *http.Request) {
	var req PerformanceReviewRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	text := h.Service.GeneratePerformanceReview(r.Context(), req.Name, req.Achievements, req.ImprovementAreas)
	h.WriteJSON(w, http.StatusOK, TextResponse{Text: text})
}

func (h *Handler) ChartInsights(w http.ResponseWriter, r *http.Request) {
	var req ChartInsightsRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	h.WriteJSON(w, http.StatusOK, TextResponse{Text: h.Service.AnalyzeChartData(r.Context(), req.ChartTitle, req.DataSummary)})
}

// OnboardingPlan answers with the generated JSON document as-is, including
// the {"error": ...} fallback.
func (h *Handler) OnboardingPlan(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	role := req.Role
	if role == "" {
		role = req.Position
	}
	h.WriteJSON(w, http.StatusOK, json.RawMessage(h.Service.GenerateOnboardingPlan(r.Context(), role, req.Department)))
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	position := req.Position
	if position == "" {
		position = req.Role
	}
	h.WriteJSON(w, http.StatusOK, json.RawMessage(h.Service.GenerateEmployeeSchedule(r.Context(), position, req.Department)))
}

// Chat keeps one conversation per authenticated employee.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var req ChatRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.WriteError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply := h.chatFor(p.ID).SendMessage(r.Context(), req.Message)
	h.WriteJSON(w, http.StatusOK, TextResponse{Text: reply})
}

func (h *Handler) ResetChat(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.mu.Lock()
	delete(h.chats, p.ID)
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) chatFor(employeeID int64) *Chat {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.chats[employeeID]
	if !ok {
		ch = h.Service.NewChat(AssistantInstruction)
		h.chats[employeeID] = ch
	}
	return ch
}
