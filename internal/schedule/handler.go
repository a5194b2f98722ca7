package schedule

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	SchedulesVisibleTo(viewerID int64) []Schedule
	CanView(viewerID, subjectID int64) bool
	AddSchedule(ctx context.Context, dto CreateDTO) (Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, dto UpdateDTO) (Schedule, error)
	SuggestSchedule(employeeID int64) (Week, error)
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

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.SchedulesVisibleTo(p.ID))
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var dto CreateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	sc, err := h.Service.AddSchedule(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateSchedule: schedule added",
		"schedule_id", sc.ID,
		"employee_id", sc.EmployeeID,
		"effective_date", sc.EffectiveDate)
	h.WriteJSON(w, http.StatusCreated, sc)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto UpdateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	sc, err := h.Service.UpdateSchedule(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sc)
}

// SuggestSchedule proposes a week without saving anything.
func (h *Handler) SuggestSchedule(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto SuggestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if dto.EmployeeID == 0 {
		h.WriteJSON(w, http.StatusOK, DefaultTemplate(dto.Position, dto.Department))
		return
	}
	if !h.Service.CanView(p.ID, dto.EmployeeID) {
		h.HandleServiceError(w, internal.ErrUnauthorizedAccess)
		return
	}
	week, err := h.Service.SuggestSchedule(dto.EmployeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, week)
}
