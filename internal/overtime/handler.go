package overtime

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/approval"
	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	OvertimeRequestsVisibleTo(viewerID int64) []Request
	CanView(viewerID, subjectID int64) bool
	AddOvertimeRequest(ctx context.Context, dto CreateRequestDTO) (Request, error)
	ActOnOvertimeRequest(ctx context.Context, actorID, id int64, target approval.Status) (Request, error)
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

func (h *Handler) ListOvertimeRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.OvertimeRequestsVisibleTo(p.ID))
}

func (h *Handler) CreateOvertimeRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto CreateRequestDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if dto.EmployeeID == 0 {
		dto.EmployeeID = p.ID
	}
	if !h.Service.CanView(p.ID, dto.EmployeeID) {
		h.HandleServiceError(w, internal.ErrUnauthorizedAccess)
		return
	}

	req, err := h.Service.AddOvertimeRequest(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateOvertimeRequest: overtime filed",
		"overtime_request_id", req.ID,
		"employee_id", req.EmployeeID,
		"hours", req.Hours)
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto UpdateStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	req, err := h.Service.ActOnOvertimeRequest(r.Context(), p.ID, id, approval.Status(dto.Status))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}
