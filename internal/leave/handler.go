package leave

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/approval"
	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	LeaveRequestsVisibleTo(viewerID int64) []Request
	GetLeaveRequest(id int64) (Request, error)
	CanView(viewerID, subjectID int64) bool
	CheckLeaveAvailability(employeeID int64, t Type, start, end string) (Availability, error)
	AddLeaveRequest(ctx context.Context, dto CreateRequestDTO) (Request, error)
	ActOnLeaveRequest(ctx context.Context, actorID, id int64, target approval.Status) (Request, error)
	AvailableActions(actorID, requesterID int64, current approval.Status) []approval.Action
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

func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.LeaveRequestsVisibleTo(p.ID))
}

// CreateLeaveRequest files a request for the caller, or for an employee the
// caller manages when employeeId is set.
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
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

	req, err := h.Service.AddLeaveRequest(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateLeaveRequest: leave request filed",
		"leave_request_id", req.ID,
		"employee_id", req.EmployeeID,
		"type", req.Type)
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto AvailabilityDTO
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

	res, err := h.Service.CheckLeaveAvailability(dto.EmployeeID, dto.Type, dto.StartDate, dto.EndDate)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
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

	req, err := h.Service.ActOnLeaveRequest(r.Context(), p.ID, id, approval.Status(dto.Status))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

// Actions lists what the caller may do next with the request.
func (h *Handler) Actions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	req, err := h.Service.GetLeaveRequest(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !h.Service.CanView(p.ID, req.EmployeeID) {
		h.HandleServiceError(w, internal.ErrUnauthorizedAccess)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  req.Status,
		"actions": h.Service.AvailableActions(p.ID, req.EmployeeID, req.Status),
	})
}
