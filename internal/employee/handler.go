package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	EmployeesVisibleTo(viewerID int64) []Employee
	GetEmployee(id int64) (Employee, error)
	CanView(viewerID, subjectID int64) bool
	AddEmployee(ctx context.Context, dto EmployeeDTO) (Employee, error)
	UpdateEmployee(ctx context.Context, id int64, dto EmployeeDTO) (Employee, error)
	DeactivateEmployee(ctx context.Context, id int64) (Employee, error)
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

func public(list []Employee) []Employee {
	out := make([]Employee, len(list))
	for i, e := range list {
		out[i] = e.Public()
	}
	return out
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, public(h.Service.EmployeesVisibleTo(p.ID)))
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	e, err := h.Service.GetEmployee(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !h.Service.CanView(p.ID, id) {
		h.HandleServiceError(w, internal.ErrUnauthorizedAccess)
		return
	}
	h.WriteJSON(w, http.StatusOK, e.Public())
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.AddEmployee(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created", "employee_id", e.ID)
	h.WriteJSON(w, http.StatusCreated, e.Public())
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.UpdateEmployee(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, e.Public())
}

func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}

	e, err := h.Service.DeactivateEmployee(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeactivateEmployee: employee deactivated", "employee_id", id)
	h.WriteJSON(w, http.StatusOK, e.Public())
}
