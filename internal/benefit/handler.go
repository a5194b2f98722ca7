package benefit

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	HealthCareClaimsVisibleTo(viewerID int64) []Claim
	CanView(viewerID, subjectID int64) bool
	AddHealthCareClaim(ctx context.Context, dto CreateClaimDTO) (Claim, error)
	UpdateHealthCareClaim(ctx context.Context, id int64, dto UpdateClaimDTO) (Claim, error)
	UpdateHealthCareClaimStatus(ctx context.Context, id int64, status ClaimStatus) (Claim, error)
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

func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.HealthCareClaimsVisibleTo(p.ID))
}

func (h *Handler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto CreateClaimDTO
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

	c, err := h.Service.AddHealthCareClaim(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateClaim: claim filed",
		"claim_id", c.ID,
		"employee_id", c.EmployeeID,
		"amount", c.Amount.String())
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto UpdateClaimDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.UpdateHealthCareClaim(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto UpdateStatusDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	c, err := h.Service.UpdateHealthCareClaimStatus(r.Context(), id, dto.Status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateStatus: claim status changed", "claim_id", id, "status", c.Status)
	h.WriteJSON(w, http.StatusOK, c)
}
