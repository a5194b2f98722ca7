package memo

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	Memos() []Memo
	AddMemo(ctx context.Context, dto MemoDTO) (Memo, error)
	UpdateMemo(ctx context.Context, id int64, dto MemoDTO) (Memo, error)
	DeleteMemo(ctx context.Context, id int64) error
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

func (h *Handler) ListMemos(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Memos())
}

func (h *Handler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var dto MemoDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	m, err := h.Service.AddMemo(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto MemoDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	m, err := h.Service.UpdateMemo(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteMemo(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
