package settings

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	Settings() Settings
	UpdateSettings(ctx context.Context, next Settings, propagate Propagation) (int, error)
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

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Settings())
}

// UpdateSettings replaces the settings and reports how many employees the
// requested propagation touched.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto UpdateDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	affected, err := h.Service.UpdateSettings(r.Context(), dto.Settings, dto.Propagate)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("UpdateSettings: settings replaced",
		"propagate_leave", dto.Propagate.Leave,
		"propagate_health", dto.Propagate.Health,
		"affected", affected)
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"settings": h.Service.Settings(),
		"affected": affected,
	})
}
