package attendance

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/frahmantamala/hr-core/internal/transport"
	"github.com/frahmantamala/hr-core/pkg/logger"
)

type ServiceAPI interface {
	TimeRecordsVisibleTo(viewerID int64) []TimeRecord
	TimeRecords() []TimeRecord
	MarkAbsences(ctx context.Context, date string) (int, error)
	BiometricDevices() []Device
	AddBiometricDevice(ctx context.Context, dto DeviceDTO) (Device, error)
	UpdateBiometricDevice(ctx context.Context, id int64, dto DeviceDTO) (Device, error)
	DeleteBiometricDevice(ctx context.Context, id int64) error
	BiometricLogs() []Log
	SyncBiometricData(ctx context.Context) (SyncResult, error)
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

func (h *Handler) ListTimeRecords(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Principal(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.TimeRecordsVisibleTo(p.ID))
}

// ExportTimeRecords streams every record as an xlsx workbook.
func (h *Handler) ExportTimeRecords(w http.ResponseWriter, r *http.Request) {
	records := h.Service.TimeRecords()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, records); err != nil {
		h.Logger.Error("ExportTimeRecords: failed to render workbook", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to export time records")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="time-records.xlsx"`)
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("ExportTimeRecords: write failed", "error", err)
	}
}

func (h *Handler) MarkAbsences(w http.ResponseWriter, r *http.Request) {
	var dto AbsenceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	n, err := h.Service.MarkAbsences(r.Context(), dto.Date)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"date": dto.Date, "marked": n})
}

func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.BiometricDevices())
}

func (h *Handler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var dto DeviceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	d, err := h.Service.AddBiometricDevice(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var dto DeviceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	d, err := h.Service.UpdateBiometricDevice(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeleteBiometricDevice(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.BiometricLogs())
}

func (h *Handler) SyncDevices(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.SyncBiometricData(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, res)
}
