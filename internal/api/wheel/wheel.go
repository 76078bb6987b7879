package wheel

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dto "wheel_predictor/internal/api/dto/wheel"
	"wheel_predictor/internal/converter"
	"wheel_predictor/internal/model"
	"wheel_predictor/internal/service"
	"wheel_predictor/pkg/req"
	"wheel_predictor/pkg/resp"
)

// maxSnapshotBytes - ограничение тела PUT /wheel/snapshot
const maxSnapshotBytes = 32 << 20

type HandlerDeps struct {
	Serv service.WheelService
	Log  *slog.Logger
}

type Handler struct {
	serv service.WheelService
	log  *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Analysis - текущий прогноз, паттерн и статистика
func (h *Handler) Analysis(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToAnalysisResponse(h.serv.Analysis(r.Context())))
}

// Ingest - добавить один исход
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.IngestRequest](r.Body)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.serv.Ingest(r.Context(), payload.Symbol)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToIngestResponse(result))
}

// Batch - сверить внешний список результатов (от новых к старым) с историей
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.BatchRequest](r.Body)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	outcomes, err := converter.ToOutcomes(payload)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.serv.Reconcile(r.Context(), outcomes, model.SourceBatch)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBatchResponse(result))
}

// Snapshot - выгрузка состояния в JSON
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	data, err := h.serv.Snapshot(r.Context())
	if err != nil {
		h.log.Error("snapshot", "error", err)
		http.Error(w, "snapshot failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Restore - загрузка состояния. Поврежденные разделы заменяются значениями по умолчанию
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !json.Valid(data) {
		http.Error(w, "snapshot is not valid json", http.StatusBadRequest)
		return
	}

	defaults := h.serv.Restore(r.Context(), data)
	if defaults == nil {
		defaults = []string{}
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.RestoreResponse{
		Defaults: defaults,
		Analysis: converter.ToAnalysisResponse(h.serv.Analysis(r.Context())),
	})
}

// Reset - сброс всего состояния
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.serv.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrUnknownOutcome) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.log.Error("wheel request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
