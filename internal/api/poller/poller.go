package poller

import (
	"errors"
	"log/slog"
	"net/http"

	"wheel_predictor/internal/api/middleware"
	"wheel_predictor/internal/converter"
	"wheel_predictor/internal/service"
	pollerService "wheel_predictor/internal/service/poller"
	"wheel_predictor/pkg/resp"
)

type HandlerDeps struct {
	Serv service.PollerService
	Log  *slog.Logger
}

type Handler struct {
	serv service.PollerService
	log  *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPollStatusResponse(h.serv.Status()))
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.serv.Start(r.Context()); err != nil {
		if errors.Is(err, pollerService.ErrNoFeed) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.log.Error("start poller", "error", err)
		http.Error(w, "start failed", http.StatusInternalServerError)
		return
	}
	h.logOperator(r, "poller start requested")
	resp.WriteJSONResponse(w, http.StatusAccepted, converter.ToPollStatusResponse(h.serv.Status()))
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	h.serv.Stop()
	h.logOperator(r, "poller stop requested")
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPollStatusResponse(h.serv.Status()))
}

func (h *Handler) logOperator(r *http.Request, msg string) {
	if claims, ok := middleware.OperatorFromContext(r.Context()); ok {
		h.log.Info(msg, "operator", claims.Login)
	}
}
