package health

import (
	"net/http"

	"wheel_predictor/internal/api/dto/poller"
	"wheel_predictor/internal/api/dto/wheel"
	"wheel_predictor/internal/converter"
	"wheel_predictor/internal/service"
	"wheel_predictor/pkg/resp"
)

type HandlerDeps struct {
	Wheel  service.WheelService
	Poller service.PollerService
}

type Handler struct {
	wheel  service.WheelService
	poller service.PollerService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{wheel: deps.Wheel, poller: deps.Poller}
}

type response struct {
	Store  wheel.StoreResponse   `json:"store"`
	Poller poller.StatusResponse `json:"poller"`
}

// Health - 503, если последнее сохранение состояния не удалось или журнал недоступен
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	store := h.wheel.StoreStatus(r.Context())
	status := http.StatusOK
	if !store.Healthy {
		status = http.StatusServiceUnavailable
	}
	resp.WriteJSONResponse(w, status, response{
		Store:  converter.ToStoreResponse(store),
		Poller: converter.ToPollStatusResponse(h.poller.Status()),
	})
}
