package converter

import (
	"wheel_predictor/internal/api/dto/poller"
	"wheel_predictor/internal/model"
)

func ToPollStatusResponse(s model.PollStatus) poller.StatusResponse {
	return poller.StatusResponse{
		State:      s.State,
		Running:    s.Running,
		LastUpdate: s.LastUpdate,
		LastError:  s.LastError,
		Ingested:   s.Ingested,
	}
}
