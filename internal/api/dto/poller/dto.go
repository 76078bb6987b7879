package poller

import "time"

type StatusResponse struct {
	State      string     `json:"state"` // online, offline, updating, stopped
	Running    bool       `json:"running"`
	LastUpdate *time.Time `json:"last_update"`
	LastError  string     `json:"last_error,omitempty"`
	Ingested   int        `json:"ingested"`
}
