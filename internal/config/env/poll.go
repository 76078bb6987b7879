package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"wheel_predictor/internal/config"
)

const (
	fetchURLEnvName     = "FETCH_URL"
	fetchTimeoutEnvName = "FETCH_TIMEOUT"
	pollAutoStartName   = "POLL_AUTOSTART"

	defaultFetchTimeout = 15 * time.Second
)

type pollConfig struct {
	url       string
	timeout   time.Duration
	autoStart bool
}

// NewPollConfig - пустой FETCH_URL означает, что опрос выключен
func NewPollConfig() (config.PollConfig, error) {
	cfg := &pollConfig{
		url:     os.Getenv(fetchURLEnvName),
		timeout: defaultFetchTimeout,
	}

	if raw := os.Getenv(fetchTimeoutEnvName); len(raw) != 0 {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid fetch timeout: %w", err)
		}
		cfg.timeout = timeout
	}

	if raw := os.Getenv(pollAutoStartName); len(raw) != 0 {
		autoStart, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid poll autostart flag: %w", err)
		}
		cfg.autoStart = autoStart
	}

	return cfg, nil
}

func (cfg *pollConfig) FetchURL() string {
	return cfg.url
}

func (cfg *pollConfig) FetchTimeout() time.Duration {
	return cfg.timeout
}

func (cfg *pollConfig) AutoStart() bool {
	return cfg.autoStart && len(cfg.url) != 0
}
