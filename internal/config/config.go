package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// EngineConfig - настройки движка прогнозов
type EngineConfig interface {
	MaxHistorySize() int
	LearningRateUp() float64
	LearningRateDown() float64
	AnomalyThreshold() float64
	MaxConfidence() float64
	UpdateInterval() time.Duration
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
	MaxConns() int32
}

// StoreConfig - где хранить снимок состояния: "postgres" или "sqlite"
type StoreConfig interface {
	Driver() string
	SQLitePath() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

// AuthConfig - учетные данные оператора
type AuthConfig interface {
	AdminLogin() string
	AdminPasswordHash() []byte
}

// PollConfig - источник внешних результатов
type PollConfig interface {
	FetchURL() string
	FetchTimeout() time.Duration
	AutoStart() bool
}

type LogConfig interface {
	Level() string
}
