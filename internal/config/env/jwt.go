package env

import (
	"errors"
	"fmt"
	"os"
	"time"

	"wheel_predictor/internal/config"
)

const (
	accessTokenKeyEnvName      = "ACCESS_TOKEN"
	accessTokenDurationEnvName = "ACCESS_TOKEN_DURATION"

	// смена оператора
	defaultAccessTokenDuration = 12 * time.Hour
)

type jwtConfig struct {
	secretKey string
	duration  time.Duration
}

// NewJWTConfig - без ACCESS_TOKEN сервер не стартует, срок жизни токена по умолчанию 12h
func NewJWTConfig() (config.JWTConfig, error) {
	secret := os.Getenv(accessTokenKeyEnvName)
	if len(secret) == 0 {
		return nil, errors.New("access token secret key not found")
	}

	cfg := &jwtConfig{
		secretKey: secret,
		duration:  defaultAccessTokenDuration,
	}

	if raw := os.Getenv(accessTokenDurationEnvName); len(raw) != 0 {
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid access token duration: %w", err)
		}
		if duration <= 0 {
			return nil, fmt.Errorf("access token duration must be positive, got %v", duration)
		}
		cfg.duration = duration
	}

	return cfg, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return []byte(j.secretKey)
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.duration
}
