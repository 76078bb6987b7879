package auth

import (
	"errors"
	"time"

	"wheel_predictor/internal/config"
	"wheel_predictor/internal/service"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type serv struct {
	authConfig config.AuthConfig
	jwtConfig  config.JWTConfig
	now        func() time.Time
}

// NewAuthService Оператор один, учетные данные берутся из конфигурации
func NewAuthService(authConfig config.AuthConfig, jwtConfig config.JWTConfig) service.AuthService {
	return &serv{
		authConfig: authConfig,
		jwtConfig:  jwtConfig,
		now:        time.Now,
	}
}
