package env

import (
	"errors"
	"os"

	"wheel_predictor/internal/config"
)

const (
	adminLoginEnvName        = "ADMIN_LOGIN"
	adminPasswordHashEnvName = "ADMIN_PASSWORD_HASH"

	defaultAdminLogin = "admin"
)

type authConfig struct {
	login        string
	passwordHash string
}

// NewAuthConfig - хэш пароля в формате bcrypt
func NewAuthConfig() (config.AuthConfig, error) {
	hash := os.Getenv(adminPasswordHashEnvName)
	if len(hash) == 0 {
		return nil, errors.New("admin password hash not found")
	}

	login := os.Getenv(adminLoginEnvName)
	if len(login) == 0 {
		login = defaultAdminLogin
	}

	return &authConfig{
		login:        login,
		passwordHash: hash,
	}, nil
}

func (cfg *authConfig) AdminLogin() string {
	return cfg.login
}

func (cfg *authConfig) AdminPasswordHash() []byte {
	return []byte(cfg.passwordHash)
}
