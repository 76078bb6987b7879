package auth

import (
	"context"
	"crypto/subtle"

	"wheel_predictor/internal/model"
	"wheel_predictor/pkg/pass"
	"wheel_predictor/pkg/token"
)

func (s *serv) Login(_ context.Context, login, password string) (*model.AuthData, error) {
	// Проверка логина и пароля оператора
	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.authConfig.AdminLogin())) == 1
	passwordOK := pass.VerifyPassword(string(s.authConfig.AdminPasswordHash()), password)
	if !loginOK || !passwordOK {
		return nil, ErrInvalidCredentials
	}

	// Создать access токен
	accessToken, expiresAt, err := token.GenerateAccessToken(
		login,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration(),
		s.now())
	if err != nil {
		return nil, err
	}

	return &model.AuthData{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}
