package auth

import (
	"wheel_predictor/internal/model"
	"wheel_predictor/pkg/token"
)

// Verify проверяет подпись и срок действия токена оператора
func (s *serv) Verify(accessToken string) (*model.OperatorClaims, error) {
	claims, err := token.VerifyToken(accessToken, s.jwtConfig.AccessTokenSecretKey())
	if err != nil {
		return nil, err
	}
	if claims.Login != s.authConfig.AdminLogin() {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
