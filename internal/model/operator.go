package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Operator - оператор, которому разрешены сброс и восстановление состояния
type Operator struct {
	Login    string
	Password string
}

type OperatorClaims struct {
	jwt.RegisteredClaims
	Login string `json:"login"`
}

type AuthData struct {
	AccessToken string
	ExpiresAt   time.Time
}
