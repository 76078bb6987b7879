package middleware

import (
	"context"
	"net/http"
	"strings"

	"wheel_predictor/internal/model"
	"wheel_predictor/internal/service"
)

type ctxKey struct{}

// RequireOperator пропускает запрос только с действующим Bearer токеном оператора
func RequireOperator(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.Verify(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// OperatorFromContext - данные токена, проверенного RequireOperator
func OperatorFromContext(ctx context.Context) (*model.OperatorClaims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*model.OperatorClaims)
	return claims, ok
}
