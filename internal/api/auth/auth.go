package auth

import (
	"errors"
	"log/slog"
	"net/http"

	dto "wheel_predictor/internal/api/dto/auth"
	"wheel_predictor/internal/converter"
	"wheel_predictor/internal/service"
	authService "wheel_predictor/internal/service/auth"
	"wheel_predictor/pkg/req"
	"wheel_predictor/pkg/resp"
)

type HandlerDeps struct {
	Serv service.AuthService
	Log  *slog.Logger
}

type Handler struct {
	serv service.AuthService
	log  *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Login проверяет пароль оператора и возвращает access_token
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.LoginRequest](r.Body)
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	operator := converter.ToOperator(requestBody)
	data, err := h.serv.Login(r.Context(), operator.Login, operator.Password)
	if err != nil {
		if errors.Is(err, authService.ErrInvalidCredentials) {
			h.log.Warn("login rejected", "login", operator.Login)
			http.Error(w, "login failed", http.StatusUnauthorized)
			return
		}
		h.log.Error("login", "error", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToLoginResponse(data))
}
