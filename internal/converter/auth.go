package converter

import (
	"wheel_predictor/internal/api/dto/auth"
	"wheel_predictor/internal/model"
)

func ToOperator(req auth.LoginRequest) model.Operator {
	return model.Operator{
		Login:    req.Login,
		Password: req.Password,
	}
}

func ToLoginResponse(data *model.AuthData) auth.LoginResponse {
	return auth.LoginResponse{
		AccessToken: data.AccessToken,
		ExpiresAt:   data.ExpiresAt,
	}
}
