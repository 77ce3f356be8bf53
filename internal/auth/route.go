package auth

import (
	"context"
	"net/http"

	"github.com/syrilster/attendance-grid/internal/config"
	"github.com/syrilster/attendance-grid/internal/model"
)

type LoginHandler interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

func Route(handler LoginHandler) (route config.Route) {
	route = config.Route{
		Path:    "/auth/login",
		Method:  http.MethodPost,
		Handler: Handler(handler),
	}

	return route
}
