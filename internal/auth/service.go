package auth

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/model"
)

// LoginClient is the part of the attendance API client used for logging in.
type LoginClient interface {
	Login(ctx context.Context, email string, password string) (*model.LoginResponse, error)
}

type Service struct {
	client LoginClient
}

func NewAuthService(c LoginClient) *Service {
	return &Service{client: c}
}

// Login exchanges manager credentials for a session token. The token is
// returned to the caller and not kept here.
func (service Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	ctxLogger := log.WithContext(ctx)
	resp, err := service.client.Login(ctx, req.Email, req.Password)
	if err != nil {
		ctxLogger.WithError(err).Error("Failed to log in to the attendance API")
		return nil, err
	}
	ctxLogger.Infof("Manager %v logged in", req.Email)
	return resp, nil
}
