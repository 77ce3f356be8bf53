package attendanceapi

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/model"
)

const loginAPIName = "Login"

var errEmptyToken = errors.New("attendance API returned an empty token")

func (c *client) Login(ctx context.Context, email string, password string) (*model.LoginResponse, error) {
	contextLogger := log.WithContext(ctx)
	contextLogger.Info("Logging in manager: ", email)

	body, err := c.call(ctx, loginAPIName, http.MethodPost, c.buildLoginEndpoint(), nil,
		model.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	response := &model.LoginResponse{}
	if err := unmarshal(ctx, body, response); err != nil {
		return nil, err
	}
	if response.Token == "" {
		return nil, errEmptyToken
	}
	return response, nil
}
