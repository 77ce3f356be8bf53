package attendanceapi

import (
	"context"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/model"
)

const (
	getUsersAPIName = "GetUsers"
	addUserAPIName  = "AddUser"
)

func (c *client) GetUsers(ctx context.Context, sess model.Session) ([]User, error) {
	log.WithContext(ctx).Info("Fetching all users")

	body, err := c.call(ctx, getUsersAPIName, http.MethodGet, c.buildUsersEndpoint(), &sess, nil)
	if err != nil {
		return nil, err
	}

	var response []User
	if err := unmarshal(ctx, body, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// AddUser creates a team member. The API answers either with the user or
// with {"user": ...}; both are accepted.
func (c *client) AddUser(ctx context.Context, sess model.Session, user NewUser) (*User, error) {
	log.WithContext(ctx).Info("Adding user with token code: ", user.TokenCode)

	body, err := c.call(ctx, addUserAPIName, http.MethodPost, c.buildUsersEndpoint(), &sess, user)
	if err != nil {
		return nil, err
	}

	wrapped := &addUserResponse{}
	if err := unmarshal(ctx, body, wrapped); err != nil {
		return nil, err
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}

	response := &User{}
	if err := unmarshal(ctx, body, response); err != nil {
		return nil, err
	}
	return response, nil
}
