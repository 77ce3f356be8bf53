package attendanceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/googleapis/gax-go/v2"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/customhttp"
	"github.com/syrilster/attendance-grid/internal/grid"
	"github.com/syrilster/attendance-grid/internal/model"
)

const (
	headerKeyAuth = "Authorization"
	bearer        = "Bearer"
)

type ClientInterface interface {
	Login(ctx context.Context, email string, password string) (*model.LoginResponse, error)
	GetUsers(ctx context.Context, sess model.Session) ([]User, error)
	AddUser(ctx context.Context, sess model.Session, user NewUser) (*User, error)
	GetAttendance(ctx context.Context, sess model.Session, month int, year int) ([]grid.Record, error)
	MarkByToken(ctx context.Context, tokenCode string) (*MarkResponse, error)
	GetHistory(ctx context.Context, tokenCode string) ([]HistoryEntry, error)
}

func NewClient(endpoint string, c customhttp.HTTPCommand, rateLimitTimeout time.Duration) *client {
	return &client{
		URL:              endpoint,
		Client:           c,
		RateLimitBackoff: defaultRateLimitBackoff,
		RateLimitTimeout: rateLimitTimeout,
	}
}

type client struct {
	URL              string
	Client           customhttp.HTTPCommand
	RateLimitBackoff *gax.Backoff
	RateLimitTimeout time.Duration
}

// call sends one request and returns the response body of a 2xx answer.
func (c *client) call(ctx context.Context, apiName string, method string, endpoint string, sess *model.Session, payload interface{}) ([]byte, error) {
	contextLogger := log.WithContext(ctx)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		httpRequest.Header.Set(headerKeyAuth, fmt.Sprintf("%s %s", bearer, sess.Token))
	}
	if payload != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	httpRequest.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(httpRequest)
	if err != nil {
		contextLogger.WithError(err).Errorf("there was an error calling the attendance API (%s). %v", apiName, err)
		return nil, fmt.Errorf("failed to execute %s request. Cause %v, %w", apiName, err, ErrNonRetryable)
	}

	defer func() {
		if err = resp.Body.Close(); err != nil {
			contextLogger.WithError(err).Errorf("Error closing the ioReader. %v", err)
		}
	}()

	if err := getHTTPStatusCode(ctx, resp, apiName); err != nil {
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		contextLogger.WithError(err).Errorf("error reading attendance API resp body (%s)", respBody)
		return nil, fmt.Errorf("error reading attendance API resp body. cause: %v %w", err, ErrNonRetryable)
	}
	return respBody, nil
}

func unmarshal(ctx context.Context, body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		log.WithContext(ctx).WithError(err).Errorf("there was an error un marshalling the attendance API resp. %v", err)
		return fmt.Errorf("there was an error un marshalling the attendance API resp. %v", err)
	}
	return nil
}

func (c *client) buildLoginEndpoint() string {
	return c.URL + "/auth/login"
}

func (c *client) buildUsersEndpoint() string {
	return c.URL + "/users"
}

func (c *client) buildAttendanceEndpoint(month int, year int) string {
	return fmt.Sprintf("%s/attendance?month=%d&year=%d", c.URL, month, year)
}

func (c *client) buildMarkEndpoint() string {
	return c.URL + "/attendance/mark-by-token"
}
