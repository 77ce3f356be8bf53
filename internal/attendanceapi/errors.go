package attendanceapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
	ErrNonRetryable = errors.New("non retryable")
)

// APIError is returned when the attendance API answers with a non 2xx status.
type APIError struct {
	API        string
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("failed to call %s with cause %d %v", e.API, e.StatusCode, e.kind)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type messageResponse struct {
	Message string `json:"message"`
}

func getHTTPStatusCode(ctx context.Context, resp *http.Response, apiName string) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	contextLogger := log.WithContext(ctx)
	contextLogger.Infof("status returned from attendance service %s ", resp.Status)

	apiErr := &APIError{
		API:        apiName,
		StatusCode: resp.StatusCode,
		Message:    readMessage(resp.Body),
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		apiErr.kind = ErrUnauthorized
	case http.StatusTooManyRequests:
		apiErr.kind = ErrRateLimited
	default:
		apiErr.kind = ErrNonRetryable
	}
	return apiErr
}

// readMessage extracts the {"message": ...} body the API sends with errors.
func readMessage(body io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var m messageResponse
	if err := json.Unmarshal(b, &m); err != nil {
		return ""
	}
	return m.Message
}
