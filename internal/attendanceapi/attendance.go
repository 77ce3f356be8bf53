package attendanceapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/googleapis/gax-go/v2"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/grid"
	"github.com/syrilster/attendance-grid/internal/model"
)

const (
	attendanceAPIName = "GetAttendance"
	markAPIName       = "MarkByToken"
	historyAPIName    = "GetHistory"
)

// GetAttendance fetches every record of month/year. A 429 answer is retried
// with backoff until the client's rate limit timeout expires.
func (c *client) GetAttendance(ctx context.Context, sess model.Session, month int, year int) ([]grid.Record, error) {
	contextLogger := log.WithContext(ctx)
	contextLogger.Infof("Fetching attendance for %d/%d", month, year)

	retryCtx, cancel, backOff := newRetry(ctx, c.RateLimitBackoff, c.RateLimitTimeout)
	defer cancel()

	for {
		res, err := c.getAttendance(ctx, sess, month, year)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				d := backOff.Pause()
				contextLogger.Infof("Attendance API rate limited, retrying in %v", d)
				if innerErr := gax.Sleep(retryCtx, d); innerErr != nil {
					return nil, fmt.Errorf("failed, retry limit expired: %w", err)
				}
				continue
			}
			return nil, err
		}
		return res, nil
	}
}

func (c *client) getAttendance(ctx context.Context, sess model.Session, month int, year int) ([]grid.Record, error) {
	body, err := c.call(ctx, attendanceAPIName, http.MethodGet, c.buildAttendanceEndpoint(month, year), &sess, nil)
	if err != nil {
		return nil, err
	}

	var response []grid.Record
	if err := unmarshal(ctx, body, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// MarkByToken marks today's attendance for the employee owning tokenCode.
func (c *client) MarkByToken(ctx context.Context, tokenCode string) (*MarkResponse, error) {
	log.WithContext(ctx).Info("Marking attendance for token code: ", tokenCode)

	body, err := c.call(ctx, markAPIName, http.MethodPost, c.buildMarkEndpoint(), nil, MarkRequest{TokenCode: tokenCode})
	if err != nil {
		return nil, err
	}

	response := &MarkResponse{}
	if err := unmarshal(ctx, body, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetHistory returns the recent attendance of the employee owning tokenCode.
func (c *client) GetHistory(ctx context.Context, tokenCode string) ([]HistoryEntry, error) {
	endpoint := c.URL + "/attendance/history/" + url.PathEscape(tokenCode)
	body, err := c.call(ctx, historyAPIName, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var response []HistoryEntry
	if err := unmarshal(ctx, body, &response); err != nil {
		return nil, err
	}
	return response, nil
}
