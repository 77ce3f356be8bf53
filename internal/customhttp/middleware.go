package customhttp

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	appctx "github.com/syrilster/attendance-grid/internal/context"
)

const headerKeyRequestID = "X-Request-ID"

type middleware func(next httpCommandFunc) httpCommandFunc

func chainMiddleware(m ...middleware) middleware {
	return func(final httpCommandFunc) httpCommandFunc {
		last := final
		for i := len(m) - 1; i >= 0; i-- {
			last = m[i](last)
		}

		return func(req *http.Request) (resp *http.Response, err error) {
			return last(req)
		}
	}
}

// requestIDMiddleware forwards the inbound request id to the remote API.
func requestIDMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			if id := appctx.RequestID(req.Context()); id != "" && req.Header.Get(headerKeyRequestID) == "" {
				req.Header.Set(headerKeyRequestID, id)
			}
			return next(req)
		}
	}
}

func loggingMiddleware() middleware {
	return func(next httpCommandFunc) httpCommandFunc {
		return func(req *http.Request) (resp *http.Response, err error) {
			start := time.Now()
			resp, err = next(req)

			fields := log.Fields{
				"method":  req.Method,
				"url":     req.URL.Path,
				"latency": time.Since(start).String(),
			}
			ctxLogger := log.WithContext(req.Context()).WithFields(fields)
			if err != nil {
				ctxLogger.WithError(err).Warn("outbound request failed")
				return resp, err
			}
			ctxLogger.WithField("status", resp.StatusCode).Debug("outbound request")
			return resp, nil
		}
	}
}
