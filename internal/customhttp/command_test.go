package customhttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	appctx "github.com/syrilster/attendance-grid/internal/context"
)

func TestBuild_ForwardsRequestID(t *testing.T) {
	var got string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(headerKeyRequestID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer s.Close()

	cmd := New(WithHTTPClient(s.Client()), WithRequestLogging()).Build()

	ctx := appctx.WithRequestID(context.Background(), "abc-123")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	require.NoError(t, err)

	resp, err := cmd.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "abc-123", got)
}

func TestChainMiddleware_Order(t *testing.T) {
	var calls []string
	mark := func(name string) middleware {
		return func(next httpCommandFunc) httpCommandFunc {
			return func(req *http.Request) (*http.Response, error) {
				calls = append(calls, name)
				return next(req)
			}
		}
	}
	final := func(req *http.Request) (*http.Response, error) {
		calls = append(calls, "final")
		return &http.Response{StatusCode: http.StatusOK}, nil
	}

	cmd := chainMiddleware(mark("first"), mark("second"))(final)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := cmd(req)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "final"}, calls)
}
