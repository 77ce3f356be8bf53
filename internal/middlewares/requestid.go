package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	appctx "github.com/syrilster/attendance-grid/internal/context"
)

const headerKeyRequestID = "X-Request-ID"

// RequestID tags every inbound request with an id, reusing the caller's
// X-Request-ID when present, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerKeyRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(appctx.WithRequestID(r.Context(), id)))
	})
}
