package util

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// MaxBodyBytes limits the JSON request bodies the service accepts.
const MaxBodyBytes = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
}

// WithBodyAndStatus writes body as JSON with the given status. A nil body
// writes the status only.
func WithBodyAndStatus(body interface{}, status int, w http.ResponseWriter) {
	if body == nil {
		w.WriteHeader(status)
		return
	}

	b, err := json.Marshal(body)
	if err != nil {
		log.WithError(err).Error("failed to marshal response body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		log.WithError(err).Error("failed to write response body")
	}
}

// WithError writes {"message": msg} with the given status.
func WithError(msg string, status int, w http.ResponseWriter) {
	WithBodyAndStatus(errorResponse{Message: msg}, status, w)
}
