package middlewares

import (
	"net/http"

	"github.com/syrilster/attendance-grid/internal/util"
)

type healthResponse struct {
	Status string `json:"status"`
}

// RuntimeHealthCheck answers liveness probes without touching the attendance API.
func RuntimeHealthCheck() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WithBodyAndStatus(healthResponse{Status: "ok"}, http.StatusOK, w)
	}
}
