package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	"github.com/syrilster/attendance-grid/internal/model"
	"github.com/syrilster/attendance-grid/internal/util"
)

func Handler(handler LoginHandler) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		contextLogger := log.WithContext(ctx)

		var req model.LoginRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, util.MaxBodyBytes)).Decode(&req); err != nil {
			contextLogger.WithError(err).Error("could not parse login request")
			util.WithError("invalid request body", http.StatusBadRequest, w)
			return
		}
		if err := util.Validate(req); err != nil {
			util.WithError(err.Error(), http.StatusBadRequest, w)
			return
		}

		resp, err := handler.Login(ctx, req)
		if err != nil {
			if errors.Is(err, attendanceapi.ErrUnauthorized) {
				util.WithError("Invalid email or password", http.StatusUnauthorized, w)
				return
			}
			util.WithError("Login failed, please try again later", http.StatusBadGateway, w)
			return
		}
		util.WithBodyAndStatus(resp, http.StatusOK, w)
	}
}
