package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	"github.com/syrilster/attendance-grid/internal/export"
	"github.com/syrilster/attendance-grid/internal/model"
	"github.com/syrilster/attendance-grid/internal/util"
)

type period struct {
	Month int `validate:"min=1,max=12"`
	Year  int `validate:"min=1970,max=9999"`
}

// GridHandler shows the month's grid and makes it the session's current dataset.
func GridHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		sess, p, ok := sessionAndPeriod(h, res, req)
		if !ok {
			return
		}

		snap, err := h.Show(req.Context(), sess, p.Month, p.Year)
		if err != nil {
			writeError(res, err, "Failed to load attendance data")
			return
		}
		util.WithBodyAndStatus(snap, http.StatusOK, res)
	}
}

func CurrentHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		sess, _ := model.SessionFrom(req.Context())
		snap, ok := h.Current(sess)
		if !ok {
			util.WithError("no attendance data shown yet", http.StatusNotFound, res)
			return
		}
		util.WithBodyAndStatus(snap, http.StatusOK, res)
	}
}

func SummaryHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		sess, p, ok := sessionAndPeriod(h, res, req)
		if !ok {
			return
		}

		summary, err := h.Summary(req.Context(), sess, p.Month, p.Year)
		if err != nil {
			writeError(res, err, "Failed to load attendance data")
			return
		}
		util.WithBodyAndStatus(summary, http.StatusOK, res)
	}
}

func RecordsHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		sess, p, ok := sessionAndPeriod(h, res, req)
		if !ok {
			return
		}

		records, err := h.Records(req.Context(), sess, p.Month, p.Year)
		if err != nil {
			writeError(res, err, "Failed to fetch attendance")
			return
		}
		util.WithBodyAndStatus(records, http.StatusOK, res)
	}
}

func ExportHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		contextLogger := log.WithContext(ctx)

		format, err := export.ParseFormat(mux.Vars(req)["format"])
		if err != nil {
			util.WithError(err.Error(), http.StatusBadRequest, res)
			return
		}

		sess, p, ok := sessionAndPeriod(h, res, req)
		if !ok {
			return
		}

		name, contentType, data, err := h.Export(ctx, sess, p.Month, p.Year, format)
		if err != nil {
			writeError(res, err, "Failed to export attendance")
			return
		}

		res.Header().Set("Content-Type", contentType)
		res.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		res.Header().Set("Content-Length", strconv.Itoa(len(data)))
		res.WriteHeader(http.StatusOK)
		if _, err := res.Write(data); err != nil {
			contextLogger.WithError(err).Error("Failed to write export file")
		}
	}
}

func ReportHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		sess, p, ok := sessionAndPeriod(h, res, req)
		if !ok {
			return
		}

		if err := h.SendReport(req.Context(), sess, p.Month, p.Year); err != nil {
			if errors.Is(err, ErrReportingDisabled) {
				util.WithError(err.Error(), http.StatusServiceUnavailable, res)
				return
			}
			writeError(res, err, "Failed to send attendance report")
			return
		}
		util.WithBodyAndStatus(map[string]string{"message": "Report is being sent"}, http.StatusAccepted, res)
	}
}

func UsersHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		sess, _ := model.SessionFrom(req.Context())
		users, err := h.GetUsers(req.Context(), sess)
		if err != nil {
			writeError(res, err, "Failed to fetch users")
			return
		}
		if users == nil {
			users = []attendanceapi.User{}
		}
		util.WithBodyAndStatus(users, http.StatusOK, res)
	}
}

func AddUserHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		var user attendanceapi.NewUser
		if !decodeBody(res, req, &user) {
			return
		}

		sess, _ := model.SessionFrom(req.Context())
		created, err := h.AddUser(req.Context(), sess, user)
		if err != nil {
			writeError(res, err, "Failed to add user")
			return
		}
		util.WithBodyAndStatus(created, http.StatusCreated, res)
	}
}

// MarkHandler lets an employee mark today's attendance with their token code.
func MarkHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		var mark attendanceapi.MarkRequest
		if !decodeBody(res, req, &mark) {
			return
		}

		resp, err := h.MarkByToken(req.Context(), mark.TokenCode)
		if err != nil {
			writeError(res, err, "Failed to mark attendance")
			return
		}
		util.WithBodyAndStatus(resp, http.StatusOK, res)
	}
}

func HistoryHandler(h AttendanceHandler) func(res http.ResponseWriter, req *http.Request) {
	return func(res http.ResponseWriter, req *http.Request) {
		history, err := h.History(req.Context(), mux.Vars(req)["tokenCode"])
		if err != nil {
			writeError(res, err, "Failed to fetch attendance history")
			return
		}
		if history == nil {
			history = []attendanceapi.HistoryEntry{}
		}
		util.WithBodyAndStatus(history, http.StatusOK, res)
	}
}

// sessionAndPeriod reads month and year from the query, defaulting to the
// current month, and writes a 400 when they are invalid.
func sessionAndPeriod(h AttendanceHandler, res http.ResponseWriter, req *http.Request) (model.Session, period, bool) {
	sess, _ := model.SessionFrom(req.Context())

	today := h.Today()
	p := period{Month: int(today.Month()), Year: today.Year()}
	query := req.URL.Query()

	for key, dst := range map[string]*int{"month": &p.Month, "year": &p.Year} {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			util.WithError(fmt.Sprintf("invalid %s parameter", key), http.StatusBadRequest, res)
			return sess, p, false
		}
		*dst = v
	}

	if err := util.Validate(p); err != nil {
		util.WithError(err.Error(), http.StatusBadRequest, res)
		return sess, p, false
	}
	return sess, p, true
}

func decodeBody(res http.ResponseWriter, req *http.Request, v interface{}) bool {
	contextLogger := log.WithContext(req.Context())
	if err := json.NewDecoder(http.MaxBytesReader(res, req.Body, util.MaxBodyBytes)).Decode(v); err != nil {
		contextLogger.WithError(err).Error("Failed to parse request body")
		util.WithError("invalid request body", http.StatusBadRequest, res)
		return false
	}
	if err := util.Validate(v); err != nil {
		util.WithError(err.Error(), http.StatusBadRequest, res)
		return false
	}
	return true
}

// writeError maps attendance API failures onto the response. 4xx errors from
// the API keep their status and message; anything else is a bad gateway.
func writeError(res http.ResponseWriter, err error, fallback string) {
	var apiErr *attendanceapi.APIError
	switch {
	case errors.Is(err, attendanceapi.ErrUnauthorized):
		msg := "session is not authorized"
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		util.WithError(msg, http.StatusUnauthorized, res)
	case errors.Is(err, attendanceapi.ErrRateLimited):
		util.WithError("attendance service is busy, try again later", http.StatusTooManyRequests, res)
	case errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError:
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		util.WithError(msg, apiErr.StatusCode, res)
	default:
		util.WithError(fallback, http.StatusBadGateway, res)
	}
}
