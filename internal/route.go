package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	"github.com/syrilster/attendance-grid/internal/config"
	"github.com/syrilster/attendance-grid/internal/export"
	"github.com/syrilster/attendance-grid/internal/grid"
	"github.com/syrilster/attendance-grid/internal/middlewares"
	"github.com/syrilster/attendance-grid/internal/model"
)

type AttendanceHandler interface {
	Today() time.Time
	Show(ctx context.Context, sess model.Session, month int, year int) (*Snapshot, error)
	Current(sess model.Session) (*Snapshot, bool)
	Summary(ctx context.Context, sess model.Session, month int, year int) (*grid.Summary, error)
	Records(ctx context.Context, sess model.Session, month int, year int) ([]grid.Record, error)
	Export(ctx context.Context, sess model.Session, month int, year int, format export.Format) (string, string, []byte, error)
	SendReport(ctx context.Context, sess model.Session, month int, year int) error
	GetUsers(ctx context.Context, sess model.Session) ([]attendanceapi.User, error)
	AddUser(ctx context.Context, sess model.Session, user attendanceapi.NewUser) (*attendanceapi.User, error)
	MarkByToken(ctx context.Context, tokenCode string) (*attendanceapi.MarkResponse, error)
	History(ctx context.Context, tokenCode string) ([]attendanceapi.HistoryEntry, error)
}

func Routes(h AttendanceHandler) []config.Route {
	return []config.Route{
		{Path: "/users", Method: http.MethodGet, Handler: middlewares.RequireSession(UsersHandler(h))},
		{Path: "/users", Method: http.MethodPost, Handler: middlewares.RequireSession(AddUserHandler(h))},
		{Path: "/attendance", Method: http.MethodGet, Handler: middlewares.RequireSession(RecordsHandler(h))},
		{Path: "/attendance/grid", Method: http.MethodGet, Handler: middlewares.RequireSession(GridHandler(h))},
		{Path: "/attendance/current", Method: http.MethodGet, Handler: middlewares.RequireSession(CurrentHandler(h))},
		{Path: "/attendance/summary", Method: http.MethodGet, Handler: middlewares.RequireSession(SummaryHandler(h))},
		{Path: "/attendance/export/{format}", Method: http.MethodGet, Handler: middlewares.RequireSession(ExportHandler(h))},
		{Path: "/attendance/report", Method: http.MethodPost, Handler: middlewares.RequireSession(ReportHandler(h))},
		{Path: "/attendance/mark", Method: http.MethodPost, Handler: MarkHandler(h)},
		{Path: "/attendance/history/{tokenCode}", Method: http.MethodGet, Handler: HistoryHandler(h)},
	}
}
