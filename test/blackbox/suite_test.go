package blackbox

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/syrilster/attendance-grid/internal"
	"github.com/syrilster/attendance-grid/internal/config"
	"github.com/syrilster/attendance-grid/internal/export"
)

const (
	apiEndpoint = "https://attendance.test.local/api"
	token       = "manager-token"
)

var (
	loginResp = `{"token": "manager-token"}`

	attendanceResp = `[
    {
        "_id": "6650a1",
        "userId": {"_id": "u1", "name": "Asha", "tokenCode": "EMP1"},
        "status": "Present",
        "date": "2025-02-03T08:45:00.000Z"
    },
    {
        "_id": "6650a2",
        "userId": {"_id": "u2", "name": "Ravi", "tokenCode": "EMP2"},
        "status": "Absent",
        "date": "2025-02-03T08:45:00.000Z"
    },
    {
        "_id": "6650a3",
        "userId": {"_id": "u2", "name": "Ravi", "tokenCode": "EMP2"},
        "status": "Present",
        "date": "2025-02-03T17:10:00.000Z"
    },
    {
        "_id": "6650a4",
        "userId": null,
        "status": "Present",
        "date": "2025-02-04T08:45:00.000Z"
    }
]`
)

// entrypoint for test
func TestApiSuite(t *testing.T) {
	suite.Run(t, new(apiSuite))
}

type apiSuite struct {
	suite.Suite

	handler http.Handler
}

func (a *apiSuite) SetupSuite() {
	// block all HTTP requests
	httpmock.Activate()

	a.Require().NoError(os.Setenv("ATTENDANCE_API_ENDPOINT", apiEndpoint))
	a.Require().NoError(os.Setenv("TIMEZONE", "UTC"))
	a.Require().NoError(os.Setenv("RATE_LIMIT_TIMEOUT", "1"))

	cfg, err := config.NewApplicationConfig()
	a.Require().NoError(err)
	a.handler = internal.SetupServer(cfg).Handler()
}

func (a *apiSuite) TearDownTest() {
	// remove any mocks after each test
	httpmock.Reset()
}

func (a *apiSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
	_ = os.Unsetenv("ATTENDANCE_API_ENDPOINT")
	_ = os.Unsetenv("TIMEZONE")
	_ = os.Unsetenv("RATE_LIMIT_TIMEOUT")
}

func (a *apiSuite) serve(method string, path string, body string, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *apiSuite) Test_LoginThenGrid() {
	httpmock.RegisterResponder(http.MethodPost, apiEndpoint+"/auth/login",
		httpmock.NewStringResponder(http.StatusOK, loginResp))
	httpmock.RegisterResponder(http.MethodGet, apiEndpoint+"/attendance",
		func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Authorization") != "Bearer "+token {
				return httpmock.NewStringResponse(http.StatusUnauthorized, `{"message":"Not authorized"}`), nil
			}
			if req.URL.Query().Get("month") != "2" || req.URL.Query().Get("year") != "2025" {
				return httpmock.NewStringResponse(http.StatusBadRequest, `{"message":"bad period"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, attendanceResp), nil
		})

	rec := a.serve(http.MethodPost, "/v1/auth/login", `{"email":"manager@example.com","password":"secret"}`, "")
	a.Require().Equal(http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	a.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &login))
	a.Equal(token, login.Token)

	rec = a.serve(http.MethodGet, "/v1/attendance/grid?month=2&year=2025", "", login.Token)
	a.Require().Equal(http.StatusOK, rec.Code)

	var snap struct {
		Days    int        `json:"days"`
		Matrix  [][]string `json:"matrix"`
		Summary struct {
			Total   int `json:"total"`
			Present int `json:"present"`
			Absent  int `json:"absent"`
		} `json:"summary"`
	}
	a.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &snap))
	a.Equal(28, snap.Days)
	a.Require().Len(snap.Matrix, 3)
	a.Equal([]string{"EMP1", "Asha", "A", "A", "P"}, snap.Matrix[1][:5])
	a.Equal("P", snap.Matrix[2][4], "any Present on the day wins over an Absent")
	a.Equal(56, snap.Summary.Total)
	a.Equal(2, snap.Summary.Present)
	a.Equal(54, snap.Summary.Absent)

	rec = a.serve(http.MethodGet, "/v1/attendance/export/xlsx?month=2&year=2025", "", login.Token)
	a.Require().Equal(http.StatusOK, rec.Code)
	m, err := export.ReadXLSX(rec.Body.Bytes())
	a.Require().NoError(err)
	a.Equal(snap.Matrix, [][]string(m))

	a.Equal(3, httpmock.GetTotalCallCount())
}

func (a *apiSuite) Test_RemoteUnauthorized() {
	httpmock.RegisterResponder(http.MethodGet, apiEndpoint+"/attendance",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"message":"Token is not valid"}`))

	rec := a.serve(http.MethodGet, "/v1/attendance/grid?month=2&year=2025", "", token)
	a.Equal(http.StatusUnauthorized, rec.Code)
	a.JSONEq(`{"message":"Token is not valid"}`, rec.Body.String())
}

func (a *apiSuite) Test_RateLimitedUntilTimeout() {
	httpmock.RegisterResponder(http.MethodGet, apiEndpoint+"/attendance",
		httpmock.NewStringResponder(http.StatusTooManyRequests, `{"message":"Too many requests"}`))

	rec := a.serve(http.MethodGet, "/v1/attendance/summary?month=1&year=2025", "", token)
	a.Equal(http.StatusTooManyRequests, rec.Code)
	a.GreaterOrEqual(httpmock.GetTotalCallCount(), 1)
}

func (a *apiSuite) Test_MarkAttendance() {
	httpmock.RegisterResponder(http.MethodPost, apiEndpoint+"/attendance/mark-by-token",
		func(req *http.Request) (*http.Response, error) {
			var body map[string]string
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			if body["tokenCode"] != "EMP1" {
				return httpmock.NewStringResponse(http.StatusNotFound, `{"message":"Invalid token code"}`), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"message":"Attendance marked for Asha"}`), nil
		})

	rec := a.serve(http.MethodPost, "/v1/attendance/mark", `{"tokenCode":"EMP1"}`, "")
	a.Equal(http.StatusOK, rec.Code)
	a.Contains(rec.Body.String(), "Attendance marked for Asha")

	rec = a.serve(http.MethodPost, "/v1/attendance/mark", `{"tokenCode":"NOPE"}`, "")
	a.Equal(http.StatusNotFound, rec.Code)
}

func (a *apiSuite) Test_BasicHealthCheck() {
	rec := a.serve(http.MethodGet, "/health", "", "")
	require.Equal(a.T(), http.StatusOK, rec.Code)
	a.NotEmpty(rec.Header().Get("X-Request-ID"))
	a.JSONEq(`{"status":"ok"}`, rec.Body.String())
}
