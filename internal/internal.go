package internal

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/service/ses/sesiface"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	"github.com/syrilster/attendance-grid/internal/auth"
	"github.com/syrilster/attendance-grid/internal/config"
	"github.com/syrilster/attendance-grid/internal/middlewares"
)

//StatusRoute health check route
func StatusRoute() (route config.Route) {
	route = config.Route{
		Path:    "/health",
		Method:  http.MethodGet,
		Handler: middlewares.RuntimeHealthCheck(),
	}
	return route
}

type ServerConfig interface {
	Version() string
	BaseURL() string
	AttendanceClient() attendanceapi.ClientInterface
	Location() *time.Location
	EmailClient() sesiface.SESAPI
	EmailTo() string
	EmailFrom() string
}

func SetupServer(cfg ServerConfig) *config.Server {
	basePath := fmt.Sprintf("/%v", cfg.Version())
	service := NewService(cfg.AttendanceClient(), cfg.Location(), cfg.EmailClient(), cfg.EmailTo(), cfg.EmailFrom())
	authService := auth.NewAuthService(cfg.AttendanceClient())
	server := config.NewServer().
		WithRoutes(
			"", StatusRoute(),
		).
		WithRoutes(
			basePath,
			append(Routes(service), auth.Route(authService))...,
		)
	return server
}
