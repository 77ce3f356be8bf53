package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	"github.com/syrilster/attendance-grid/internal/customhttp"
)

type ApplicationConfig struct {
	envValues   *envConfig
	apiClient   attendanceapi.ClientInterface
	emailClient sesiface.SESAPI
	location    *time.Location
}

//Version returns application version
func (cfg *ApplicationConfig) Version() string {
	return cfg.envValues.Version
}

//ServerPort returns the port no to listen for requests
func (cfg *ApplicationConfig) ServerPort() int {
	return cfg.envValues.ServerPort
}

//BaseURL returns the base URL
func (cfg *ApplicationConfig) BaseURL() string {
	return cfg.envValues.BaseUrl
}

//LogLevel returns the configured logrus level name
func (cfg *ApplicationConfig) LogLevel() string {
	return cfg.envValues.LogLevel
}

//AttendanceClient returns the client of the remote attendance API
func (cfg *ApplicationConfig) AttendanceClient() attendanceapi.ClientInterface {
	return cfg.apiClient
}

//Location returns the time zone calendar days are evaluated in
func (cfg *ApplicationConfig) Location() *time.Location {
	return cfg.location
}

//EmailClient returns the ses client with config, nil when reports are disabled
func (cfg *ApplicationConfig) EmailClient() sesiface.SESAPI {
	return cfg.emailClient
}

//EmailTo returns the to email address
func (cfg *ApplicationConfig) EmailTo() string {
	return cfg.envValues.EmailTo
}

//EmailFrom returns the From email address
func (cfg *ApplicationConfig) EmailFrom() string {
	return cfg.envValues.EmailFrom
}

//NewApplicationConfig loads config values from environment and initialises config
func NewApplicationConfig() (*ApplicationConfig, error) {
	envValues := NewEnvironmentConfig()
	return newApplicationConfig(envValues)
}

func newApplicationConfig(envValues *envConfig) (*ApplicationConfig, error) {
	if envValues.AttendanceAPIEndpoint == "" {
		return nil, errors.New("ATTENDANCE_API_ENDPOINT is required")
	}

	location, err := time.LoadLocation(envValues.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", envValues.TimeZone, err)
	}

	httpCommand := NewHTTPCommand(time.Duration(envValues.HTTPTimeout) * time.Second)
	apiClient := attendanceapi.NewClient(strings.TrimRight(envValues.AttendanceAPIEndpoint, "/"), httpCommand,
		time.Duration(envValues.RateLimitTimeout)*time.Second)

	cfg := &ApplicationConfig{
		envValues: envValues,
		apiClient: apiClient,
		location:  location,
	}

	if envValues.EmailTo != "" && envValues.EmailFrom != "" {
		sess, err := session.NewSession(aws.NewConfig().WithRegion(envValues.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to create aws session: %w", err)
		}
		cfg.emailClient = ses.New(sess)
	} else {
		log.Info("EMAIL_TO/EMAIL_FROM not set, attendance report e-mails are disabled")
	}
	return cfg, nil
}

// NewHTTPCommand returns the HTTP client
func NewHTTPCommand(timeout time.Duration) customhttp.HTTPCommand {
	httpCommand := customhttp.New(
		customhttp.WithHTTPClient(&http.Client{Timeout: timeout}),
		customhttp.WithRequestLogging(),
	).Build()

	return httpCommand
}
