package config

import (
	"os"
	"strconv"
)

type envConfig struct {
	LogLevel              string
	ServerPort            int
	Version               string
	BaseUrl               string
	AttendanceAPIEndpoint string
	HTTPTimeout           int
	RateLimitTimeout      int
	TimeZone              string
	AWSRegion             string
	EmailTo               string
	EmailFrom             string
}

func NewEnvironmentConfig() *envConfig {
	return &envConfig{
		LogLevel:              getEnvString("LOG_LEVEL", "INFO"),
		ServerPort:            getEnvInt("SERVER_PORT", 8080),
		Version:               getEnvString("VERSION", "v1"),
		BaseUrl:               "",
		AttendanceAPIEndpoint: getEnvString("ATTENDANCE_API_ENDPOINT", ""),
		HTTPTimeout:           getEnvInt("HTTP_TIMEOUT", 10),
		RateLimitTimeout:      getEnvInt("RATE_LIMIT_TIMEOUT", 30),
		TimeZone:              getEnvString("TIMEZONE", "Local"),
		AWSRegion:             getEnvString("AWS_REGION", "ap-southeast-2"),
		EmailTo:               getEnvString("EMAIL_TO", ""),
		EmailFrom:             getEnvString("EMAIL_FROM", ""),
	}
}

// helper function to read an environment or return a default value
func getEnvString(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

// helper function to read an environment or return a default value
func getEnvInt(key string, defaultVal int) int {
	val, err := strconv.Atoi(getEnvString(key, strconv.Itoa(defaultVal)))
	if err == nil {
		return val
	}

	return defaultVal
}
