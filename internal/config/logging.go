package config

import (
	log "github.com/sirupsen/logrus"

	appctx "github.com/syrilster/attendance-grid/internal/context"
)

// ConfigureLogging sets the logrus level and adds the request id of the
// entry's context to every log line.
func ConfigureLogging(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("unknown LOG_LEVEL %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&log.JSONFormatter{})
	log.AddHook(requestIDHook{})
}

type requestIDHook struct{}

func (requestIDHook) Levels() []log.Level {
	return log.AllLevels
}

func (requestIDHook) Fire(entry *log.Entry) error {
	if entry.Context == nil {
		return nil
	}
	if id := appctx.RequestID(entry.Context); id != "" {
		entry.Data["request_id"] = id
	}
	return nil
}
