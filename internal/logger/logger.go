package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func init() {
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	Log.SetOutput(os.Stdout)

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		Log.SetLevel(lvl)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}

func WithProject(projectID string) *logrus.Entry {
	return Log.WithField("project_id", projectID)
}

func Error(err error, message string) {
	entry := Log.WithField("source", "app")
	if err != nil {
		entry = entry.WithField("error", err.Error())
	}
	entry.Error(message)
}

func Info(message string) {
	Log.WithField("source", "app").Info(message)
}
