// Package logger builds the shared logrus logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a configured logger. An unparseable level falls back to info.
func New(level string, jsonFormat bool) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			PadLevelText:  true,
		})
	}

	return log
}
