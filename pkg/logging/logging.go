package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}

// GetLogger returns the shared JSON logger.
func GetLogger() *logrus.Logger {
	return logg
}

// WithModule returns an entry tagged with the originating module, the field
// convention every service log line follows.
func WithModule(module string) *logrus.Entry {
	return logg.WithField("module", module)
}
