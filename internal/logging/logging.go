// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options selects level and format. Format "json" or "text"; empty picks
// json in production and text elsewhere.
type Options struct {
	Level      string
	Format     string
	Production bool
	Output     io.Writer
}

// New returns a configured logrus logger. An unknown level falls back to
// info and is reported on the logger itself.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	} else {
		logger.SetOutput(os.Stderr)
	}

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" && opts.Production {
		format = "json"
	}
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(opts.Level))
	if err != nil {
		level = logrus.InfoLevel
		if strings.TrimSpace(opts.Level) != "" {
			defer logger.WithField("level", opts.Level).Warn("logging: unknown level, using info")
		}
	}
	logger.SetLevel(level)
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
