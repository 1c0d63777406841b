package editor

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures an Editor.
type Option func(*Editor)

// WithLogger routes diagnostics to logger. Without it the editor is silent.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNotifier overrides Controls.Notifier.
func WithNotifier(notifier Notifier) Option {
	return func(e *Editor) {
		if notifier != nil {
			e.notifier = notifier
		}
	}
}

func discardLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// logNotifier is used when the host supplies no notifier.
type logNotifier struct {
	logger logrus.FieldLogger
}

func (n logNotifier) Notify(message string) {
	n.logger.WithField("message", message).Warn("editor: validation message without notifier")
}
