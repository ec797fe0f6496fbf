// Package logging provides the application logger.
//
// Everything outside cmd/ depends on the Logger interface; the logrus
// implementation is only built in main. Use Noop to disable logging.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Kv is a set of structured key-value pairs attached to log lines.
type Kv = map[string]any

// Logger is the logging interface used across the application.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	WithValues(values Kv) Logger
}

// Format selects the log line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Level   string
	Format  Format
	NoColor bool
}

// New returns a logrus-backed Logger writing to w.
func New(w io.Writer, opts Options) (Logger, error) {
	l := logrus.New()
	l.Out = w

	level := strings.TrimSpace(opts.Level)
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	l.SetLevel(lvl)

	switch opts.Format {
	case FormatJSON:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors: opts.NoColor,
			FullTimestamp: true,
		})
	}

	return &logrusLogger{entry: logrus.NewEntry(l)}, nil
}

type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Debugf(format string, args ...any)   { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...any)    { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warningf(format string, args ...any) { l.entry.Warningf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...any)   { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithValues(values Kv) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(values))}
}

type noop struct{}

func (noop) Debugf(string, ...any)   {}
func (noop) Infof(string, ...any)    {}
func (noop) Warningf(string, ...any) {}
func (noop) Errorf(string, ...any)   {}
func (n noop) WithValues(Kv) Logger  { return n }

// Noop is a logger that discards all output.
var Noop Logger = noop{}
