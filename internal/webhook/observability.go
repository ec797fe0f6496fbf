package webhook

import (
	"github.com/alexanderramin/wbshub/internal/domain"
	"github.com/alexanderramin/wbshub/internal/logging"
)

// CallEvent records metadata about a single webhook call.
type CallEvent struct {
	Tarefa    string
	Endpoint  string
	Status    int
	LatencyMs int64
	Success   bool
	ErrorKind domain.SubmissionErrorKind
}

// Observer receives events about webhook calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(CallEvent)

func (f ObserverFunc) OnCallComplete(e CallEvent) { f(e) }

// LogObserver writes webhook call events to a Logger.
type LogObserver struct {
	logger logging.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger logging.Logger) *LogObserver {
	if logger == nil {
		logger = logging.Noop
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	l := o.logger.WithValues(logging.Kv{
		"endpoint":   event.Endpoint,
		"status":     event.Status,
		"latency_ms": event.LatencyMs,
	})
	if !event.Success {
		l.Warningf("webhook call failed (%s): %s", event.ErrorKind, event.Tarefa)
		return
	}
	l.Debugf("webhook call ok: %s", event.Tarefa)
}
