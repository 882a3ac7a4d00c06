package llm

import "github.com/rs/zerolog"

// LLMCallEvent records metadata about a single model invocation.
type LLMCallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about model calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes model call events to a zerolog logger.
type LogObserver struct {
	log zerolog.Logger
}

func NewLogObserver(log zerolog.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	ev := o.log.Info()
	if !event.Success {
		ev = o.log.Warn().Str("error_code", event.ErrorCode)
	}
	ev.Str("task", string(event.Task)).
		Str("model", event.Model).
		Int64("latency_ms", event.LatencyMs).
		Int("attempts", event.Attempts).
		Bool("success", event.Success).
		Msg("llm_call")
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(event LLMCallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(event)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
