package paths

import "time"

// MaterializeEvent describes a first-time property segment materialization.
// Cache hits do not emit events.
type MaterializeEvent struct {
	Parent   string
	Property string
	Path     string
	Outcome  RestatementOutcome
	Duration time.Duration
}

// TraceLogger records segment materialization events.
type TraceLogger interface {
	LogMaterialize(MaterializeEvent)
}

// TraceLoggerFunc adapts a function to TraceLogger.
type TraceLoggerFunc func(MaterializeEvent)

// LogMaterialize implements TraceLogger.
func (f TraceLoggerFunc) LogMaterialize(event MaterializeEvent) {
	if f != nil {
		f(event)
	}
}

type noopTraceLogger struct{}

func (noopTraceLogger) LogMaterialize(MaterializeEvent) {}

// WithTraceLogger attaches a materialization logger to the root.
func WithTraceLogger(logger TraceLogger) RootOption {
	return func(cfg *rootConfig) {
		if logger == nil {
			cfg.traceLogger = noopTraceLogger{}
			return
		}
		cfg.traceLogger = logger
	}
}

// PredicateLogEvent describes one predicate expression evaluation against a
// path's entity elements.
type PredicateLogEvent struct {
	Engine   string
	Expr     string
	Path     string
	Matched  bool
	Duration time.Duration
	Err      error
}

// PredicateLogger records predicate evaluation events.
type PredicateLogger interface {
	LogPredicate(PredicateLogEvent)
}

// PredicateLoggerFunc adapts a function to PredicateLogger.
type PredicateLoggerFunc func(PredicateLogEvent)

// LogPredicate implements PredicateLogger.
func (f PredicateLoggerFunc) LogPredicate(event PredicateLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopPredicateLogger struct{}

func (noopPredicateLogger) LogPredicate(PredicateLogEvent) {}

// WithPredicateLogger attaches a predicate evaluation logger to the root.
func WithPredicateLogger(logger PredicateLogger) RootOption {
	return func(cfg *rootConfig) {
		if logger == nil {
			cfg.predicateLogger = noopPredicateLogger{}
			return
		}
		cfg.predicateLogger = logger
	}
}
