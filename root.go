package paths

import (
	"errors"
	"sync"
)

// ErrNoPredicateEvaluator is returned when a predicate expression is
// evaluated against a root with no evaluator and no default available.
var ErrNoPredicateEvaluator = errors.New("paths: predicate evaluator not configured")

// Root is the process-wide entry point shared by consumers that do not manage
// their own metadata lifecycle. Embedders with multiple metadata systems
// should create one root per system via NewRoot.
var Root = NewRoot()

type rootConfig struct {
	traceLogger     TraceLogger
	predicateLogger PredicateLogger
	evaluator       PredicateEvaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	inspector       Inspector
	resolver        TypeResolver
}

// RootOption configures a RootSegment at construction.
type RootOption func(*rootConfig)

// WithPredicateEvaluator overrides the default expr-backed predicate
// evaluator used by ContainsEntityWhere.
func WithPredicateEvaluator(evaluator PredicateEvaluator) RootOption {
	return func(cfg *rootConfig) {
		cfg.evaluator = evaluator
	}
}

// WithInspector wires a descriptor adapter so Index accepts arbitrary
// entity-like objects in addition to descriptors.
func WithInspector(inspector Inspector) RootOption {
	return func(cfg *rootConfig) {
		cfg.inspector = inspector
	}
}

// WithTypeResolver wires mapping metadata for deserialization and for the
// isa predicate function.
func WithTypeResolver(resolver TypeResolver) RootOption {
	return func(cfg *rootConfig) {
		cfg.resolver = resolver
	}
}

// RootSegment is the unique empty path. It owns the per-entity cache of
// root-rooted entity segments: two-element paths are the overwhelmingly
// common case and keep one interned segment per entity descriptor for the
// root's lifetime. Longer paths are rebuilt on demand through the per-segment
// lazy registries.
type RootSegment struct {
	core
	cfg      rootConfig
	entities sync.Map

	evalOnce sync.Once
	eval     PredicateEvaluator
}

// NewRoot constructs an isolated root, typically one per mapping-metadata
// system lifecycle.
func NewRoot(opts ...RootOption) *RootSegment {
	cfg := rootConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.traceLogger == nil {
		cfg.traceLogger = noopTraceLogger{}
	}
	if cfg.predicateLogger == nil {
		cfg.predicateLogger = noopPredicateLogger{}
	}
	r := &RootSegment{cfg: cfg}
	r.core = core{self: r, root: r}
	return r
}

// Index returns the globally cached root-rooted entity segment for key. Key
// must be an EntityDescriptor, or any object the configured Inspector can
// resolve to one.
func (r *RootSegment) Index(key any) (Path, error) {
	entity, err := r.resolveEntity(key)
	if err != nil {
		return nil, err
	}
	return r.entityFor(entity), nil
}

func (r *RootSegment) resolveEntity(key any) (EntityDescriptor, error) {
	if entity, ok := key.(EntityDescriptor); ok {
		return entity, nil
	}
	if r.cfg.inspector != nil {
		entity, err := r.cfg.inspector.Inspect(key)
		if err != nil {
			return nil, &InvalidIndexError{Segment: "Root", Key: key, Err: err}
		}
		return entity, nil
	}
	return nil, &InvalidIndexError{Segment: "Root", Key: key}
}

// entityFor returns the interned root-level segment for entity, creating it
// on first access. Concurrent first access races are resolved by
// insert-if-absent; both candidates are structurally equal so either result
// is correct.
func (r *RootSegment) entityFor(entity EntityDescriptor) *EntitySegment {
	if cached, ok := r.entities.Load(entity); ok {
		return cached.(*EntitySegment)
	}
	segment := newEntitySegment(r, r, entity)
	actual, _ := r.entities.LoadOrStore(entity, segment)
	return actual.(*EntitySegment)
}

func (r *RootSegment) HasEntity() bool { return false }

func (r *RootSegment) Entity() (EntityDescriptor, error) {
	return nil, &NotApplicableError{Segment: "Root"}
}

func (r *RootSegment) resolveEvaluator() (PredicateEvaluator, error) {
	if r.cfg.evaluator != nil {
		return r.cfg.evaluator, nil
	}
	r.evalOnce.Do(func() {
		exprOpts := []ExprPredicateOption{}
		if r.cfg.programCache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(r.cfg.programCache))
		}
		if r.cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(r.cfg.functions))
		}
		if r.cfg.resolver != nil {
			exprOpts = append(exprOpts, ExprWithTypeResolver(r.cfg.resolver))
		}
		r.eval = NewExprPredicateEvaluator(exprOpts...)
	})
	if r.eval == nil {
		return nil, ErrNoPredicateEvaluator
	}
	return r.eval, nil
}
