package paths

import (
	"fmt"
	"time"
)

// EntityPredicate tests one entity element of a path.
type EntityPredicate func(EntityDescriptor) bool

// Isa returns a predicate satisfied by target or any of its subtypes, the
// containment check used for inheritance-aware mapper lookups.
func Isa(target EntityDescriptor) EntityPredicate {
	return func(entity EntityDescriptor) bool {
		return entity != nil && target != nil && entity.Isa(target)
	}
}

// CompiledPredicate is a reusable, compiled entity predicate expression.
// Implementations must be safe for concurrent use.
type CompiledPredicate interface {
	Matches(entity EntityDescriptor) (bool, error)
}

// PredicateEvaluator compiles predicate expressions into reusable predicates.
// The expression environment exposes type_id, aliased, polymorphic, mapped,
// and the isa(subject_id, target_id) function when a TypeResolver is wired.
type PredicateEvaluator interface {
	CompilePredicate(expression string) (CompiledPredicate, error)
}

// EngineNamer is optionally implemented by evaluators to label predicate log
// events. Evaluators without it are reported as "custom".
type EngineNamer interface {
	EngineName() string
}

// ContainsEntityWhere compiles expression with the root's evaluator and tests
// it against every entity element of the path.
func (c *core) ContainsEntityWhere(expression string) (bool, error) {
	if expression == "" {
		return false, fmt.Errorf("paths: expression must not be empty")
	}
	evaluator, err := c.root.resolveEvaluator()
	if err != nil {
		return false, err
	}
	predicate, err := evaluator.CompilePredicate(expression)
	if err != nil {
		return false, err
	}
	engine := predicateEngineName(evaluator)
	start := time.Now()
	matched, evalErr := matchAnyEntity(c.elements, predicate)
	c.root.cfg.predicateLogger.LogPredicate(PredicateLogEvent{
		Engine:   engine,
		Expr:     expression,
		Path:     c.self.String(),
		Matched:  matched,
		Duration: time.Since(start),
		Err:      evalErr,
	})
	if evalErr != nil {
		return false, evalErr
	}
	return matched, nil
}

func matchAnyEntity(elements []Element, predicate CompiledPredicate) (bool, error) {
	for i := 0; i < len(elements); i += 2 {
		entity, ok := elements[i].(EntityDescriptor)
		if !ok {
			continue
		}
		matched, err := predicate.Matches(entity)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// predicateEnvironment builds the variable bindings every engine exposes for
// one entity element.
func predicateEnvironment(entity EntityDescriptor) map[string]any {
	mapped := entity.Mapped()
	if mapped == nil {
		mapped = entity
	}
	return map[string]any{
		"type_id":     entity.TypeID(),
		"aliased":     entity.IsAliased(),
		"polymorphic": len(entity.PresentedSubtypes()) > 0,
		"mapped":      mapped.TypeID(),
	}
}

// isaFunction builds the shared isa(subject_id, target_id) implementation,
// resolving both identifiers through resolver and checking subtype descent.
func isaFunction(resolver TypeResolver) func(subject, target string) (bool, error) {
	return func(subject, target string) (bool, error) {
		if resolver == nil {
			return false, fmt.Errorf("paths: isa requires a type resolver")
		}
		subjectEntity, err := resolver.ResolveType(subject)
		if err != nil {
			return false, err
		}
		targetEntity, err := resolver.ResolveType(target)
		if err != nil {
			return false, err
		}
		return subjectEntity.Isa(targetEntity), nil
	}
}

func predicateResult(engine, expression string, value any) (bool, error) {
	matched, ok := value.(bool)
	if !ok {
		return false, &PredicateError{
			Engine: engine,
			Expr:   expression,
			Err:    fmt.Errorf("predicate must evaluate to bool, got %T", value),
		}
	}
	return matched, nil
}

func predicateEngineName(e PredicateEvaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(EngineNamer); ok {
		return named.EngineName()
	}
	return "custom"
}
