//go:build js_eval

package paths

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsPredicateEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	resolver TypeResolver
}

// NewJSPredicateEvaluator constructs a PredicateEvaluator backed by goja.
func NewJSPredicateEvaluator(opts ...JSPredicateOption) PredicateEvaluator {
	cfg := applyJSPredicateOptions(opts)
	return &jsPredicateEvaluator{
		cache:    cfg.cache,
		registry: cfg.registry,
		resolver: cfg.resolver,
	}
}

// EngineName implements EngineNamer.
func (e *jsPredicateEvaluator) EngineName() string { return "js" }

func (e *jsPredicateEvaluator) CompilePredicate(expression string) (CompiledPredicate, error) {
	if expression == "" {
		return nil, wrapPredicateError("js", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &jsCompiledPredicate{
		evaluator:  e,
		expression: expression,
		program:    program,
	}, nil
}

func (e *jsPredicateEvaluator) loadOrCompile(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", e.wrapExpression(expression), false)
	if err != nil {
		return nil, wrapPredicateEvalError("js", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func (e *jsPredicateEvaluator) wrapExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

func (e *jsPredicateEvaluator) injectEntity(vm *goja.Runtime, entity EntityDescriptor) {
	for key, value := range predicateEnvironment(entity) {
		vm.Set(key, value)
	}
	isa := isaFunction(e.resolver)
	vm.Set("isa", func(subject, target string) (bool, error) {
		return isa(subject, target)
	})
	if e.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		})
		for _, name := range e.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			})
		}
	}
}

type jsCompiledPredicate struct {
	evaluator  *jsPredicateEvaluator
	expression string
	program    *goja.Program
}

func (p *jsCompiledPredicate) Matches(entity EntityDescriptor) (bool, error) {
	if entity == nil {
		return false, nil
	}
	vm := goja.New()
	p.evaluator.injectEntity(vm, entity)
	value, err := vm.RunProgram(p.program)
	if err != nil {
		return false, wrapPredicateEvalError("js", p.expression, err)
	}
	return predicateResult("js", p.expression, value.Export())
}

func jsPredicateAvailable() bool {
	return true
}
