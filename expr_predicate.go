package paths

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprPredicateOption configures an expr predicate evaluator instance.
type ExprPredicateOption func(*exprPredicateEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprPredicateOption {
	return func(e *exprPredicateEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprPredicateOption {
	return func(e *exprPredicateEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// ExprWithTypeResolver wires mapping metadata into the evaluator so
// expressions can call isa(subject_id, target_id).
func ExprWithTypeResolver(resolver TypeResolver) ExprPredicateOption {
	return func(e *exprPredicateEvaluator) {
		e.resolver = resolver
	}
}

// exprPredicateEvaluator compiles predicates using github.com/expr-lang/expr.
type exprPredicateEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
	resolver TypeResolver
}

// NewExprPredicateEvaluator constructs a PredicateEvaluator backed by
// expr-lang/expr. It is the default engine.
func NewExprPredicateEvaluator(opts ...ExprPredicateOption) PredicateEvaluator {
	e := &exprPredicateEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// EngineName implements EngineNamer.
func (e *exprPredicateEvaluator) EngineName() string { return "expr" }

// CompilePredicate compiles expression into a reusable predicate.
func (e *exprPredicateEvaluator) CompilePredicate(expression string) (CompiledPredicate, error) {
	if expression == "" {
		return nil, wrapPredicateError("expr", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &exprCompiledPredicate{
		evaluator:  e,
		program:    program,
		expression: expression,
	}, nil
}

func (e *exprPredicateEvaluator) loadOrCompile(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.Function("isa", e.isaFunction()),
	}
	for _, name := range e.registryNames() {
		fn := e.registryFunction(name)
		options = append(options, exprlang.Function(name, fn))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapPredicateEvalError("expr", expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

type exprCompiledPredicate struct {
	evaluator  *exprPredicateEvaluator
	program    *exprvm.Program
	expression string
}

func (p *exprCompiledPredicate) Matches(entity EntityDescriptor) (bool, error) {
	if entity == nil {
		return false, nil
	}
	env := p.evaluator.environment(entity)
	result, err := exprlang.Run(p.program, env)
	if err != nil {
		return false, wrapPredicateEvalError("expr", p.expression, err)
	}
	return predicateResult("expr", p.expression, result)
}

func (e *exprPredicateEvaluator) environment(entity EntityDescriptor) map[string]any {
	env := predicateEnvironment(entity)
	env["isa"] = e.isaFunction()
	if e.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return e.registry.Call(name, arguments...)
		}
		for _, name := range e.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

func (e *exprPredicateEvaluator) isaFunction() func(...any) (any, error) {
	isa := isaFunction(e.resolver)
	return func(args ...any) (any, error) {
		subject, target, err := isaArguments(args)
		if err != nil {
			return nil, err
		}
		return isa(subject, target)
	}
}

func isaArguments(args []any) (string, string, error) {
	if len(args) != 2 {
		return "", "", fmt.Errorf("paths: isa expects 2 arguments, got %d", len(args))
	}
	subject, ok := args[0].(string)
	if !ok {
		return "", "", fmt.Errorf("paths: isa subject must be a string, got %T", args[0])
	}
	target, ok := args[1].(string)
	if !ok {
		return "", "", fmt.Errorf("paths: isa target must be a string, got %T", args[1])
	}
	return subject, target, nil
}

func (e *exprPredicateEvaluator) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprPredicateEvaluator) registryFunction(name string) func(...any) (any, error) {
	if e == nil || e.registry == nil {
		return nil
	}
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
