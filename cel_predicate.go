package paths

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELPredicateOption configures the CEL predicate evaluator.
type CELPredicateOption func(*celPredicateEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELPredicateOption {
	return func(e *celPredicateEvaluator) {
		e.cache = cache
	}
}

// CELWithTypeResolver wires mapping metadata into the evaluator so
// expressions can call isa(subject_id, target_id).
func CELWithTypeResolver(resolver TypeResolver) CELPredicateOption {
	return func(e *celPredicateEvaluator) {
		e.resolver = resolver
	}
}

type celProgram struct {
	env     *celgo.Env
	program celgo.Program
}

type celPredicateEvaluator struct {
	cache    ProgramCache
	resolver TypeResolver
}

// NewCELPredicateEvaluator constructs a PredicateEvaluator backed by cel-go.
// Custom function registries are not supported by this engine; use expr or js
// when predicates need registered functions.
func NewCELPredicateEvaluator(opts ...CELPredicateOption) PredicateEvaluator {
	e := &celPredicateEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// EngineName implements EngineNamer.
func (e *celPredicateEvaluator) EngineName() string { return "cel" }

func (e *celPredicateEvaluator) CompilePredicate(expression string) (CompiledPredicate, error) {
	if expression == "" {
		return nil, wrapPredicateError("cel", fmt.Errorf("expression must not be empty"))
	}
	program, err := e.loadOrCompile(expression)
	if err != nil {
		return nil, err
	}
	return &celCompiledPredicate{
		program:    program,
		expression: expression,
	}, nil
}

func (e *celPredicateEvaluator) loadOrCompile(expression string) (*celProgram, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*celProgram); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapPredicateError("cel", err)
	}
	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapPredicateEvalError("cel", expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapPredicateEvalError("cel", expression, issues.Err())
	}
	prg, err := env.Program(checked)
	if err != nil {
		return nil, wrapPredicateEvalError("cel", expression, err)
	}

	bundle := &celProgram{
		env:     env,
		program: prg,
	}
	if e.cache != nil {
		e.cache.Set(expression, bundle)
	}
	return bundle, nil
}

func (e *celPredicateEvaluator) buildEnv() (*celgo.Env, error) {
	return celgo.NewEnv(
		celgo.Variable("type_id", celgo.StringType),
		celgo.Variable("aliased", celgo.BoolType),
		celgo.Variable("polymorphic", celgo.BoolType),
		celgo.Variable("mapped", celgo.StringType),
		celgo.Function("isa",
			celgo.Overload("isa_string_string",
				[]*celgo.Type{celgo.StringType, celgo.StringType},
				celgo.BoolType,
				celgo.BinaryBinding(e.isaBinding()))),
	)
}

func (e *celPredicateEvaluator) isaBinding() func(lhs, rhs ref.Val) ref.Val {
	isa := isaFunction(e.resolver)
	return func(lhs, rhs ref.Val) ref.Val {
		subject, ok := lhs.Value().(string)
		if !ok {
			return types.NewErr("paths: isa subject must be string")
		}
		target, ok := rhs.Value().(string)
		if !ok {
			return types.NewErr("paths: isa target must be string")
		}
		matched, err := isa(subject, target)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		return types.Bool(matched)
	}
}

type celCompiledPredicate struct {
	program    *celProgram
	expression string
}

func (p *celCompiledPredicate) Matches(entity EntityDescriptor) (bool, error) {
	if entity == nil {
		return false, nil
	}
	out, _, err := p.program.program.Eval(predicateEnvironment(entity))
	if err != nil {
		return false, wrapPredicateEvalError("cel", p.expression, err)
	}
	return predicateResult("cel", p.expression, out.Value())
}
