package paths

import (
	"errors"
	"fmt"
	"strings"
)

// PredicateError captures predicate engine metadata alongside the
// originating error.
type PredicateError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *PredicateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("paths: %s predicate %s: %v", e.Engine, describePredicateExpr(e.Expr), e.Err)
}

func (e *PredicateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describePredicateExpr(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapPredicateError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var predErr *PredicateError
	if errors.As(err, &predErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "paths:") {
		return err
	}
	return fmt.Errorf("paths: %s predicate: %w", engine, err)
}

func wrapPredicateEvalError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var predErr *PredicateError
	if errors.As(err, &predErr) {
		if predErr.Engine == "" {
			predErr.Engine = engine
		}
		if predErr.Expr == "" {
			predErr.Expr = expr
		}
		return predErr
	}

	return &PredicateError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
