// Package condition implements the gating check a node's schema.Conditions
// runs before the node executes: exist / not_exist key checks and a
// resolved boolean expression, adapted from the operator/threshold
// comparison in the teacher's node_condition.go and generalized into the
// algebraic mini-language described in spec.md §4.5/§6.
package condition

import (
	"errors"
	"fmt"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/resolver"
	"github.com/flowforge/engine/internal/schema"
)

// Result is the outcome of a gating check.
type Result struct {
	Pass   bool
	Reason string
}

// Check evaluates c against ctx, returning a pass/skip decision. A nil
// or zero-value Conditions always passes.
func Check(ctx *engctx.Context, c *schema.Conditions) (Result, error) {
	if c.IsZero() {
		return Result{Pass: true}, nil
	}

	if c.Exist != "" && !ctx.Has(c.Exist) {
		return Result{Pass: false, Reason: fmt.Sprintf("%s does not exist", c.Exist)}, nil
	}
	if c.NotExist != "" && ctx.Has(c.NotExist) {
		return Result{Pass: false, Reason: fmt.Sprintf("%s exists", c.NotExist)}, nil
	}
	if c.Cond != "" {
		resolved, err := resolver.TryResolve(ctx, c.Cond)
		if err != nil {
			var missing *resolver.MissingKeyError
			if errors.As(err, &missing) {
				return Result{Pass: false, Reason: err.Error()}, nil
			}
			return Result{}, fmt.Errorf("condition: resolve %q: %w", c.Cond, err)
		}
		ok, err := EvaluateBool(resolved)
		if err != nil {
			return Result{}, fmt.Errorf("condition: evaluate %q: %w", resolved, err)
		}
		if !ok {
			return Result{Pass: false, Reason: fmt.Sprintf("condition %q evaluated to false", c.Cond)}, nil
		}
	}
	return Result{Pass: true}, nil
}
