package nodes

import (
	"context"
	"fmt"

	"github.com/flowforge/engine/internal/condition"
	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// ConditionActionType evaluates an operator/threshold comparison and
// reports which branch to take. Adapted from the teacher's
// node_condition.go (field/operator/threshold comparison producing a
// branch decision), generalized to read its three operands from
// resolved input schema fields rather than ambient context keys, and
// to also accept a full boolean expression via the "expression" field
// (the same mini-language §4.5's Conditions.condition exposes).
const ConditionActionType = "Condition"

func newConditionDefine() *define {
	return &define{
		actionType: ConditionActionType,
		name:       registry.Text{EN: "Condition", ZH: "条件判断"},
		icon:       "git-branch",
		category:   registry.Text{EN: "Control", ZH: "控制"},
		description: registry.Text{
			EN: "Compares two resolved values, or evaluates a boolean expression, and reports a branch.",
			ZH: "比较两个已解析的值，或计算布尔表达式，并报告分支结果。",
		},
		inputs: []registry.SchemaField{
			{Name: "expression", Type: registry.FieldString, Default: ""},
			{Name: "left", Type: registry.FieldString, Default: ""},
			{Name: "operator", Type: registry.FieldString, Default: "=="},
			{Name: "right", Type: registry.FieldString, Default: ""},
		},
		outputsFn: staticOutputs(
			registry.SchemaField{Name: "branch", Type: registry.FieldBoolean},
		),
	}
}

type conditionRunner struct{}

func (conditionRunner) Run(_ context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	if expr, _ := params["expression"].(string); expr != "" {
		ok, err := condition.EvaluateBool(expr)
		if err != nil {
			return nil, fmt.Errorf("nodes: Condition: evaluate expression: %w", err)
		}
		return map[string]any{"branch": ok}, nil
	}

	left := fmt.Sprint(params["left"])
	right := fmt.Sprint(params["right"])
	op, _ := params["operator"].(string)
	ok, err := condition.EvaluateBool(fmt.Sprintf("%q %s %q", left, op, right))
	if err != nil {
		return nil, fmt.Errorf("nodes: Condition: compare %q %s %q: %w", left, op, right, err)
	}
	return map[string]any{"branch": ok}, nil
}

func newConditionRunner() registry.Runner { return conditionRunner{} }
