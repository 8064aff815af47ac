package nodes

import (
	"context"
	"encoding/json"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// SetVariablesActionType declares/passes through named variables.
// Adapted from the teacher's node_form.go, generalized from "collect an
// HTTP form submission" into a generic variable-assignment node: its
// declared input fields are exactly the variables the workflow author
// wants resolved (defaults and templates included) and published for
// downstream nodes to read.
const SetVariablesActionType = "SetVariables"

func newSetVariablesDefine() *define {
	return &define{
		actionType: SetVariablesActionType,
		name:       registry.Text{EN: "Set Variables", ZH: "设置变量"},
		icon:       "variable",
		category:   registry.Text{EN: "Data", ZH: "数据"},
		description: registry.Text{
			EN: "Declares one or more named variables, resolving templates and defaults.",
			ZH: "声明一个或多个命名变量，解析模板和默认值。",
		},
		inputs: nil, // authored per-workflow: the author's input_data keys *are* the schema.
		outputsFn: func(input map[string]json.RawMessage) []registry.SchemaField {
			fields := make([]registry.SchemaField, 0, len(input))
			for k := range input {
				fields = append(fields, registry.SchemaField{Name: k, Type: registry.FieldString})
			}
			return fields
		},
	}
}

type setVariablesRunner struct{}

func (setVariablesRunner) Run(_ context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	return params, nil
}

func newSetVariablesRunner() registry.Runner { return setVariablesRunner{} }
