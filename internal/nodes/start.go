package nodes

import (
	"context"
	"encoding/json"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// StartActionType is the well-known action_type a graph root carries.
const StartActionType = "Start"

// startDefine declares the Start node: a no-op whose output schema
// mirrors whatever top-level keys its own input_data carries, per
// spec.md §4.2's note and the "Start-node passthrough" supplement in
// SPEC_FULL.md §12. Adapted from the teacher's node_sentinel.go, which
// plays the same "no behavior, just a graph anchor" role.
func newStartDefine() *define {
	return &define{
		actionType:  StartActionType,
		name:        registry.Text{EN: "Start", ZH: "开始"},
		icon:        "play-circle",
		category:    registry.Text{EN: "Control", ZH: "控制"},
		description: registry.Text{EN: "Marks a root of the workflow graph.", ZH: "标记工作流图的根节点。"},
		inputs:      nil,
		outputsFn: func(input map[string]json.RawMessage) []registry.SchemaField {
			fields := make([]registry.SchemaField, 0, len(input))
			for k := range input {
				fields = append(fields, registry.SchemaField{Name: k, Type: registry.FieldString})
			}
			return fields
		},
	}
}

// startRunner passes the input map it receives (its input_data, decoded
// and template-resolved by the adapter) through unchanged, publishing
// every top-level key into the run context. It has no typed parameter
// record of its own: everything it receives is already the desired
// output.
type startRunner struct{}

func (startRunner) Run(_ context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	return params, nil
}

func newStartRunner() registry.Runner { return startRunner{} }
