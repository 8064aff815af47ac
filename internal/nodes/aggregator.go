package nodes

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// AggregatorActionType merges named context keys into one output map.
// Shaped from original_source's data_aggregator node; it fits the
// diamond-join seed scenario, where a join node reads sibling branch
// outputs and combines them.
const AggregatorActionType = "Aggregator"

func newAggregatorDefine() *define {
	return &define{
		actionType: AggregatorActionType,
		name:       registry.Text{EN: "Aggregator", ZH: "聚合器"},
		icon:       "layers",
		category:   registry.Text{EN: "Data", ZH: "数据"},
		description: registry.Text{
			EN: "Merges the resolved values of a comma-separated list of context keys into one output map.",
			ZH: "将逗号分隔的上下文键列表合并为一个输出映射。",
		},
		inputs: []registry.SchemaField{
			{Name: "keys", Type: registry.FieldString, Default: ""},
		},
		outputsFn: func(input map[string]json.RawMessage) []registry.SchemaField {
			return []registry.SchemaField{{Name: "merged", Type: registry.FieldObject}}
		},
	}
}

// aggregatorRunner reads "keys" as a comma-separated list of bare
// context keys (e.g. "ctx.A.v,ctx.B.v") and looks each one up directly
// in the live context, keyed by its own name in the output map. A key
// with no stored value is silently skipped rather than erroring, so a
// join can aggregate branches that ran conditionally.
type aggregatorRunner struct{}

func newAggregatorRunner() registry.Runner { return &aggregatorRunner{} }

func (a *aggregatorRunner) Run(_ context.Context, ectx *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	keys, _ := params["keys"].(string)
	merged := make(map[string]any)
	for _, key := range strings.Split(keys, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		raw, ok := ectx.GetValue(key)
		if !ok {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			v = string(raw)
		}
		merged[key] = v
	}
	return map[string]any{"merged": merged}, nil
}
