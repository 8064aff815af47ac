package nodes

import (
	"context"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// EndActionType identifies a terminal marker node. It carries no
// special scheduler behavior beyond being a leaf with no successors;
// it exists so authored workflows have an explicit, documentable exit
// point, adapted from the teacher's node_sentinel.go end-of-path marker.
const EndActionType = "End"

func newEndDefine() *define {
	return &define{
		actionType:  EndActionType,
		name:        registry.Text{EN: "End", ZH: "结束"},
		icon:        "stop-circle",
		category:    registry.Text{EN: "Control", ZH: "控制"},
		description: registry.Text{EN: "Marks a terminal leaf of the workflow graph.", ZH: "标记工作流图的终止叶节点。"},
		inputs:      nil,
		outputsFn:   staticOutputs(),
	}
}

type endRunner struct{}

func (endRunner) Run(context.Context, *engctx.Context, string, map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func newEndRunner() registry.Runner { return endRunner{} }
