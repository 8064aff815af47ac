package nodes

import (
	"context"
	"time"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
)

// WaitActionType sleeps for its duration_ms input field, in ms; the
// node's metadata.duration is not read. No Go equivalent
// exists in the teacher; shaped directly from original_source's
// time_wait runner, which sleeps its configured duration then
// completes with no outputs.
const WaitActionType = "Wait"

func newWaitDefine() *define {
	return &define{
		actionType:  WaitActionType,
		name:        registry.Text{EN: "Wait", ZH: "等待"},
		icon:        "clock",
		category:    registry.Text{EN: "Control", ZH: "控制"},
		description: registry.Text{EN: "Sleeps for the node's configured duration.", ZH: "按节点配置的时长休眠。"},
		inputs: []registry.SchemaField{
			{Name: "duration_ms", Type: registry.FieldNumber, Default: "0"},
		},
		outputsFn: staticOutputs(),
	}
}

type waitRunner struct{}

func newWaitRunner() registry.Runner { return waitRunner{} }

func (waitRunner) Run(ctx context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	ms := durationMS(params["duration_ms"])
	if ms <= 0 {
		return map[string]any{}, nil
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return map[string]any{}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func durationMS(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		return 0
	}
}
