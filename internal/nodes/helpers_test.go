package nodes_test

import (
	"encoding/json"
	"testing"

	"github.com/flowforge/engine/internal/nodes"
	"github.com/flowforge/engine/internal/registry"
)

// newRunner builds a fresh registry with the built-in catalog and
// returns a new Runner for actionType, the way the scheduler would via
// registry.Registry.CreateRunner.
func newRunner(t *testing.T, actionType string) registry.Runner {
	t.Helper()
	reg := registry.New()
	nodes.RegisterBuiltins(reg)
	rn, ok := reg.CreateRunner(actionType)
	if !ok {
		t.Fatalf("no runner registered for %q", actionType)
	}
	return rn
}

// inputData marshals a map of plain strings into the
// map[string]json.RawMessage shape NodeDefine.OutputSchema/input_data
// use.
func inputData(t *testing.T, kv map[string]string) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(kv))
	for k, v := range kv {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal %q: %v", v, err)
		}
		out[k] = b
	}
	return out
}
