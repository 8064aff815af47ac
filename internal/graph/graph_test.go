package graph

import (
	"errors"
	"testing"

	"github.com/flowforge/engine/internal/schema"
)

func node(id, action string) schema.NodeSchema {
	return schema.NodeSchema{NodeID: id, ActionType: action, Metadata: schema.MetaData{Name: id}}
}

func TestBuild_LinearChain(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{
			node("S", "Start"),
			node("A", "Echo"),
			node("B", "Echo"),
		},
		Connections: []schema.Connection{
			{From: "S", To: "A"},
			{From: "A", To: "B"},
		},
	}

	g, err := Build(ws)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Starts) != 1 || g.Starts[0].NodeID != "S" {
		t.Fatalf("Starts = %+v, want [S]", g.Starts)
	}
	if got := g.Nodes["B"].WaitCount.Load(); got != 1 {
		t.Errorf("B wait_count = %d, want 1", got)
	}
	if got := g.Nodes["A"].WaitCount.Load(); got != 1 {
		t.Errorf("A wait_count = %d, want 1", got)
	}
	if got := g.Nodes["S"].WaitCount.Load(); got != 0 {
		t.Errorf("S wait_count = %d, want 0", got)
	}
}

func TestBuild_DiamondJoin(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{
			node("S", "Start"), node("A", "Echo"), node("B", "Echo"), node("C", "Aggregator"),
		},
		Connections: []schema.Connection{
			{From: "S", To: "A"}, {From: "S", To: "B"},
			{From: "A", To: "C"}, {From: "B", To: "C"},
		},
	}

	g, err := Build(ws)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := g.Nodes["C"]
	if got := c.WaitCount.Load(); got != 2 {
		t.Errorf("C wait_count = %d, want 2 (fan-in correctness)", got)
	}
	if len(c.Prev) != 2 {
		t.Errorf("C prev = %v, want 2 entries", c.Prev)
	}
}

func TestBuild_CycleDetected(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{node("S", "Start"), node("A", "Echo"), node("B", "Echo")},
		Connections: []schema.Connection{
			{From: "S", To: "A"}, {From: "A", To: "B"}, {From: "B", To: "A"},
		},
	}
	_, err := Build(ws)
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("Build error = %v, want *CycleError", err)
	}
}

func TestBuild_MissingStart(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{Nodes: []schema.NodeSchema{node("A", "Echo")}}
	if _, err := Build(ws); err != ErrMissingStart {
		t.Fatalf("Build error = %v, want ErrMissingStart", err)
	}
}

func TestBuild_MissingNode(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes:       []schema.NodeSchema{node("S", "Start")},
		Connections: []schema.Connection{{From: "S", To: "ghost"}},
	}
	_, err := Build(ws)
	var missing *MissingNodeError
	if !errors.As(err, &missing) {
		t.Fatalf("Build error = %v, want *MissingNodeError", err)
	}
}

func TestBuild_StartInInEdge(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes:       []schema.NodeSchema{node("S", "Start"), node("S2", "Start")},
		Connections: []schema.Connection{{From: "S", To: "S2"}},
	}
	_, err := Build(ws)
	var startErr *StartInEdgeError
	if !errors.As(err, &startErr) {
		t.Fatalf("Build error = %v, want *StartInEdgeError", err)
	}
}
