package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flowforge/engine/internal/emitter"
	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/graph"
	"github.com/flowforge/engine/internal/registry"
	"github.com/flowforge/engine/internal/schema"
)

// recordingBackend collects every emitted event for assertions, the
// way the teacher's tests inspect a recorded call list instead of
// asserting against live I/O.
type recordingBackend struct {
	mu     sync.Mutex
	events []struct {
		channel string
		payload any
	}
}

func (b *recordingBackend) Emit(channel string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, struct {
		channel string
		payload any
	}{channel, payload})
	return nil
}

func (b *recordingBackend) nodeEvents(status string) []emitter.NodeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []emitter.NodeEvent
	for _, e := range b.events {
		if e.channel != "node" {
			continue
		}
		ne := e.payload.(emitter.NodeEvent)
		if ne.Status == status {
			out = append(out, ne)
		}
	}
	return out
}

// passthroughDefine/passthroughRunner is schema-less: whatever raw
// input_data a node declares is published verbatim as its output,
// letting tests build seed-scenario graphs without a real node catalog.
type passthroughDefine struct{ action string }

func (d passthroughDefine) ActionType() string                                        { return d.action }
func (d passthroughDefine) Name() registry.Text                                       { return registry.Text{EN: d.action} }
func (d passthroughDefine) Icon() string                                              { return "" }
func (d passthroughDefine) Category() registry.Text                                   { return registry.Text{} }
func (d passthroughDefine) Description() registry.Text                                { return registry.Text{} }
func (d passthroughDefine) InputSchema() []registry.SchemaField                       { return nil }
func (d passthroughDefine) OutputSchema(map[string]json.RawMessage) []registry.SchemaField { return nil }

type passthroughRunner struct{}

func (passthroughRunner) Run(_ context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	return params, nil
}

func newTestRegistry(extra map[string]registry.Runner) *registry.Registry {
	reg := registry.New()
	for _, action := range []string{"Start", "Echo", "Aggregate"} {
		reg.RegisterNode(action, passthroughDefine{action: action})
		reg.RegisterRunner(action, registry.RunnerFactoryFunc(func() registry.Runner { return passthroughRunner{} }))
	}
	for action, r := range extra {
		reg.RegisterNode(action, passthroughDefine{action: action})
		rr := r
		reg.RegisterRunner(action, registry.RunnerFactoryFunc(func() registry.Runner { return rr }))
	}
	return reg
}

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

func nodeWithInput(id, action, name string, input map[string]json.RawMessage) schema.NodeSchema {
	return schema.NodeSchema{NodeID: id, ActionType: action, Metadata: schema.MetaData{Name: name}, InputData: input}
}

// TestScheduler_LinearChain is seed scenario 1.
func TestScheduler_LinearChain(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{
			nodeWithInput("s", "Start", "S", nil),
			nodeWithInput("a", "Echo", "A", inputData(t, map[string]string{"x": "1"})),
			nodeWithInput("b", "Echo", "B", inputData(t, map[string]string{"x": "${ctx.A.x:9}"})),
		},
		Connections: []schema.Connection{{From: "s", To: "a"}, {From: "a", To: "b"}},
	}
	g, err := graph.Build(ws)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}

	rec := &recordingBackend{}
	emit := emitter.New()
	emit.Register("test", rec)

	sched := New(newTestRegistry(nil), nil, emit, DefaultConfig())
	ectx := engctx.New("")
	if err := sched.Run(context.Background(), g, ectx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if done := rec.nodeEvents(emitter.NodeDone); len(done) != 3 {
		t.Fatalf("node:done count = %d, want 3", len(done))
	}

	ax, _ := ectx.GetValue("ctx.A.x")
	if string(ax) != `"1"` {
		t.Errorf("ctx.A.x = %s, want \"1\"", ax)
	}
	bx, _ := ectx.GetValue("ctx.B.x")
	if string(bx) != `"1"` {
		t.Errorf("ctx.B.x = %s, want \"1\"", bx)
	}
}

// TestScheduler_DiamondJoin is seed scenario 2.
func TestScheduler_DiamondJoin(t *testing.T) {
	t.Parallel()
	ws := &schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{
			nodeWithInput("s", "Start", "S", nil),
			nodeWithInput("a", "Echo", "A", inputData(t, map[string]string{"v": "10"})),
			nodeWithInput("b", "Echo", "B", inputData(t, map[string]string{"v": "20"})),
			nodeWithInput("c", "Aggregate", "C", inputData(t, map[string]string{
				"av": "${ctx.A.v}", "bv": "${ctx.B.v}",
			})),
		},
		Connections: []schema.Connection{
			{From: "s", To: "a"}, {From: "s", To: "b"},
			{From: "a", To: "c"}, {From: "b", To: "c"},
		},
	}
	g, err := graph.Build(ws)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}

	var cCalls int
	var mu sync.Mutex
	counting := countingRunner{fn: func(params map[string]any) (map[string]any, error) {
		mu.Lock()
		cCalls++
		mu.Unlock()
		return params, nil
	}}

	rec := &recordingBackend{}
	emit := emitter.New()
	emit.Register("test", rec)

	sched := New(newTestRegistry(map[string]registry.Runner{"Aggregate": counting}), nil, emit, DefaultConfig())
	ectx := engctx.New("")
	if err := sched.Run(context.Background(), g, ectx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if cCalls != 1 {
		t.Errorf("C invoked %d times, want exactly 1", cCalls)
	}
	av, _ := ectx.GetValue("ctx.C.av")
	bv, _ := ectx.GetValue("ctx.C.bv")
	if string(av) != `"10"` || string(bv) != `"20"` {
		t.Errorf("ctx.C.{av,bv} = %s, %s", av, bv)
	}
}

type countingRunner struct {
	fn func(map[string]any) (map[string]any, error)
}

func (c countingRunner) Run(_ context.Context, _ *engctx.Context, _ string, params map[string]any) (map[string]any, error) {
	return c.fn(params)
}

// TestScheduler_SkipByCondition is seed scenario 4.
func TestScheduler_SkipByCondition(t *testing.T) {
	t.Parallel()
	n := nodeWithInput("n", "Echo", "N", nil)
	n.Metadata.Conditions = &schema.Conditions{Exist: "ctx.A.ready"}

	ws := &schema.WorkflowSchema{
		Nodes: []schema.NodeSchema{
			nodeWithInput("s", "Start", "S", nil),
			n,
			nodeWithInput("after", "Echo", "After", nil),
		},
		Connections: []schema.Connection{{From: "s", To: "n"}, {From: "n", To: "after"}},
	}
	g, err := graph.Build(ws)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}

	rec := &recordingBackend{}
	emit := emitter.New()
	emit.Register("test", rec)

	sched := New(newTestRegistry(nil), nil, emit, DefaultConfig())
	ectx := engctx.New("")
	if err := sched.Run(context.Background(), g, ectx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	skips := rec.nodeEvents(emitter.NodeSkip)
	if len(skips) != 1 || skips[0].Name != "n" {
		t.Fatalf("node:skip = %+v, want exactly one for n", skips)
	}
	if skips[0].Reason != "ctx.A.ready does not exist" {
		t.Errorf("Reason = %q", skips[0].Reason)
	}

	done := rec.nodeEvents(emitter.NodeDone)
	var afterRan bool
	for _, d := range done {
		if d.Name == "after" {
			afterRan = true
		}
	}
	if !afterRan {
		t.Error("successor of skipped node did not run")
	}
}

// TestScheduler_InfiniteRetry is seed scenario 5.
func TestScheduler_InfiniteRetry(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var calls []time.Time
	failing := countingRunner{fn: func(params map[string]any) (map[string]any, error) {
		mu.Lock()
		calls = append(calls, time.Now())
		n := len(calls)
		mu.Unlock()
		if n <= 3 {
			return nil, errors.New("transient failure")
		}
		return params, nil
	}}

	n := nodeWithInput("n", "Flaky", "N", nil)
	n.Metadata.Retry = -1

	ws := &schema.WorkflowSchema{
		Nodes:       []schema.NodeSchema{nodeWithInput("s", "Start", "S", nil), n},
		Connections: []schema.Connection{{From: "s", To: "n"}},
	}
	g, err := graph.Build(ws)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}

	rec := &recordingBackend{}
	emit := emitter.New()
	emit.Register("test", rec)

	cfg := DefaultConfig()
	cfg.MinRetryTick = 200 * time.Millisecond
	sched := New(newTestRegistry(map[string]registry.Runner{"Flaky": failing}), nil, emit, cfg)
	ectx := engctx.New("")
	if err := sched.Run(context.Background(), g, ectx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if errs := rec.nodeEvents(emitter.NodeError); len(errs) != 0 {
		t.Errorf("node:error count = %d, want 0", len(errs))
	}
	if done := rec.nodeEvents(emitter.NodeDone); len(done) != 1 {
		t.Fatalf("node:done count = %d, want 1", len(done))
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(calls); i++ {
		gap := calls[i].Sub(calls[i-1])
		if gap < 200*time.Millisecond {
			t.Errorf("attempt %d gap = %v, want >= 200ms", i, gap)
		}
	}
}

// TestScheduler_Cancellation is seed scenario 6.
func TestScheduler_Cancellation(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	slow := countingRunner{fn: nil}
	slowRunner := blockingRunner{started: started}

	n := nodeWithInput("n", "Slow", "N", nil)

	ws := &schema.WorkflowSchema{
		Nodes:       []schema.NodeSchema{nodeWithInput("s", "Start", "S", nil), n},
		Connections: []schema.Connection{{From: "s", To: "n"}},
	}
	g, err := graph.Build(ws)
	if err != nil {
		t.Fatalf("graph.Build: %v", err)
	}
	_ = slow

	rec := &recordingBackend{}
	emit := emitter.New()
	emit.Register("test", rec)

	sched := New(newTestRegistry(map[string]registry.Runner{"Slow": slowRunner}), nil, emit, DefaultConfig())
	ectx := engctx.New("")

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(runCtx, g, ectx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run after cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	cancels := rec.nodeEvents(emitter.NodeCancel)
	if len(cancels) == 0 {
		t.Error("expected at least one node:cancel event")
	}
}

type blockingRunner struct {
	started chan struct{}
}

func (b blockingRunner) Run(ctx context.Context, _ *engctx.Context, _ string, _ map[string]any) (map[string]any, error) {
	close(b.started)
	<-ctx.Done()
	return nil, ctx.Err()
}
