// Package scheduler implements the concurrent DAG driver (§4.6): a
// task-per-ready-node model spawned over an errgroup.Group, honoring
// join-on-predecessors semantics via GraphNode.WaitCount, per-node
// retry/backoff, conditional gating, and a single cancellation token.
// Grounded on the teacher's engine.go sequential walk, generalized from
// a single linear path into full concurrent fan-out/fan-in.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/flowforge/engine/internal/condition"
	"github.com/flowforge/engine/internal/emitter"
	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/graph"
	"github.com/flowforge/engine/internal/registry"
	"github.com/flowforge/engine/internal/runner"
)

// Scheduler drives one Graph to completion against a shared Registry,
// Adapter, and Emitter.
type Scheduler struct {
	reg     *registry.Registry
	adapter *runner.Adapter
	emit    *emitter.Emitter
	cfg     Config
}

// New constructs a Scheduler. adapter may be nil, in which case a
// default runner.Adapter is used.
func New(reg *registry.Registry, adapter *runner.Adapter, emit *emitter.Emitter, cfg Config) *Scheduler {
	if adapter == nil {
		adapter = runner.New()
	}
	return &Scheduler{reg: reg, adapter: adapter, emit: emit, cfg: cfg}
}

// Run drives g to completion: every node reachable from g.Starts is
// scheduled once its predecessors complete, per the state machine in
// spec.md §4.6. Run blocks until every scheduling task quiesces,
// whether by completion, skip, or cancellation via ctx.
func (s *Scheduler) Run(ctx context.Context, g *graph.Graph, ectx *engctx.Context) error {
	if err := s.emit.Emit("workflow", emitter.WorkflowEvent{Status: emitter.WorkflowRunning}); err != nil {
		return fmt.Errorf("scheduler: emit workflow running: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Every node with a nonzero wait_count starts out blocked on its
	// predecessors; emit the supplemental node:waiting event for each
	// before any scheduling task is spawned (the node:waiting supplement
	// in SPEC_FULL.md §12). Starts themselves begin
	// with wait_count == 0 and go straight to running.
	isStart := make(map[string]bool, len(g.Starts))
	for _, st := range g.Starts {
		isStart[st.NodeID] = true
	}
	for id, n := range g.Nodes {
		if !isStart[id] && n.WaitCount.Load() > 0 {
			s.emitNode(emitter.NodeWaiting, n.NodeID, nil, "")
		}
	}

	var grp errgroup.Group
	var mu sync.Mutex
	var terminalErr error

	var spawn func(n *graph.GraphNode)
	spawn = func(n *graph.GraphNode) {
		grp.Go(func() error {
			return s.runNode(runCtx, n, ectx, spawn, &mu, &terminalErr, cancel)
		})
	}

	for _, start := range g.Starts {
		spawn(start)
	}

	_ = grp.Wait()

	mu.Lock()
	tErr := terminalErr
	mu.Unlock()

	status := emitter.WorkflowFinished
	if ctx.Err() != nil {
		status = emitter.WorkflowCancelled
	}
	if err := s.emit.Emit("workflow", emitter.WorkflowEvent{Status: status}); err != nil {
		return fmt.Errorf("scheduler: emit workflow %s: %w", status, err)
	}

	return tErr
}

// runNode executes one scheduling task for n: gating, retried
// execution, lifecycle events, and finally the join-decrement of each
// successor. spawnFn lets a task recursively schedule newly-unblocked
// successors; mu/terminalErr record the first err_return=true failure
// for Run to return once every task has quiesced.
func (s *Scheduler) runNode(
	ctx context.Context,
	n *graph.GraphNode,
	ectx *engctx.Context,
	spawnFn func(*graph.GraphNode),
	mu *sync.Mutex,
	terminalErr *error,
	cancel context.CancelFunc,
) error {
	if ctx.Err() != nil {
		s.emitNode(emitter.NodeCancel, n.NodeID, nil, "")
		return nil
	}

	s.emitNode(emitter.NodeRunning, n.NodeID, nil, "")

	meta := n.Schema.Metadata

	def, hasDef := s.reg.LoadNode(n.Schema.ActionType)
	rn, hasRunner := s.reg.CreateRunner(n.Schema.ActionType)
	if !hasDef || !hasRunner {
		err := &UnknownActionError{NodeID: n.NodeID, ActionType: n.Schema.ActionType}
		s.emitNode(emitter.NodeError, n.NodeID, nil, err.Error())
		s.recordTerminal(mu, terminalErr, err, cancel)
		return err
	}

	res, err := condition.Check(ectx, meta.Conditions)
	if err != nil {
		cerr := &ConditionEvalFailureError{NodeID: n.NodeID, Err: err}
		s.emitNode(emitter.NodeError, n.NodeID, nil, cerr.Error())
		s.recordTerminal(mu, terminalErr, cerr, cancel)
		return cerr
	}
	if !res.Pass {
		s.emitNode(emitter.NodeSkip, n.NodeID, nil, res.Reason)
		s.advance(ctx, n, spawnFn)
		return nil
	}

	result, runErr := s.executeWithRetry(ctx, n, ectx, def, rn, meta.Retry, meta.Interval)
	if runErr != nil {
		if ctx.Err() != nil {
			// Cancellation raced the in-flight call: the node observed
			// the token and gave up mid-retry. Not a failure.
			s.emitNode(emitter.NodeCancel, n.NodeID, nil, "")
			return nil
		}
		failErr := &RunnerFailureError{NodeID: n.NodeID, Err: runErr}
		s.emitNode(emitter.NodeError, n.NodeID, nil, failErr.Error())
		if meta.ErrReturnOr() {
			s.recordTerminal(mu, terminalErr, failErr, cancel)
			return failErr
		}
		// err_return = false: surfaced, but treated as completion.
		s.advance(ctx, n, spawnFn)
		return nil
	}

	s.emitNode(emitter.NodeDone, n.NodeID, result, "")
	s.advance(ctx, n, spawnFn)
	return nil
}

// executeWithRetry runs the node's runner according to its retry
// policy (§4.6 step d): retry<0 infinite with a minimum 200ms tick;
// retry==0 one attempt; retry>0 up to retry+1 attempts spaced by
// interval ms.
func (s *Scheduler) executeWithRetry(
	ctx context.Context,
	n *graph.GraphNode,
	ectx *engctx.Context,
	def registry.NodeDefine,
	rn registry.Runner,
	retry int32,
	intervalMS uint64,
) (map[string]any, error) {
	var result map[string]any

	op := func() error {
		r, err := s.adapter.Run(ctx, ectx, n.Schema.Metadata.Name, n.Schema.InputData, def.InputSchema(), rn)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	var b backoff.BackOff
	switch {
	case retry < 0:
		cb := backoff.NewConstantBackOff(s.tick())
		b = cb
	case retry == 0:
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(s.interval(intervalMS)), 0)
	default:
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(s.interval(intervalMS)), uint64(retry))
	}
	b = backoff.WithContext(b, ctx)

	err := backoff.Retry(op, b)
	return result, err
}

func (s *Scheduler) tick() time.Duration {
	if s.cfg.MinRetryTick <= 0 {
		return 200 * time.Millisecond
	}
	return s.cfg.MinRetryTick
}

func (s *Scheduler) interval(ms uint64) time.Duration {
	if ms == 0 {
		return time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}

// advance decrements wait_count on each of n's successors and spawns a
// scheduling task for any that reach zero, unless ctx is already
// cancelled (no new tasks are spawned after cancellation, §4.6 step 5).
func (s *Scheduler) advance(ctx context.Context, n *graph.GraphNode, spawnFn func(*graph.GraphNode)) {
	for _, next := range n.Next {
		if next.WaitCount.Add(-1) == 0 {
			if ctx.Err() != nil {
				continue
			}
			spawnFn(next)
		}
	}
}

func (s *Scheduler) recordTerminal(mu *sync.Mutex, terminalErr *error, err error, cancel context.CancelFunc) {
	mu.Lock()
	if *terminalErr == nil {
		*terminalErr = err
	}
	mu.Unlock()
	if s.cfg.CancelSiblingsOnError {
		cancel()
	}
}

// emitNode fans a node event out and logs, rather than returns, any
// backend failure: per spec.md §7 only workflow-lifecycle event
// delivery failures are fatal to the run.
func (s *Scheduler) emitNode(status, name string, result map[string]any, reason string) {
	payload := emitter.NodeEvent{Status: status, Name: name, Result: anyResult(result), Reason: reason}
	if err := s.emit.Emit("node", payload); err != nil {
		slog.Warn("node event delivery failed", "node", name, "status", status, "error", err)
	}
}

func anyResult(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
