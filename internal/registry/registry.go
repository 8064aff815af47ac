// Package registry is the node registry bus: the directory of known
// node kinds (NodeDefine) and their runner factories, consulted by the
// scheduler once per node execution. Registration happens from built-ins
// at process start and from plugin hosts before Scheduler.Run is called
// (see §4.2 / §6); lookups during a run are read-only.
package registry

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/flowforge/engine/internal/engctx"
)

// NodeDefine is the static metadata declaration of a node kind: display
// name, icon, category, description, and the schema of its inputs (and,
// given a configured input, its outputs).
type NodeDefine interface {
	ActionType() string
	Name() Text
	Icon() string
	Category() Text
	Description() Text
	InputSchema() []SchemaField
	OutputSchema(input map[string]json.RawMessage) []SchemaField
}

// Runner executes one node's logic for a single invocation. A fresh
// Runner is constructed per node execution by its RunnerFactory, so a
// runner may safely cache per-invocation state (e.g. a compiled
// template) on itself.
type Runner interface {
	Run(ctx context.Context, ectx *engctx.Context, nodeName string, params map[string]any) (map[string]any, error)
}

// RunnerFactory constructs a fresh Runner instance.
type RunnerFactory interface {
	Create() Runner
}

// RunnerFactoryFunc adapts a plain function to a RunnerFactory.
type RunnerFactoryFunc func() Runner

func (f RunnerFactoryFunc) Create() Runner { return f() }

// Registry is a thread-safe directory of action_type -> NodeDefine and
// action_type -> RunnerFactory. The two maps are independent: a node
// kind may register its schema without (yet) having a runner, or vice
// versa, mirroring the two separate registration calls in §6.
type Registry struct {
	mu        sync.RWMutex
	defines   map[string]NodeDefine
	factories map[string]RunnerFactory
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		defines:   make(map[string]NodeDefine),
		factories: make(map[string]RunnerFactory),
	}
}

// RegisterNode registers (or overrides) the NodeDefine for actionType.
// Idempotent: a later call for the same key replaces the earlier one.
func (r *Registry) RegisterNode(actionType string, def NodeDefine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defines[actionType] = def
}

// RegisterRunner registers (or overrides) the RunnerFactory for
// actionType.
func (r *Registry) RegisterRunner(actionType string, factory RunnerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[actionType] = factory
}

// Register is a convenience that registers both halves for actionType
// at once.
func (r *Registry) Register(actionType string, def NodeDefine, factory RunnerFactory) {
	r.RegisterNode(actionType, def)
	r.RegisterRunner(actionType, factory)
}

// LoadNode returns the NodeDefine registered for actionType, if any.
func (r *Registry) LoadNode(actionType string) (NodeDefine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defines[actionType]
	return d, ok
}

// CreateRunner constructs a fresh Runner for actionType via its
// registered factory, if any.
func (r *Registry) CreateRunner(actionType string) (Runner, bool) {
	r.mu.RLock()
	factory, ok := r.factories[actionType]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return factory.Create(), true
}

// ListNodes returns every registered NodeDefine, in no particular
// order.
func (r *Registry) ListNodes() []NodeDefine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NodeDefine, 0, len(r.defines))
	for _, d := range r.defines {
		out = append(out, d)
	}
	return out
}
