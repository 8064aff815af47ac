// Package graph builds a runnable DAG (graph.Graph) from a schema.
// WorkflowSchema: one GraphNode per schema node, wired into forward
// (next) and backward (prev) edges, with each node's wait_count seeded
// to its in-degree. See spec.md §4.1 and §9's arena note — forward edges
// are direct references, backward edges are node_id strings, avoiding
// the cyclic parent/child references the original implementation used.
package graph

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/flowforge/engine/internal/schema"
)

// GraphNode is one node's runtime shape: its schema, its resolved
// successors, the IDs of its predecessors, and an atomic join counter.
type GraphNode struct {
	NodeID    string
	Schema    schema.NodeSchema
	Next      []*GraphNode
	Prev      []string
	WaitCount atomic.Int32
}

// Graph is the fully built, validated DAG: every node keyed by ID, plus
// the set of roots to start scheduling from.
type Graph struct {
	Nodes  map[string]*GraphNode
	Starts []*GraphNode
}

// Error kinds, matching spec.md §4.1/§7.
var (
	ErrMissingStart = errors.New("graph: workflow has no Start node")
)

// MissingNodeError reports a connection referencing an unknown node_id.
type MissingNodeError struct{ NodeID string }

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("graph: connection references missing node %q", e.NodeID)
}

// CycleError reports a cycle found during the DFS traversal from a
// Start node.
type CycleError struct{ NodeID string }

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph: cycle detected at node %q", e.NodeID)
}

// StartInEdgeError reports a connection terminating at a Start node.
type StartInEdgeError struct{ NodeID string }

func (e *StartInEdgeError) Error() string {
	return fmt.Sprintf("graph: start node %q must not have incoming edges", e.NodeID)
}

// Build validates ws and constructs its Graph. See spec.md §4.1 for the
// exact algorithm: one GraphNode per schema node, outgoing edges
// attached per connection, then a DFS from each Start that accumulates
// prev/wait_count and rejects cycles and dangling references.
func Build(ws *schema.WorkflowSchema) (*Graph, error) {
	nodes := make(map[string]*GraphNode, len(ws.Nodes))
	var starts []*GraphNode

	for _, ns := range ws.Nodes {
		gn := &GraphNode{NodeID: ns.NodeID, Schema: ns}
		nodes[ns.NodeID] = gn
		if ns.IsStart() {
			starts = append(starts, gn)
		}
	}
	if len(starts) == 0 {
		return nil, ErrMissingStart
	}

	adjacency := make(map[string][]string, len(ws.Connections))
	for _, c := range ws.Connections {
		if _, ok := nodes[c.From]; !ok {
			return nil, &MissingNodeError{NodeID: c.From}
		}
		to, ok := nodes[c.To]
		if !ok {
			return nil, &MissingNodeError{NodeID: c.To}
		}
		if to.Schema.IsStart() {
			return nil, &StartInEdgeError{NodeID: c.To}
		}
		adjacency[c.From] = append(adjacency[c.From], c.To)
	}

	visiting := make(map[string]bool) // on current DFS path
	seen := make(map[string]bool)     // fully processed, safe to revisit

	var walk func(id string) error
	walk = func(id string) error {
		if visiting[id] {
			return &CycleError{NodeID: id}
		}
		if seen[id] {
			return nil
		}
		visiting[id] = true
		for _, toID := range adjacency[id] {
			from := nodes[id]
			to := nodes[toID]
			to.Prev = append(to.Prev, id)
			to.WaitCount.Add(1)
			if err := walk(toID); err != nil {
				return err
			}
			from.Next = append(from.Next, to)
		}
		visiting[id] = false
		seen[id] = true
		return nil
	}

	for _, s := range starts {
		if err := walk(s.NodeID); err != nil {
			return nil, err
		}
	}

	return &Graph{Nodes: nodes, Starts: starts}, nil
}
