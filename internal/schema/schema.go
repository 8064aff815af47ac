// Package schema defines the plain-data shape of a workflow document:
// the nodes, their metadata, and the connections between them. Nothing
// here executes anything — it is the external, serializable contract
// that the graph builder consumes.
package schema

import "encoding/json"

// StartActionType identifies the node kind that marks a graph root.
const StartActionType = "Start"

// Position holds a node's canvas coordinates. Advisory only — the engine
// never reads it, it exists for round-tripping authoring tools.
type Position struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
}

// Conditions gates whether a node runs. A node with any field set is
// "gated": if evaluation says skip, the node emits a skip event and its
// successors still fire.
type Conditions struct {
	Exist    string `json:"exist,omitempty" yaml:"exist,omitempty"`
	NotExist string `json:"not_exist,omitempty" yaml:"not_exist,omitempty"`
	Cond     string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// IsZero reports whether no condition field is set, i.e. the node is
// always eligible to run.
func (c *Conditions) IsZero() bool {
	return c == nil || (c.Exist == "" && c.NotExist == "" && c.Cond == "")
}

// MetaData carries the per-node execution policy: display info, retry and
// timing knobs, the optional gate, and error propagation behavior.
type MetaData struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Duration    uint32      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Retry       int32       `json:"retry,omitempty" yaml:"retry,omitempty"`
	Interval    uint64      `json:"interval,omitempty" yaml:"interval,omitempty"`
	Conditions  *Conditions `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	// ErrReturn defaults to true: a terminal failure aborts the workflow.
	// A *bool so an absent key in the document still means "true" (see
	// MetaData.ErrReturnOr()).
	ErrReturn *bool `json:"err_return,omitempty" yaml:"err_return,omitempty"`
}

// ErrReturnOr returns the configured ErrReturn, defaulting to true when
// unset, matching §3's MetaData semantics.
func (m *MetaData) ErrReturnOr() bool {
	if m == nil || m.ErrReturn == nil {
		return true
	}
	return *m.ErrReturn
}

// NodeSchema is one node in a workflow document. Internally its
// per-node execution policy is modeled as a nested MetaData struct
// (§3); on the wire (§6) those same fields sit flattened at the node's
// top level, so NodeSchema carries its own JSON codec instead of
// struct tags.
type NodeSchema struct {
	NodeID     string
	ActionType string
	Metadata   MetaData
	InputData  map[string]json.RawMessage
	Position   Position
	Icon       string
	TypeDefine string
}

// IsStart reports whether this node is a graph root.
func (n *NodeSchema) IsStart() bool {
	return n.ActionType == StartActionType
}

// nodeSchemaDoc is the flattened wire shape of NodeSchema (§6): the
// document's per-node metadata fields (name, retry, interval, ...) sit
// alongside node_id/action_type rather than under a nested "metadata"
// key.
type nodeSchemaDoc struct {
	NodeID      string                     `json:"node_id"`
	ActionType  string                     `json:"action_type"`
	Name        string                     `json:"name"`
	Description string                     `json:"description,omitempty"`
	Duration    uint32                     `json:"duration,omitempty"`
	Retry       int32                      `json:"retry,omitempty"`
	Interval    uint64                     `json:"interval,omitempty"`
	Conditions  *Conditions                `json:"conditions,omitempty"`
	ErrReturn   *bool                      `json:"err_return,omitempty"`
	InputData   map[string]json.RawMessage `json:"input_data,omitempty"`
	Position    Position                   `json:"position,omitempty"`
	Icon        string                     `json:"icon,omitempty"`
	TypeDefine  string                     `json:"type_define,omitempty"`
}

// MarshalJSON flattens Metadata's fields onto the node, per §6.
func (n NodeSchema) MarshalJSON() ([]byte, error) {
	doc := nodeSchemaDoc{
		NodeID:      n.NodeID,
		ActionType:  n.ActionType,
		Name:        n.Metadata.Name,
		Description: n.Metadata.Description,
		Duration:    n.Metadata.Duration,
		Retry:       n.Metadata.Retry,
		Interval:    n.Metadata.Interval,
		Conditions:  n.Metadata.Conditions,
		ErrReturn:   n.Metadata.ErrReturn,
		InputData:   n.InputData,
		Position:    n.Position,
		Icon:        n.Icon,
		TypeDefine:  n.TypeDefine,
	}
	return json.Marshal(doc)
}

// UnmarshalJSON reconstructs NodeSchema from the flattened wire shape.
func (n *NodeSchema) UnmarshalJSON(data []byte) error {
	var doc nodeSchemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	n.NodeID = doc.NodeID
	n.ActionType = doc.ActionType
	n.Metadata = MetaData{
		Name:        doc.Name,
		Description: doc.Description,
		Duration:    doc.Duration,
		Retry:       doc.Retry,
		Interval:    doc.Interval,
		Conditions:  doc.Conditions,
		ErrReturn:   doc.ErrReturn,
	}
	n.InputData = doc.InputData
	n.Position = doc.Position
	n.Icon = doc.Icon
	n.TypeDefine = doc.TypeDefine
	return nil
}

// Connection is a directed edge between two node IDs.
type Connection struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// WorkflowSchema is the full authored document: a set of nodes and the
// directed connections between them. It is immutable once parsed; the
// graph builder turns it into a runnable Graph.
type WorkflowSchema struct {
	Nodes       []NodeSchema `json:"nodes" yaml:"nodes"`
	Connections []Connection `json:"connections" yaml:"connections"`
}
