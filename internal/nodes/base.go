// Package nodes is the engine's small built-in catalog: Start, End,
// SetVariables, Condition, HTTPRequest, Notify, Wait, and Aggregator.
// Concrete node implementations are out of scope as a pluggable
// subsystem (spec.md §1) — this catalog exists so the registry/adapter
// contract has something real to exercise end to end, generalized from
// the teacher's node_*.go family (node_sentinel.go, node_form.go,
// node_condition.go, node_weather.go, node_email.go, node_sms.go).
package nodes

import (
	"encoding/json"

	"github.com/flowforge/engine/internal/registry"
)

// define is a plain-data registry.NodeDefine shared by every built-in,
// matching the teacher's pattern of a small struct literal per node
// kind rather than per-kind generated code.
type define struct {
	actionType  string
	name        registry.Text
	icon        string
	category    registry.Text
	description registry.Text
	inputs      []registry.SchemaField
	outputsFn   func(input map[string]json.RawMessage) []registry.SchemaField
}

func (d *define) ActionType() string      { return d.actionType }
func (d *define) Name() registry.Text     { return d.name }
func (d *define) Icon() string            { return d.icon }
func (d *define) Category() registry.Text { return d.category }
func (d *define) Description() registry.Text { return d.description }

func (d *define) InputSchema() []registry.SchemaField { return d.inputs }

func (d *define) OutputSchema(input map[string]json.RawMessage) []registry.SchemaField {
	if d.outputsFn == nil {
		return nil
	}
	return d.outputsFn(input)
}

func staticOutputs(fields ...registry.SchemaField) func(map[string]json.RawMessage) []registry.SchemaField {
	return func(map[string]json.RawMessage) []registry.SchemaField { return fields }
}
