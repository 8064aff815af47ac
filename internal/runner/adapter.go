// Package runner implements the node runner adapter (§4.4): the thin
// layer between a node's raw, untyped input_data and the strongly typed
// parameter map a registry.Runner expects. It applies defaults, resolves
// ${KEY} templates, coerces each field to its declared type, invokes the
// runner, and publishes the result back into the run context.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/flowforge/engine/internal/engctx"
	"github.com/flowforge/engine/internal/registry"
	"github.com/flowforge/engine/internal/resolver"
)

// CoercionError reports a schema coercion failure for one field,
// matching the UnparsableNumber/UnparsableBoolean/NonScalarExpected/
// ParamShapeMismatch taxonomy in spec.md §7.
type CoercionError struct {
	Field string
	Kind  string
	Value string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("runner: field %q: %s (value %q)", e.Field, e.Kind, e.Value)
}

// Adapter runs the default/coercion pass over raw input_data against a
// node's declared input schema, then invokes a registry.Runner and
// writes its result back into the context under ctx.<nodeName>.<key>.
type Adapter struct{}

// New creates an Adapter. It carries no state; it exists as a type so
// call sites read the same way the rest of the engine's small
// component set does (registry, resolver, condition all export a
// matching entry point).
func New() *Adapter { return &Adapter{} }

// Run performs the coercion pass over rawInputs against schemaFields,
// invokes runner with the coerced+typed parameter map, and on success
// publishes every (k, v) in the result under ctx["ctx.<nodeName>.<k>"].
func (a *Adapter) Run(
	ctx context.Context,
	ectx *engctx.Context,
	nodeName string,
	rawInputs map[string]json.RawMessage,
	schemaFields []registry.SchemaField,
	r registry.Runner,
) (map[string]any, error) {
	coerced, err := a.Coerce(ectx, rawInputs, schemaFields)
	if err != nil {
		return nil, err
	}

	result, err := r.Run(ctx, ectx, nodeName, coerced)
	if err != nil {
		return nil, err
	}

	for k, v := range result {
		if err := ectx.SetValue(fmt.Sprintf("ctx.%s.%s", nodeName, k), v); err != nil {
			return nil, fmt.Errorf("runner: publish output %q: %w", k, err)
		}
	}
	return result, nil
}

// Coerce runs the default/coercion pass described in §4.4 step 1,
// producing a map of Go-typed values ready for a runner's typed
// parameter record (via its own json.Unmarshal/mapstructure-style
// decode — see registry.Runner.Run, which receives this map directly).
func (a *Adapter) Coerce(
	ectx *engctx.Context,
	rawInputs map[string]json.RawMessage,
	schemaFields []registry.SchemaField,
) (map[string]any, error) {
	// A node kind that declares no input schema (e.g. nodes.Start) is
	// schema-less by design: every raw key is decoded, template
	// resolved, and passed through untyped rather than dropped.
	if len(schemaFields) == 0 {
		out := make(map[string]any, len(rawInputs))
		for k, raw := range rawInputs {
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				decoded = string(raw)
			}
			if s, ok := decoded.(string); ok {
				decoded = resolver.Resolve(ectx, s)
			}
			out[k] = decoded
		}
		return out, nil
	}

	out := make(map[string]any, len(schemaFields))

	for _, f := range schemaFields {
		raw, present := rawInputs[f.Name]

		var current any
		switch {
		case present:
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err != nil {
				// not valid JSON on its own: treat the raw bytes as a bare string
				decoded = string(raw)
			}
			current = decoded
		case f.Default != "":
			current = f.Default
		default:
			current = nil
		}

		if s, ok := current.(string); ok {
			current = resolver.Resolve(ectx, s)
		}

		coerced, err := coerceType(f, current)
		if err != nil {
			return nil, err
		}
		out[f.Name] = coerced
	}
	return out, nil
}

func coerceType(f registry.SchemaField, v any) (any, error) {
	switch f.Type {
	case registry.FieldString, registry.FieldImage, registry.FieldFile:
		if v == nil {
			return "", nil
		}
		if s, ok := v.(string); ok {
			return s, nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, &CoercionError{Field: f.Name, Kind: "non-scalar value could not be stringified", Value: fmt.Sprint(v)}
		}
		return string(b), nil

	case registry.FieldNumber:
		s, ok := v.(string)
		if !ok {
			if n, ok := v.(float64); ok {
				return n, nil
			}
			return nil, &CoercionError{Field: f.Name, Kind: "UnparsableNumber", Value: fmt.Sprint(v)}
		}
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		fv, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &CoercionError{Field: f.Name, Kind: "UnparsableNumber", Value: s}
		}
		return fv, nil

	case registry.FieldBoolean:
		s, ok := v.(string)
		if !ok {
			if b, ok := v.(bool); ok {
				return b, nil
			}
			return nil, &CoercionError{Field: f.Name, Kind: "UnparsableBoolean", Value: fmt.Sprint(v)}
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		default:
			return nil, &CoercionError{Field: f.Name, Kind: "UnparsableBoolean", Value: s}
		}

	case registry.FieldArray, registry.FieldObject:
		if _, isStr := v.(string); isStr {
			return nil, &CoercionError{Field: f.Name, Kind: "NonScalarExpected", Value: v.(string)}
		}
		return v, nil

	default:
		return nil, &CoercionError{Field: f.Name, Kind: "unknown field type " + string(f.Type), Value: fmt.Sprint(v)}
	}
}
