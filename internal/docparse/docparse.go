// Package docparse parses an authored workflow document (YAML or JSON,
// §6) into a schema.WorkflowSchema, and serializes one back out. It
// supports the round-trip property in spec.md §8: parse from YAML,
// serialize to JSON, re-parse, and the resulting graph is identical.
// Grounded on gopkg.in/yaml.v3, pulled in from the retrieval pack for
// exactly this purpose (SPEC_FULL.md §11).
package docparse

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/flowforge/engine/internal/schema"
)

// ParseYAML decodes a YAML workflow document. It bridges through a
// generic value rather than unmarshaling YAML directly into
// WorkflowSchema: yaml.v3 has no notion of encoding/json.RawMessage,
// so input_data's per-field JSON would otherwise come out as raw YAML
// node data instead of valid JSON bytes.
func ParseYAML(doc []byte) (*schema.WorkflowSchema, error) {
	var generic any
	if err := yaml.Unmarshal(doc, &generic); err != nil {
		return nil, fmt.Errorf("docparse: parse yaml: %w", err)
	}

	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("docparse: bridge yaml to json: %w", err)
	}
	return ParseJSON(asJSON)
}

// ParseJSON decodes a JSON workflow document.
func ParseJSON(doc []byte) (*schema.WorkflowSchema, error) {
	var ws schema.WorkflowSchema
	if err := json.Unmarshal(doc, &ws); err != nil {
		return nil, fmt.Errorf("docparse: parse json: %w", err)
	}
	return &ws, nil
}

// ToJSON serializes ws as JSON.
func ToJSON(ws *schema.WorkflowSchema) ([]byte, error) {
	b, err := json.Marshal(ws)
	if err != nil {
		return nil, fmt.Errorf("docparse: serialize json: %w", err)
	}
	return b, nil
}

// ToYAML serializes ws as YAML, bridging through JSON for the same
// RawMessage reason ParseYAML does.
func ToYAML(ws *schema.WorkflowSchema) ([]byte, error) {
	asJSON, err := ToJSON(ws)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(asJSON, &generic); err != nil {
		return nil, fmt.Errorf("docparse: bridge json to yaml: %w", err)
	}
	b, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("docparse: serialize yaml: %w", err)
	}
	return b, nil
}
