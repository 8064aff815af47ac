// Package resolver implements the engine's variable substitution
// grammar: ${KEY} and ${KEY:DEFAULT} tokens inside a template string,
// resolved against the run's engctx.Context. This is intentionally a
// minimal single-level token grammar, not a general template engine —
// preserving the exact grammar is a compatibility contract (see
// SPEC_FULL.md §9 design notes).
package resolver

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/flowforge/engine/internal/engctx"
)

// tokenPattern matches ${KEY} or ${KEY:DEFAULT}. KEY is one or more
// non-"}"/":" runs joined by ".", DEFAULT is anything up to the closing
// brace.
var tokenPattern = regexp.MustCompile(`\$\{([^}:]+(?:\.[^}:]+)*)(?::([^}]*))?\}`)

// MissingKeyError is returned by TryResolve when a token has no default
// and the referenced key is absent from the context.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("resolver: required key %q is not set", e.Key)
}

// Resolve substitutes every ${KEY} / ${KEY:DEFAULT} token in template
// using ctx, falling back to DEFAULT (or empty string) when the key is
// absent. Unrecognized text passes through verbatim. Resolve never
// errors — a missing key without a default simply yields "".
func Resolve(ctx *engctx.Context, template string) string {
	out, _ := resolve(ctx, template, false)
	return out
}

// TryResolve behaves like Resolve but returns a *MissingKeyError the
// first time a token has no default and its key is missing from the
// context. Used by the condition evaluator, where an unresolved
// variable must short-circuit to "gate fails" rather than silently
// becoming an empty string.
func TryResolve(ctx *engctx.Context, template string) (string, error) {
	return resolve(ctx, template, true)
}

func resolve(ctx *engctx.Context, template string, strict bool) (string, error) {
	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		if firstErr != nil {
			return match
		}
		groups := tokenPattern.FindStringSubmatch(match)
		key, def, defGiven := groups[1], groups[2], false
		// FindStringSubmatch can't distinguish "no default" from "empty
		// default" on its own; re-derive from the raw match.
		if strings.Contains(match, ":") {
			defGiven = true
		}

		raw, ok := ctx.GetValue(key)
		if !ok {
			if strict && !defGiven {
				firstErr = &MissingKeyError{Key: key}
			}
			return def
		}
		return stringify(raw)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// stringify renders a stored JSON value as it should appear substituted
// into a template: a JSON string is unquoted, anything else is its JSON
// serialization.
func stringify(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
