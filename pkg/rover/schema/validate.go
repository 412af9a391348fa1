// Package schema validates control request payloads against a JSON
// Schema compiled once up front. The gateway accepts a single fixed
// command vocabulary, so there is exactly one schema per validator and
// no per-request compilation.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator holds one compiled schema.
type Validator struct {
	compiled *jsonschema.Schema
}

// Compile builds a validator from a JSON Schema document.
func Compile(doc json.RawMessage) (*Validator, error) {
	var schemaDoc any
	if err := json.Unmarshal(doc, &schemaDoc); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{compiled: compiled}, nil
}

// MustCompile is Compile for schemas fixed at build time; it panics on a
// malformed document.
func MustCompile(doc json.RawMessage) *Validator {
	v, err := Compile(doc)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks payload against the schema. Returns nil if valid, or
// an error describing the validation failures.
func (v *Validator) Validate(payload map[string]any) error {
	return v.compiled.Validate(payload)
}
