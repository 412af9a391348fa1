package schema

import (
	"encoding/json"
	"testing"
)

func driveValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := Compile(json.RawMessage(`{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type": "object",
		"properties": {
			"command": {"type": "string", "enum": ["forward", "backward", "left", "right", "stop"]}
		},
		"required": ["command"],
		"additionalProperties": false
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestValidate_ValidCommand(t *testing.T) {
	v := driveValidator(t)

	if err := v.Validate(map[string]any{"command": "forward"}); err != nil {
		t.Errorf("expected valid payload, got: %v", err)
	}
}

func TestValidate_InvalidEnum(t *testing.T) {
	v := driveValidator(t)

	if err := v.Validate(map[string]any{"command": "sideways"}); err == nil {
		t.Error("expected validation error for unknown command")
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	v := driveValidator(t)

	if err := v.Validate(map[string]any{}); err == nil {
		t.Error("expected validation error for missing command")
	}
}

func TestValidate_UnknownProperty(t *testing.T) {
	v := driveValidator(t)

	err := v.Validate(map[string]any{
		"command": "stop",
		"speed":   100,
	})
	if err == nil {
		t.Error("expected validation error for unknown property")
	}
}

func TestValidate_WrongType(t *testing.T) {
	v := driveValidator(t)

	if err := v.Validate(map[string]any{"command": 7}); err == nil {
		t.Error("expected validation error for wrong type")
	}
}

func TestCompile_MalformedDocument(t *testing.T) {
	if _, err := Compile(json.RawMessage(`{"type": `)); err == nil {
		t.Error("expected error for truncated schema document")
	}
}

func TestMustCompile_PanicsOnBadSchema(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustCompile to panic on a malformed document")
		}
	}()
	MustCompile(json.RawMessage(`not json`))
}
