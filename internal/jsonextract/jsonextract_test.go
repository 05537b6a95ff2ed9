package jsonextract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObject_PlainJSON(t *testing.T) {
	out, err := Object(`{"a": 1}`)
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 1}`, string(out))
}

func TestObject_SurroundingProse(t *testing.T) {
	out, err := Object("Sure, here's the plan:\n{\"a\": 1, \"b\": [1,2]}\nHope that helps!")
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 1, "b": [1,2]}`, string(out))
}

func TestObject_CodeFence(t *testing.T) {
	out, err := Object("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 1}`, string(out))
}

func TestObject_NoObject(t *testing.T) {
	_, err := Object("no json here")
	require.Error(t, err)
}

func TestValidate_NilSchemaAlwaysPasses(t *testing.T) {
	require.NoError(t, Validate(nil, json.RawMessage(`{"anything": true}`)))
}

func TestValidate_RejectsMismatch(t *testing.T) {
	schema := json.RawMessage(`{
		"type": "object",
		"required": ["chapters"],
		"properties": {"chapters": {"type": "array"}}
	}`)
	require.NoError(t, Validate(schema, json.RawMessage(`{"chapters": []}`)))
	require.Error(t, Validate(schema, json.RawMessage(`{}`)))
}
