package tool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrun/core"
)

func TestSchemaFromStruct(t *testing.T) {
	type args struct {
		City    string   `json:"city" description:"City to look up"`
		Days    int      `json:"days,omitempty"`
		Celsius bool     `json:"celsius"`
		Tags    []string `json:"tags,omitempty"`
		Hint    *string  `json:"hint"`
	}

	var schema map[string]any
	require.NoError(t, json.Unmarshal(SchemaFromStruct(args{}), &schema))

	assert.Equal(t, "object", schema["type"])

	props := schema["properties"].(map[string]any)
	city := props["city"].(map[string]any)
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "City to look up", city["description"])
	assert.Equal(t, "integer", props["days"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["celsius"].(map[string]any)["type"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, map[string]any{"type": "string"}, tags["items"])

	// Pointer and omitempty fields are optional.
	assert.ElementsMatch(t, []any{"city", "celsius"}, schema["required"])
}

func TestSchemaFromStruct_NonStruct(t *testing.T) {
	schema := SchemaFromStruct(42)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(schema))
}

func TestSchemaFromStruct_UsableAsToolParameters(t *testing.T) {
	type args struct {
		Text string `json:"text"`
	}

	echo, err := New("echo", "Echo text", SchemaFromStruct(args{}),
		func(_ *core.ToolContext, a map[string]any) (any, error) {
			return a["text"], nil
		},
	)
	require.NoError(t, err)

	rc := core.NewRunContext(nil, "run-1", nil, nil)
	out, err := echo.Call(core.NewToolContext(rc, "call-1"), map[string]any{"text": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}
