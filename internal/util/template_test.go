package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_NoMarkers(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestRenderTemplate_Variables(t *testing.T) {
	out, err := RenderTemplate("Hello {{.name}}, tier {{upper .tier}}", map[string]any{
		"name": "Ada",
		"tier": "gold",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, tier GOLD", out)
}

func TestRenderTemplate_DefaultFunc(t *testing.T) {
	out, err := RenderTemplate(`{{default "guest" .name}}`, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "guest", out)
}

func TestRenderTemplate_Invalid(t *testing.T) {
	_, err := RenderTemplate("{{.unclosed", nil)
	require.Error(t, err)
}
