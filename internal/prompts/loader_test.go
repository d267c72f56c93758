package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoaderLoadsAllTemplates(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	names := loader.List()
	for _, want := range []string{"freeform", "targeted", "tag_focused", "revise", "backfill"} {
		require.Contains(t, names, want)
	}
}

func TestRenderSubstitutesVariables(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	rendered, err := loader.Render("freeform", map[string]string{
		"count":    "8",
		"category": "birthday",
		"tone":     "humorous",
	})
	require.NoError(t, err)
	require.Contains(t, rendered, "8 stylistically distinct")
	require.Contains(t, rendered, "birthday")
	require.NotContains(t, rendered, "{{count}}")
	require.NotContains(t, rendered, "{{category}}")
}

func TestRenderUnknownTemplate(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	_, err = loader.Render("nonexistent", nil)
	require.Error(t, err)
}

func TestAllTemplatesDemandStrictJSON(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	for _, name := range loader.List() {
		tpl, err := loader.Get(name)
		require.NoError(t, err)
		require.True(t, strings.Contains(tpl.Content, `"lines"`) || strings.Contains(tpl.Content, `"revised"`),
			"template %s must pin the reply shape", name)
	}
}
