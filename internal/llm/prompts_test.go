package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptManager(t *testing.T) {
	pm, err := NewPromptManager()
	require.NoError(t, err)

	system, err := pm.SystemPrompt()
	require.NoError(t, err)
	assert.Contains(t, system, "single JSON object")
	assert.Contains(t, system, `"PASS" | "FAIL"`)

	user, err := pm.UserPrompt(UserPromptData{
		Path:  "internal/app/app.go",
		Patch: "@@ -1 +1 @@\n-old\n+new",
	})
	require.NoError(t, err)
	assert.Contains(t, user, "internal/app/app.go")
	assert.Contains(t, user, "+new")
	assert.False(t, strings.Contains(user, "{{"), "template placeholders must be expanded")
}
