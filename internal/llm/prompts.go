package llm

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptKey names one embedded prompt template.
type PromptKey string

const (
	AuditSystemPrompt PromptKey = "audit_system"
	AuditUserPrompt   PromptKey = "audit_user"
)

// PromptManager loads and renders the embedded prompt templates. The
// templates ship inside the binary; a missing or unparsable one is a build
// defect, caught at construction.
type PromptManager struct {
	prompts map[PromptKey]*template.Template
}

// NewPromptManager parses every embedded prompt file.
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{prompts: make(map[PromptKey]*template.Template)}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := strings.TrimSuffix(file.Name(), ".prompt")

		content, err := promptFiles.ReadFile("prompts/" + file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt file %s: %w", file.Name(), err)
		}
		tmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("could not parse prompt template %s: %w", file.Name(), err)
		}
		pm.prompts[PromptKey(name)] = tmpl
	}

	for _, required := range []PromptKey{AuditSystemPrompt, AuditUserPrompt} {
		if _, ok := pm.prompts[required]; !ok {
			return nil, fmt.Errorf("embedded prompt %q is missing", required)
		}
	}
	return pm, nil
}

// SystemPrompt renders the audit system prompt.
func (pm *PromptManager) SystemPrompt() (string, error) {
	return pm.render(AuditSystemPrompt, nil)
}

// UserPromptData feeds the per-file user prompt template.
type UserPromptData struct {
	Path  string
	Patch string
}

// UserPrompt renders the per-file prompt around a sanitized patch.
func (pm *PromptManager) UserPrompt(data UserPromptData) (string, error) {
	return pm.render(AuditUserPrompt, data)
}

func (pm *PromptManager) render(key PromptKey, data any) (string, error) {
	tmpl, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("unknown prompt key: %s", key)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", key, err)
	}
	return buf.String(), nil
}
