// Package prompts loads the embedded markdown prompt templates used by the
// generation strategies and the revision engine.
package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.md
var promptFS embed.FS

// Template represents a prompt template with metadata.
type Template struct {
	Name    string
	Content string
}

// Loader handles loading and rendering prompt templates.
type Loader struct {
	templates map[string]*Template
}

// NewLoader loads every embedded markdown template.
func NewLoader() (*Loader, error) {
	loader := &Loader{templates: make(map[string]*Template)}

	entries, err := promptFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read prompts directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFS.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read prompt file %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		loader.templates[name] = &Template{Name: name, Content: string(content)}
	}

	return loader, nil
}

// Get returns a prompt template by name.
func (l *Loader) Get(name string) (*Template, error) {
	template, exists := l.templates[name]
	if !exists {
		return nil, fmt.Errorf("prompt template %q not found", name)
	}
	return template, nil
}

// Render renders a prompt template with {{variable}} substitution.
func (l *Loader) Render(name string, variables map[string]string) (string, error) {
	template, err := l.Get(name)
	if err != nil {
		return "", err
	}

	content := template.Content
	for key, value := range variables {
		placeholder := fmt.Sprintf("{{%s}}", key)
		content = strings.ReplaceAll(content, placeholder, value)
	}
	return content, nil
}

// List returns all available prompt template names.
func (l *Loader) List() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	return names
}
