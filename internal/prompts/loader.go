// Package prompts embeds the LLM prompt templates and loads them on
// demand. Each JSON file maps prompt keys to template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// files caches parsed prompt tables keyed by filename.
var files sync.Map

// Get returns the prompt stored under key in filename. The filename
// carries no path (e.g., "extraction.json").
func Get(filename, key string) (string, error) {
	table, err := load(filename)
	if err != nil {
		return "", err
	}

	prompt, ok := table[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts required at initialization; it panics on
// a missing file or key.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with values from data.
// Placeholders without a matching key are left in place.
func Format(template string, data map[string]string) string {
	for key, value := range data {
		template = strings.ReplaceAll(template, "{{."+key+"}}", value)
	}
	return template
}

// List returns the prompt keys available in a file.
func List(filename string) ([]string, error) {
	table, err := load(filename)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	return keys, nil
}

func load(filename string) (map[string]string, error) {
	if cached, ok := files.Load(filename); ok {
		return cached.(map[string]string), nil
	}

	raw, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var table map[string]string
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	actual, _ := files.LoadOrStore(filename, table)
	return actual.(map[string]string), nil
}

// ClearCache drops all cached prompt tables.
func ClearCache() {
	files.Range(func(key, _ any) bool {
		files.Delete(key)
		return true
	})
}
