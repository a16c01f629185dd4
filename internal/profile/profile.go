// Package profile loads and validates candidate profiles from JSON files.
package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/apply-agent/internal/schemas"
	"github.com/jonathan/apply-agent/internal/types"
)

// LoadFile reads a profile JSON file, validates it against the profile
// schema and struct tags, and returns it.
func LoadFile(path string) (*types.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and unmarshals raw profile JSON.
func Parse(data []byte) (*types.Profile, error) {
	if err := schemas.ValidateProfileBytes(data); err != nil {
		return nil, fmt.Errorf("profile does not match schema: %w", err)
	}

	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	if err := validator.New().Struct(&p); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &p, nil
}
