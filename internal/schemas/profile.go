// Package schemas - profile.go validates candidate profile documents
// against the embedded profile schema.
package schemas

import (
	_ "embed"
)

//go:embed profile.schema.json
var profileSchema string

// ProfileSchema returns the embedded candidate profile schema.
func ProfileSchema() string {
	return profileSchema
}

// ValidateProfileBytes validates raw profile JSON against the profile
// schema. Returns a *ValidationError with per-field messages when the
// document does not conform.
func ValidateProfileBytes(data []byte) error {
	return ValidateJSONString(profileSchema, string(data))
}
