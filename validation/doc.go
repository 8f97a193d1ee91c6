// Package validation provides struct tag validation (go-playground/validator)
// for configuration, a small fluent validator, and the audio path rules
// shared by the tool server and the tool client.
//
//	if err := validation.Validate(cfg); err != nil { ... }
//	if appErr := validation.AudioFile(fs, path); appErr != nil { ... }
package validation
