// Package config loads capturesort settings from TOML.
//
// Load starts from Default, overlays the file when one exists, then
// normalizes and validates the result. Command-line flags are applied by the
// caller after Load so they always win over file values.
package config
