package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeDuration
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeDuration:
		return "duration"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "github.token")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value
}

// KnownKeys is the registry of all known configuration keys with their schemas.
// Per-rule lint severity overrides (lint.severity.*) are open-ended and
// validated separately.
var KnownKeys = map[string]ConfigKeySchema{
	"changelog": {
		Path:        "changelog",
		Type:        TypeString,
		Description: "Path to the rendered markdown changelog",
		Default:     "CHANGELOG.md",
	},
	"source": {
		Path:        "source",
		Type:        TypeString,
		Description: "Path to the YAML changelog source of record",
		Default:     "",
	},
	"repo": {
		Path:        "repo",
		Type:        TypeString,
		Description: "Repository URL override for comparison and PR links",
		Default:     "",
	},
	"strict": {
		Path:        "strict",
		Type:        TypeBool,
		Description: "Treat lint warnings as errors",
		Default:     false,
	},
	"remote_timeout": {
		Path:        "remote_timeout",
		Type:        TypeDuration,
		Description: "Timeout for remote changelog fetches",
		Default:     "5s",
	},
	"github.token": {
		Path:        "github.token",
		Type:        TypeString,
		Description: "API token for verify and sync (fallback: GITHUB_TOKEN env var)",
		Default:     "",
	},
	"watch.debounce": {
		Path:        "watch.debounce",
		Type:        TypeDuration,
		Description: "Quiet period before relinting after a file change",
		Default:     "300ms",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	if schema, ok := KnownKeys[path]; ok {
		return schema, nil
	}
	if rule, ok := strings.CutPrefix(path, "lint.severity."); ok && rule != "" {
		return ConfigKeySchema{
			Path:          path,
			Type:          TypeEnum,
			AllowedValues: []string{"error", "warning", "off"},
			Description:   "Severity override for the " + rule + " lint rule",
			Default:       "",
		}, nil
	}
	return ConfigKeySchema{}, ErrUnknownKey{Key: path}
}

// InferType determines the ConfigValueType from a string value.
// Order of inference: bool literals -> integers -> durations -> string fallback.
func InferType(value string) ConfigValueType {
	if value == "true" || value == "false" {
		return TypeBool
	}
	if _, err := strconv.Atoi(value); err == nil {
		return TypeInt
	}
	if _, err := time.ParseDuration(value); err == nil {
		return TypeDuration
	}
	return TypeString
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a value against the schema for a given key.
// Returns the parsed value or an error with details about what's wrong.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeInt:
		return parseIntValue(value)
	case TypeDuration:
		return parseDurationValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("unsupported type: %v", schema.Type)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseIntValue parses and validates an integer value.
func parseIntValue(value string) (ParsedValue, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid integer: %q", value)
	}
	return ParsedValue{Raw: value, Parsed: n, Type: TypeInt}, nil
}

// parseDurationValue parses and validates a duration value.
func parseDurationValue(value string) (ParsedValue, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return ParsedValue{}, fmt.Errorf("invalid duration: %q (examples: 5s, 300ms, 1m)", value)
	}
	return ParsedValue{Raw: value, Parsed: d.String(), Type: TypeDuration}, nil
}

// parseEnumValue validates a value against the schema's allowed values.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	normalized := strings.ToLower(value)
	for _, allowed := range schema.AllowedValues {
		if normalized == allowed {
			return ParsedValue{Raw: value, Parsed: normalized, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf("invalid value %q (expected one of: %s)", value, strings.Join(schema.AllowedValues, ", "))
}
