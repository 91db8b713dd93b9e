package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SetProjectValue validates value against the schema for key and
// persists it to the project config file, creating the file when it
// does not exist yet. Returns the path written.
func SetProjectValue(key, value string) (string, error) {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return "", err
	}

	path := ProjectConfigPath()
	doc := map[string]interface{}{}
	if data, readErr := os.ReadFile(path); readErr == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return "", fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	setNested(doc, strings.Split(key, "."), parsed.Parsed)

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(ProjectConfigDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// setNested walks a dotted key path, creating intermediate maps.
func setNested(doc map[string]interface{}, parts []string, value interface{}) {
	for len(parts) > 1 {
		child, ok := doc[parts[0]].(map[string]interface{})
		if !ok {
			child = map[string]interface{}{}
			doc[parts[0]] = child
		}
		doc = child
		parts = parts[1:]
	}
	doc[parts[0]] = value
}
