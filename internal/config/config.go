// Package config provides configuration helpers for go-beetle commands.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-beetle/pkg/creature"
)

// Defaults for the server.
const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"
)

// Port returns the HTTP port from BEETLE_PORT or the default.
func Port() string {
	if p := os.Getenv("BEETLE_PORT"); p != "" {
		return p
	}
	return DefaultPort
}

// TuningPath returns the tuning file path from BEETLE_TUNING, empty if unset.
func TuningPath() string {
	return os.Getenv("BEETLE_TUNING")
}

// LogLevel returns the log level from LOG_LEVEL or the default.
func LogLevel() string {
	if l := os.Getenv("LOG_LEVEL"); l != "" {
		return strings.ToLower(l)
	}
	return DefaultLogLevel
}

// LoadTuning reads a tuning file. The format follows the extension:
// .yaml and .yml are YAML, .json is JSON. Unknown keys are rejected so a
// typo does not silently leave a value at its default.
func LoadTuning(path string) (creature.Tuning, error) {
	var t creature.Tuning

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return t, fmt.Errorf("parse tuning %s: %w", path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&t); err != nil {
			return t, fmt.Errorf("parse tuning %s: %w", path, err)
		}
	default:
		return t, fmt.Errorf("tuning %s: unsupported format %q", path, ext)
	}

	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}
