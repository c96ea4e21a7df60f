package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/go-beetle/pkg/creature"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("BEETLE_PORT", "")
	t.Setenv("BEETLE_TUNING", "")
	t.Setenv("LOG_LEVEL", "")

	if Port() != DefaultPort {
		t.Errorf("Port = %q, want %q", Port(), DefaultPort)
	}
	if TuningPath() != "" {
		t.Errorf("TuningPath = %q, want empty", TuningPath())
	}
	if LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", LogLevel(), DefaultLogLevel)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("BEETLE_PORT", "9090")
	t.Setenv("BEETLE_TUNING", "/etc/beetle.yaml")
	t.Setenv("LOG_LEVEL", "DEBUG")

	if Port() != "9090" {
		t.Errorf("Port = %q, want 9090", Port())
	}
	if TuningPath() != "/etc/beetle.yaml" {
		t.Errorf("TuningPath = %q", TuningPath())
	}
	if LogLevel() != "debug" {
		t.Errorf("LogLevel = %q, want debug", LogLevel())
	}
}

func TestLoadTuningYAML(t *testing.T) {
	path := writeFile(t, "tuning.yaml", `
base_breath_speed: 1.5
tension_gain_rate: 0.2
stroke_min_consistency: 0.8
`)
	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.BaseBreathSpeed != 1.5 || tuning.TensionGainRate != 0.2 || tuning.StrokeMinConsistency != 0.8 {
		t.Errorf("tuning = %+v", tuning)
	}
	if tuning.BaseNoise != 0 {
		t.Errorf("unset BaseNoise = %v, want 0", tuning.BaseNoise)
	}
}

func TestLoadTuningJSON(t *testing.T) {
	path := writeFile(t, "tuning.json", `{"healing_duration": 5, "evaporation_rate": 0.3}`)
	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.HealingDuration != 5 || tuning.EvaporationRate != 0.3 {
		t.Errorf("tuning = %+v", tuning)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml key", "t.yml", "base_breth_speed: 1\n"},
		{"unknown json key", "t.json", `{"nope": 1}`},
		{"malformed yaml", "t.yaml", "base_noise: [\n"},
		{"malformed json", "t.json", `{"base_noise":`},
		{"unsupported extension", "t.toml", "base_noise = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTuning(writeFile(t, tt.file, tt.content)); err == nil {
				t.Error("LoadTuning should fail")
			}
		})
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v, want ErrNotExist", err)
	}
}

func TestLoadTuningValidates(t *testing.T) {
	path := writeFile(t, "tuning.yaml", "base_noise: -0.5\n")
	_, err := LoadTuning(path)
	if !errors.Is(err, creature.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	var verr *creature.ValidationError
	if !errors.As(err, &verr) || verr.Field != "base_noise" {
		t.Errorf("ValidationError = %+v", verr)
	}
}
