package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func noEnv(string) string { return "" }

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Runtime.MaxStackDepth != 10000 {
		t.Errorf("expected default max_stack_depth 10000, got %d", cfg.Runtime.MaxStackDepth)
	}
	if cfg.Runtime.MaxParentDepth != 1024 {
		t.Errorf("expected default max_parent_depth 1024, got %d", cfg.Runtime.MaxParentDepth)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Logging.Trace {
		t.Error("expected tracing to be off by default")
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "QUEST_DEPTH":
			return "50"
		case "QUEST_LOG":
			return "/tmp/quest.log"
		default:
			return ""
		}
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple substitution",
			input:    "max_stack_depth: ${QUEST_DEPTH}",
			expected: "max_stack_depth: 50",
		},
		{
			name:     "with default (env set)",
			input:    "output: ${QUEST_LOG:-stdout}",
			expected: "output: /tmp/quest.log",
		},
		{
			name:     "with default (env not set)",
			input:    "output: ${UNSET_VAR:-stderr}",
			expected: "output: stderr",
		},
		{
			name:     "no substitution needed",
			input:    "trace: true",
			expected: "trace: true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := string(interpolateEnv([]byte(tt.input), getenv))
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestParse(t *testing.T) {
	yamlData := `
runtime:
  max_stack_depth: ${DEPTH:-200}
logging:
  trace: true
`
	cfg, err := Parse([]byte(yamlData), noEnv)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Runtime.MaxStackDepth != 200 {
		t.Errorf("expected max_stack_depth 200, got %d", cfg.Runtime.MaxStackDepth)
	}
	// Untouched fields keep their defaults
	if cfg.Runtime.MaxParentDepth != 1024 {
		t.Errorf("expected max_parent_depth default 1024, got %d", cfg.Runtime.MaxParentDepth)
	}
	if !cfg.Logging.Trace || cfg.Logging.TraceOutput != "stderr" {
		t.Errorf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestValidate_Errors(t *testing.T) {
	yamlData := `
runtime:
  max_stack_depth: -1
  max_parent_depth: -2
logging:
  output: ""
`
	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(yamlData), cfg); err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration errors:\n  - ") {
		t.Errorf("unexpected error format: %q", msg)
	}
	for _, want := range []string{"max_stack_depth", "max_parent_depth", "logging.output"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestWarnings(t *testing.T) {
	cfg := Defaults()
	if w := Warnings(cfg); len(w) != 0 {
		t.Errorf("expected no warnings for defaults, got %v", w)
	}
	cfg.Runtime.MaxParentDepth = 0
	w := Warnings(cfg)
	if len(w) != 1 || !strings.Contains(w[0], "cyclic parent chain") {
		t.Errorf("unexpected warnings: %v", w)
	}
}

func TestLoadWithPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quest.yaml")
	content := `
runtime:
  max_parent_depth: 16
logging:
  output: logs/out.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := LoadWithPath(path, noEnv)
	if err != nil {
		t.Fatalf("LoadWithPath: %v", err)
	}
	if resolved != path {
		t.Errorf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.BaseDir != dir {
		t.Errorf("expected BaseDir %q, got %q", dir, cfg.BaseDir)
	}
	if cfg.Runtime.MaxParentDepth != 16 {
		t.Errorf("expected max_parent_depth 16, got %d", cfg.Runtime.MaxParentDepth)
	}
	if want := filepath.Join(dir, "logs/out.log"); cfg.Logging.Output != want {
		t.Errorf("expected output %q, got %q", want, cfg.Logging.Output)
	}
	if cfg.Logging.TraceOutput != "stderr" {
		t.Errorf("expected trace output to stay stderr, got %q", cfg.Logging.TraceOutput)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("runtime:\n  max_stack_depth: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	getenv := func(key string) string {
		if key == "QUEST_CONFIG" {
			return path
		}
		return ""
	}

	cfg, err := Load("", getenv)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runtime.MaxStackDepth != 7 {
		t.Errorf("expected max_stack_depth 7, got %d", cfg.Runtime.MaxStackDepth)
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("runtime: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, noEnv)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}
