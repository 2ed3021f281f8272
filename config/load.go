package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults() when no file exists.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// The path is empty when no config file was found and defaults are in use.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Defaults(), "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, "", err
	}
	cfg.BaseDir = baseDir

	// Resolve relative log file paths against the config directory
	cfg.Logging.Output = resolveOutput(cfg.Logging.Output, baseDir)
	cfg.Logging.TraceOutput = resolveOutput(cfg.Logging.TraceOutput, baseDir)

	return cfg, absPath, nil
}

// Parse decodes YAML configuration on top of Defaults() and validates it.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Runtime.MaxStackDepth < 0 {
		errs = append(errs, fmt.Sprintf("runtime.max_stack_depth: %d must not be negative (0 = unlimited)", cfg.Runtime.MaxStackDepth))
	}
	if cfg.Runtime.MaxParentDepth < 0 {
		errs = append(errs, fmt.Sprintf("runtime.max_parent_depth: %d must not be negative (0 = unlimited)", cfg.Runtime.MaxParentDepth))
	}
	if cfg.Logging.Output == "" {
		errs = append(errs, "logging.output is required (stdout, stderr, discard, or a file path)")
	}
	if cfg.Logging.Trace && cfg.Logging.TraceOutput == "" {
		errs = append(errs, "logging.trace_output is required when logging.trace is true")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// Warnings returns non-fatal configuration issues that should be reported to the user.
func Warnings(cfg *Config) []string {
	var warnings []string

	if cfg.Runtime.MaxStackDepth == 0 {
		warnings = append(warnings, "runtime.max_stack_depth is 0 - unbounded recursion will exhaust memory instead of raising an error")
	}
	if cfg.Runtime.MaxParentDepth == 0 {
		warnings = append(warnings, "runtime.max_parent_depth is 0 - a cyclic parent chain will hang attribute lookup")
	}

	return warnings
}

func resolveOutput(output, baseDir string) string {
	switch output {
	case "", "stdout", "stderr", "discard":
		return output
	}
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(baseDir, output)
}

func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	// Try QUEST_CONFIG environment variable
	if envPath := getenv("QUEST_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("QUEST_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	// Try ./quest.yaml
	if _, err := os.Stat("quest.yaml"); err == nil {
		return "quest.yaml", nil
	}

	// Try ~/.config/quest/quest.yaml
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "quest", "quest.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}
