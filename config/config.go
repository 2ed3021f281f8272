package config

// Config represents the complete Quest runtime configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing config file, for resolving relative paths
	Runtime RuntimeConfig `yaml:"runtime"`
	Logging LoggingConfig `yaml:"logging"`
}

// RuntimeConfig holds interpreter limits
type RuntimeConfig struct {
	MaxStackDepth  int `yaml:"max_stack_depth"`  // Maximum number of live bindings (0 = unlimited)
	MaxParentDepth int `yaml:"max_parent_depth"` // Maximum parent-chain depth for attribute lookup (0 = unlimited)
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Output      string `yaml:"output"`       // disp/print output: stdout, stderr, discard, or file path
	Trace       bool   `yaml:"trace"`        // log every binding push and pop
	TraceOutput string `yaml:"trace_output"` // stderr, stdout, discard, or file path
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			MaxStackDepth:  10000,
			MaxParentDepth: 1024,
		},
		Logging: LoggingConfig{
			Output:      "stdout",
			Trace:       false,
			TraceOutput: "stderr",
		},
	}
}
