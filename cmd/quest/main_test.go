package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	getenv := func(key string) string { return env[key] }
	err := run(context.Background(), args, &stdout, &stderr, getenv)
	return stdout.String(), stderr.String(), err
}

func TestVersionAndHelp(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--version"}, "quest version dev"},
		{[]string{"-V"}, "quest version dev"},
		{[]string{"--help"}, "Usage:"},
		{[]string{"-h"}, "describe [--json] [topic]"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := runCLI(t, nil, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"frobnicate"},
		{"--no-such-flag"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, errOut, err := runCLI(t, nil, args...)
			if !errors.Is(err, errUsage) {
				t.Errorf("error = %v, want usage error", err)
			}
			if !strings.Contains(errOut, "Usage:") {
				t.Errorf("stderr = %q", errOut)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"describe"}, []string{"Built-in Classes", "Pristine", "Kernel"}},
		{[]string{"describe", "Number"}, []string{"Class: Number", "Parents: Comparable, Basic", "+(arg)"}},
		{[]string{"describe", "errors"}, []string{"Error Catalog", "KEY-0001  [key]"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := runCLI(t, nil, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	out, _, err := runCLI(t, nil, "describe", "--json", "List")
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Kind    string `json:"kind"`
		Name    string `json:"name"`
		Methods []struct {
			Name string `json:"name"`
		} `json:"methods"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if decoded.Kind != "class" || decoded.Name != "List" || len(decoded.Methods) == 0 {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, _, err := runCLI(t, nil, "describe", "Nmber"); err == nil || !strings.Contains(err.Error(), "Number") {
		t.Errorf("unknown topic error = %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quest.yaml")
	data := `runtime:
  max_stack_depth: ${DEPTH:-500}
  max_parent_depth: 0
logging:
  output: out.log
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, errOut, err := runCLI(t, map[string]string{"DEPTH": "77"}, "--config", path, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"max_stack_depth: 77", "max_parent_depth: 0", filepath.Join(dir, "out.log")} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(errOut, "warning: runtime.max_parent_depth is 0") {
		t.Errorf("stderr = %q", errOut)
	}

	if _, _, err := runCLI(t, nil, "--config", filepath.Join(dir, "missing.yaml"), "config"); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestSelftest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quest.yaml")
	data := `logging:
  output: stdout
  trace: true
  trace_output: trace.log
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, nil, "--config", path, "selftest")
	if err != nil {
		t.Fatalf("selftest failed: %v\n%s", err, out)
	}
	if strings.Count(out, "ok    ") != len(selfChecks) {
		t.Errorf("output = %q", out)
	}

	trace, err := os.ReadFile(filepath.Join(dir, "trace.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(trace), "[trace] push depth=0") {
		t.Errorf("trace log = %q", trace)
	}
}
