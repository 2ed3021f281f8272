package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/sambeau/quest/config"
	"github.com/sambeau/quest/pkg/quest/help"
	"github.com/sambeau/quest/pkg/quest/quest"
)

// Version information, set at build time via -ldflags
var (
	Version = "dev"     // -X main.Version=$(git describe --tags --always)
	Commit  = "unknown" // -X main.Commit=$(git rev-parse --short HEAD)
)

// errUsage signals a usage error that has already been reported
var errUsage = errors.New("usage")

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// run is the main entry point, designed for testability
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("quest", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		showVersion = flags.Bool("version", false, "Show version information")
		showHelp    = flags.Bool("help", false, "Show help message")
	)
	flags.BoolVar(showVersion, "V", false, "Show version information")
	flags.BoolVar(showHelp, "h", false, "Show help message")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return errUsage
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "quest version %s (%s)\n", Version, Commit)
		return nil
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return errUsage
	}

	switch rest[0] {
	case "describe":
		return runDescribe(rest[1:], stdout, stderr)
	case "config":
		return runConfig(*configPath, stdout, stderr, getenv)
	case "selftest":
		return runSelftest(ctx, *configPath, stdout, stderr, getenv)
	}

	fmt.Fprintf(stderr, "Error: unknown command %q\n\n", rest[0])
	printUsage(stderr)
	return errUsage
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `quest - Quest runtime tools version %s

Usage:
  quest [options] <command> [args...]

Commands:
  describe [--json] [topic]   Show a class, an error code, classes, or errors
  config                      Print the resolved configuration as YAML
  selftest                    Run the built-in runtime checks

Options:
  --config <path>    Path to config file (default: $QUEST_CONFIG, ./quest.yaml)
  -h, --help         Show this help message
  -V, --version      Show version information

Examples:
  quest describe classes
  quest describe Number
  quest describe --json Text
  quest describe KEY-0001
`, Version)
}

func runDescribe(args []string, stdout, stderr io.Writer) error {
	jsonOutput := false
	topic := "classes"
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		return err
	}

	if jsonOutput {
		data, err := help.FormatJSON(result)
		if err != nil {
			return fmt.Errorf("formatting JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	fmt.Fprint(stdout, help.FormatText(result, terminalWidth(stdout)))
	return nil
}

// terminalWidth returns the width of w when it is a terminal, else 80
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func runConfig(configPath string, stdout, stderr io.Writer, getenv func(string) string) error {
	cfg, path, err := config.LoadWithPath(configPath, getenv)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Fprintln(stdout, "# defaults (no config file found)")
	} else {
		fmt.Fprintf(stdout, "# %s\n", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	stdout.Write(data)

	for _, w := range config.Warnings(cfg) {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	return nil
}

// newEngine builds an engine whose outputs follow the logging config
func newEngine(cfg *config.Config, stdout, stderr io.Writer) (*quest.Engine, func(), error) {
	out, closeOut, err := quest.OutputLogger(cfg.Logging.Output, stdout, stderr)
	if err != nil {
		return nil, nil, err
	}
	trace, closeTrace, err := quest.OutputLogger(cfg.Logging.TraceOutput, stdout, stderr)
	if err != nil {
		closeOut()
		return nil, nil, err
	}

	engine := quest.New(
		quest.WithConfig(cfg),
		quest.WithLogger(out),
		quest.WithTraceLogger(trace),
	)
	return engine, func() {
		closeOut()
		closeTrace()
	}, nil
}
