// Package quest provides a public API for embedding the Quest runtime.
package quest

import (
	"errors"
	"os"

	"github.com/sambeau/quest/config"
	qerrors "github.com/sambeau/quest/pkg/quest/errors"
	"github.com/sambeau/quest/pkg/quest/runtime"
)

// Engine runs programs against one interpreter configuration
type Engine struct {
	cfg    *config.Config
	out    Logger
	trace  Logger
	interp *runtime.Interp
}

// Option configures an Engine
type Option func(*Engine)

// WithConfig sets the runtime limits and logging settings
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets where disp and print write
func WithLogger(l Logger) Option {
	return func(e *Engine) { e.out = l }
}

// WithTraceLogger sets where frame traces go when tracing is enabled
func WithTraceLogger(l Logger) Option {
	return func(e *Engine) { e.trace = l }
}

// New creates an Engine. Without options it uses config.Defaults() and
// writes to stdout.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg == nil {
		e.cfg = config.Defaults()
	}
	if e.out == nil {
		e.out = StdoutLogger()
	}

	var trace Logger
	if e.cfg.Logging.Trace {
		trace = e.trace
		if trace == nil {
			trace = WriterLogger(os.Stderr)
		}
	}
	e.interp = runtime.NewInterp(e.cfg.Runtime, e.out, trace)
	return e
}

// Config returns the engine's configuration
func (e *Engine) Config() *config.Config { return e.cfg }

// Interp returns the underlying interpreter
func (e *Engine) Interp() *runtime.Interp { return e.interp }

// Run executes program in a fresh root binding whose positional arguments
// are args.
func (e *Engine) Run(program runtime.Executable, args ...*runtime.Object) (*runtime.Object, error) {
	return e.interp.Run(nil, args, program)
}

// Register adds a native method to a built-in class. The change is visible
// to every engine.
func (e *Engine) Register(className, name string, fn runtime.NativeFunc) error {
	class := runtime.ClassNamed(className)
	if class == nil {
		return qerrors.Messaged("unknown class %s", className)
	}
	return runtime.RegisterNative(class, name, fn)
}

// Report formats an error returned by Run for display
func Report(err error) string {
	if err == nil {
		return ""
	}

	if j, ok := runtime.AsJump(err); ok && j.Kind == runtime.JumpException {
		text, terr := j.Value.ToText(nil)
		if terr != nil {
			text = j.Value.String()
		}
		return "uncaught exception: " + text
	}

	var qe *qerrors.QuestError
	if errors.As(err, &qe) {
		return qe.PrettyString()
	}
	return "Runtime error:\n  " + err.Error()
}
