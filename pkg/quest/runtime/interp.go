package runtime

import (
	"sync"

	"github.com/sambeau/quest/config"
	qerrors "github.com/sambeau/quest/pkg/quest/errors"
)

// Interp holds what every frame of one program shares: limits, the output
// logger and the optional trace logger.
type Interp struct {
	limits config.RuntimeConfig
	out    Logger
	trace  Logger
}

// NewInterp creates an interpreter. A nil out writes to stdout; a nil trace
// disables frame tracing.
func NewInterp(limits config.RuntimeConfig, out, trace Logger) *Interp {
	if out == nil {
		out = DefaultLogger
	}
	return &Interp{limits: limits, out: out, trace: trace}
}

var (
	defaultInterpOnce sync.Once
	defaultInterp     *Interp
)

// DefaultInterp returns the interpreter used when native code runs outside any
// frame: default limits, stdout, no tracing.
func DefaultInterp() *Interp {
	defaultInterpOnce.Do(func() {
		defaultInterp = NewInterp(config.Defaults().Runtime, DefaultLogger, nil)
	})
	return defaultInterp
}

// Logger returns the output logger.
func (i *Interp) Logger() Logger { return i.out }

// Limits returns the interpreter limits.
func (i *Interp) Limits() config.RuntimeConfig { return i.limits }

// NewStackframe runs body in a root frame whose scope inherits from Kernel.
func (i *Interp) NewStackframe(this *Object, args Args, body Body) (*Object, error) {
	return i.push(nil, nil, this, args, body)
}

// Run executes program in a root frame and settles any jump that escapes it.
// An exception is returned as-is for the caller to report.
func (i *Interp) Run(this *Object, args Args, program Executable) (*Object, error) {
	res, err := i.NewStackframe(this, args, program.Execute)
	if err == nil {
		return res, nil
	}
	if j, ok := AsJump(err); ok {
		switch j.Kind {
		case JumpReturn:
			return nil, qerrors.New("INTERNAL-0002", nil)
		case JumpYield:
			return nil, qerrors.New("INTERNAL-0003", nil)
		}
	}
	return nil, err
}

func (i *Interp) push(parent *Binding, lexical, this *Object, args Args, body Body) (*Object, error) {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	if limit := i.limits.MaxStackDepth; limit > 0 && depth >= limit {
		return nil, newStackDepthError(limit)
	}
	if lexical == nil {
		lexical = ClassNamed("Kernel")
	}

	f := &Binding{
		this:   this,
		args:   append(Args{}, args...),
		parent: parent,
		interp: i,
		depth:  depth,
	}
	f.scope = newObject(KindScope, f, lexical)
	f.scope.state.owned.attrs.entries = []attrEntry{
		{probe: probe(LitThis), value: ObjectValue(f.This())},
		{probe: probe(LitArgs), value: ObjectValue(NewList(f.args...))},
	}

	i.traceFrame("push", f)
	defer func() {
		f.exited.Store(true)
		i.traceFrame("pop", f)
	}()

	res, err := body(f)
	if err != nil {
		if !IsReturnTo(err, f) {
			return nil, err
		}
		j, _ := AsJump(err)
		res = j.Result
	}
	if res == nil {
		res = Null()
	}
	return res, nil
}

func (i *Interp) traceFrame(event string, f *Binding) {
	if i.trace == nil {
		return
	}
	i.trace.LogLine("[trace]", event, "depth="+formatNumber(float64(f.depth)), "this="+f.This().String(), "args="+NewList(f.args...).String())
}
