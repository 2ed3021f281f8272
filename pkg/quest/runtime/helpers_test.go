package runtime

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sambeau/quest/config"
)

// recLogger records output for assertions.
type recLogger struct {
	mu    sync.Mutex
	lines []string
	buf   strings.Builder
}

func (l *recLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.WriteString(join(values))
}

func (l *recLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, l.buf.String()+join(values))
	l.buf.Reset()
}

func (l *recLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.lines...)
}

func join(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}

func newTestInterp(limits config.RuntimeConfig) (*Interp, *recLogger) {
	out := &recLogger{}
	return NewInterp(limits, out, nil), out
}

// inFrame runs f inside a root binding of a default interpreter.
func inFrame(t *testing.T, f func(b *Binding) (*Object, error)) (*Object, error) {
	t.Helper()
	interp, _ := newTestInterp(config.Defaults().Runtime)
	return interp.NewStackframe(nil, nil, f)
}

func wantNumber(t *testing.T, o *Object, want float64) {
	t.Helper()
	if o == nil {
		t.Fatalf("got nil object, want %v", want)
	}
	got, ok := o.Number()
	if !ok {
		t.Fatalf("got %s, want Number %v", o, want)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func wantText(t *testing.T, o *Object, want string) {
	t.Helper()
	if o == nil {
		t.Fatalf("got nil object, want %q", want)
	}
	got, ok := o.Text()
	if !ok {
		t.Fatalf("got %s, want Text %q", o, want)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func wantBool(t *testing.T, o *Object, want bool) {
	t.Helper()
	if o == nil {
		t.Fatalf("got nil object, want %v", want)
	}
	got, ok := o.Boolean()
	if !ok {
		t.Fatalf("got %s, want Boolean %v", o, want)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
