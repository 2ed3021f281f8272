package quest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sambeau/quest/pkg/quest/runtime"
)

// Logger is an alias for runtime.Logger for convenience
type Logger = runtime.Logger

// StdoutLogger returns the logger disp and print use when none is configured
func StdoutLogger() Logger {
	return runtime.DefaultLogger
}

// streamLogger writes space-separated values to w. Objects are written in
// their inspect form, so logging never runs user code.
type streamLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *streamLogger) Log(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, joinValues(values))
}

func (l *streamLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, joinValues(values)+"\n")
}

// WriterLogger returns a logger that writes to w
func WriterLogger(w io.Writer) Logger {
	return &streamLogger{w: w}
}

// BufferedLogger keeps everything a program printed. Output written with Log
// stays pending until the next LogLine ends the line.
type BufferedLogger struct {
	streamLogger
	buf bytes.Buffer
}

// NewBufferedLogger creates an empty buffered logger
func NewBufferedLogger() *BufferedLogger {
	l := &BufferedLogger{}
	l.w = &l.buf
	return l
}

// String returns the captured output, including a pending partial line
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

// Lines returns the completed lines
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	text := l.buf.String()
	end := strings.LastIndexByte(text, '\n')
	if end < 0 {
		return []string{}
	}
	return strings.Split(text[:end], "\n")
}

// Reset drops everything captured so far
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Reset()
}

type nullLogger struct{}

func (nullLogger) Log(values ...any)     {}
func (nullLogger) LogLine(values ...any) {}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return nullLogger{}
}

// OutputLogger resolves a configured output: stdout, stderr, discard, or a
// file path opened for appending. The returned closer must be called when the
// file is no longer needed; it is a no-op otherwise.
func OutputLogger(output string, stdout, stderr io.Writer) (Logger, func() error, error) {
	noop := func() error { return nil }
	switch output {
	case "", "stdout":
		return WriterLogger(stdout), noop, nil
	case "stderr":
		return WriterLogger(stderr), noop, nil
	case "discard":
		return NullLogger(), noop, nil
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open log output: %w", err)
	}
	return WriterLogger(f), f.Close, nil
}

func joinValues(values []any) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch v := v.(type) {
		case *runtime.Object:
			sb.WriteString(v.String())
		case runtime.Args:
			sb.WriteString(runtime.NewList(v...).String())
		default:
			fmt.Fprint(&sb, v)
		}
	}
	return sb.String()
}
