package ast

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sambeau/quest/config"
	qerrors "github.com/sambeau/quest/pkg/quest/errors"
	"github.com/sambeau/quest/pkg/quest/runtime"
)

type lineLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLogger) Log(values ...any) { l.LogLine(values...) }

func (l *lineLogger) LogLine(values ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.(string)
	}
	l.lines = append(l.lines, strings.Join(parts, " "))
}

func run(t *testing.T, program Node) (*runtime.Object, *lineLogger, error) {
	t.Helper()
	out := &lineLogger{}
	interp := runtime.NewInterp(config.Defaults().Runtime, out, nil)
	res, err := interp.Run(nil, nil, program)
	return res, out, err
}

func call(name string, args ...Node) *Call {
	return &Call{Callee: Ident(name), Args: args}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input Node
		want  string
	}{
		{&Binary{Op: runtime.LitAdd, Lhs: Num(3), Rhs: Num(4)}, "7"},
		{&Binary{Op: runtime.LitMul, Lhs: &Binary{Op: runtime.LitSub, Lhs: Num(10), Rhs: Num(4)}, Rhs: Num(2)}, "12"},
		{&Unary{Op: runtime.LitNeg, Operand: Num(5)}, "-5"},
		{&Binary{Op: runtime.LitAdd, Lhs: Str("a"), Rhs: Num(1)}, `"a1"`},
		{&Binary{Op: runtime.LitLth, Lhs: Num(1), Rhs: Num(2)}, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.input.String(), func(t *testing.T) {
			res, _, err := run(t, tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if res.String() != tt.want {
				t.Errorf("got %s, want %s", res, tt.want)
			}
		})
	}
}

func TestVariables(t *testing.T) {
	program := Seq{
		&Assign{Name: "x", Value: Num(2)},
		&Assign{Name: "y", Value: &Binary{Op: runtime.LitMul, Lhs: Ident("x"), Rhs: Num(3)}},
		Ident("y"),
	}
	res, _, err := run(t, program)
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "6" {
		t.Errorf("got %s, want 6", res)
	}

	_, _, err = run(t, Ident("nope"))
	if !errors.Is(err, &qerrors.QuestError{Code: "KEY-0001"}) {
		t.Errorf("undefined variable: %v", err)
	}
}

func TestClosures(t *testing.T) {
	// make_adder = { x = _1; { x + _1 } }
	makeAdder := &BlockLit{Name: "make_adder", Body: Seq{
		&Assign{Name: "x", Value: &Positional{Index: 1}},
		&BlockLit{Body: &Binary{Op: runtime.LitAdd, Lhs: Ident("x"), Rhs: &Positional{Index: 1}}},
	}}
	program := Seq{
		&Assign{Name: "make_adder", Value: makeAdder},
		&Assign{Name: "add5", Value: call("make_adder", Num(5))},
		&Assign{Name: "add1", Value: call("make_adder", Num(1))},
		&ListLit{Elems: []Node{call("add5", Num(3)), call("add1", Num(3))}},
	}
	res, _, err := run(t, program)
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "[8, 4]" {
		t.Errorf("got %s, want [8, 4]", res)
	}
}

func TestReturnUnwindsNestedCalls(t *testing.T) {
	// b = { c = { return 42 :1; disp("c") }; c(); disp("b"); 0 }
	b := &BlockLit{Name: "b", Body: Seq{
		&Assign{Name: "c", Value: &BlockLit{Name: "c", Body: Seq{
			&Return{Value: Num(42), Up: 1},
			call("disp", Str("c")),
		}}},
		call("c"),
		call("disp", Str("b")),
		Num(0),
	}}
	program := Seq{
		&Assign{Name: "b", Value: b},
		&Assign{Name: "r", Value: call("b")},
		call("disp", Str("a")),
		Ident("r"),
	}

	res, out, err := run(t, program)
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "42" {
		t.Errorf("got %s, want 42", res)
	}
	if len(out.lines) != 1 || out.lines[0] != "a" {
		t.Errorf("output = %q, want only a", out.lines)
	}
}

func TestReturnFromIfBlock(t *testing.T) {
	// abs = { if(_1 < 0, { return -(_1:1) :1 }); _1 }
	abs := &BlockLit{Name: "abs", Body: Seq{
		call("if",
			&Binary{Op: runtime.LitLth, Lhs: &Positional{Index: 1}, Rhs: Num(0)},
			&BlockLit{Body: &Return{Value: &Unary{Op: runtime.LitNeg, Operand: &Positional{Index: 1, Up: 1}}, Up: 1}},
		),
		&Positional{Index: 1},
	}}
	program := Seq{
		&Assign{Name: "abs", Value: abs},
		&ListLit{Elems: []Node{call("abs", Num(-3)), call("abs", Num(4))}},
	}
	res, _, err := run(t, program)
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != "[3, 4]" {
		t.Errorf("got %s, want [3, 4]", res)
	}
}

func TestShortCircuit(t *testing.T) {
	boom := call("throw", Str("evaluated"))

	res, _, err := run(t, &And{Lhs: Ident("false"), Rhs: boom})
	if err != nil {
		t.Fatalf("And evaluated its right side: %v", err)
	}
	if res.String() != "false" {
		t.Errorf("And = %s", res)
	}

	res, _, err = run(t, &Or{Lhs: Num(1), Rhs: boom})
	if err != nil {
		t.Fatalf("Or evaluated its right side: %v", err)
	}
	if res.String() != "1" {
		t.Errorf("Or = %s", res)
	}

	res, _, err = run(t, &Or{Lhs: Ident("null"), Rhs: Str("x")})
	if err != nil || res.String() != `"x"` {
		t.Errorf("Or = %v, %v", res, err)
	}
}

func TestObjectsAndMethods(t *testing.T) {
	program := Seq{
		&Assign{Name: "obj", Value: call("object")},
		&SetAttr{Target: Ident("obj"), Name: "x", Value: Num(3)},
		&ListLit{Elems: []Node{
			&Binary{Op: runtime.LitAdd, Lhs: &Attr{Target: Ident("obj"), Name: "x"}, Rhs: Num(1)},
			&MethodCall{Target: Str("abc"), Name: "upper"},
			&Index{Target: &ListLit{Elems: []Node{Num(1), Num(2), Num(3)}}, Args: []Node{Num(1)}},
			&Call{Callee: &Attr{Target: Num(-2), Name: "abs"}},
		}},
	}
	res, _, err := run(t, program)
	if err != nil {
		t.Fatal(err)
	}
	if res.String() != `[4, "ABC", 2, 2]` {
		t.Errorf("got %s", res)
	}
}

func TestUncaughtException(t *testing.T) {
	_, _, err := run(t, Seq{call("throw", Str("bad")), call("disp", Str("unreached"))})
	j, ok := runtime.AsJump(err)
	if !ok || j.Kind != runtime.JumpException {
		t.Fatalf("error = %v, want an exception", err)
	}
	if j.Value.String() != `"bad"` {
		t.Errorf("exception value = %s", j.Value)
	}
}

func TestEmptySeqIsNull(t *testing.T) {
	res, _, err := run(t, Seq{})
	if err != nil || res.Kind() != runtime.KindNull {
		t.Errorf("got %v, %v", res, err)
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Binary{Op: runtime.LitAdd, Lhs: Num(1), Rhs: Ident("x")}, "(1 + x)"},
		{&Unary{Op: runtime.LitNeg, Operand: Num(1)}, "(-1)"},
		{&MethodCall{Target: Str("a"), Name: "upper"}, `"a".upper()`},
		{&Return{Value: Num(1), Up: 2}, "return 1 :2"},
		{&Positional{Index: 1, Up: 1}, "_1:1"},
		{Seq{&Assign{Name: "x", Value: Num(1)}, Ident("x")}, "x = 1; x"},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
