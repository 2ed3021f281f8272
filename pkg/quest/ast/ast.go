// Package ast provides expression-tree nodes that the runtime can execute.
// A parser produces these; embedders and tests can also build them by hand.
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sambeau/quest/pkg/quest/runtime"
)

// Node represents any node in the tree
type Node interface {
	runtime.Executable
	String() string
}

// Const evaluates to a fixed object
type Const struct {
	Value *runtime.Object
}

func (c *Const) Execute(*runtime.Binding) (*runtime.Object, error) { return c.Value, nil }
func (c *Const) String() string                                      { return c.Value.String() }

// Num is a number literal
type Num float64

func (n Num) Execute(*runtime.Binding) (*runtime.Object, error) {
	return runtime.NewNumber(float64(n)), nil
}
func (n Num) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Str is a text literal
type Str string

func (s Str) Execute(*runtime.Binding) (*runtime.Object, error) {
	return runtime.NewText(string(s)), nil
}
func (s Str) String() string { return strconv.Quote(string(s)) }

// Ident is a variable reference, resolved on the current scope and its parents
type Ident string

func (i Ident) Execute(b *runtime.Binding) (*runtime.Object, error) {
	return b.Scope().GetAttr(b, runtime.Intern(string(i)))
}
func (i Ident) String() string { return string(i) }

// Positional is _N: the receiver (_0) or an argument of the binding Up
// frames above the current one
type Positional struct {
	Index int
	Up    int
}

func (p *Positional) Execute(b *runtime.Binding) (*runtime.Object, error) {
	f, err := b.Up(p.Up)
	if err != nil {
		return nil, err
	}
	return f.Arg(p.Index)
}

func (p *Positional) String() string {
	s := "_" + strconv.Itoa(p.Index)
	if p.Up > 0 {
		s += ":" + strconv.Itoa(p.Up)
	}
	return s
}

// Attr is target.name, evaluated through the target's `.` attribute
type Attr struct {
	Target Node
	Name   string
}

func (a *Attr) Execute(b *runtime.Binding) (*runtime.Object, error) {
	target, err := a.Target.Execute(b)
	if err != nil {
		return nil, err
	}
	return target.CallAttr(b, runtime.LitDot, runtime.NewText(a.Name))
}

func (a *Attr) String() string { return a.Target.String() + "." + a.Name }

// Assign is name = value, evaluated through the name's `=` attribute
type Assign struct {
	Name  string
	Value Node
}

func (a *Assign) Execute(b *runtime.Binding) (*runtime.Object, error) {
	v, err := a.Value.Execute(b)
	if err != nil {
		return nil, err
	}
	return runtime.NewText(a.Name).CallAttr(b, runtime.LitAssign, v)
}

func (a *Assign) String() string { return a.Name + " = " + a.Value.String() }

// SetAttr is target.name = value
type SetAttr struct {
	Target Node
	Name   string
	Value  Node
}

func (s *SetAttr) Execute(b *runtime.Binding) (*runtime.Object, error) {
	target, err := s.Target.Execute(b)
	if err != nil {
		return nil, err
	}
	v, err := s.Value.Execute(b)
	if err != nil {
		return nil, err
	}
	return target.CallAttr(b, runtime.LitDotS, runtime.NewText(s.Name), v)
}

func (s *SetAttr) String() string {
	return s.Target.String() + "." + s.Name + " = " + s.Value.String()
}

// Binary is lhs op rhs
type Binary struct {
	Op  runtime.Literal
	Lhs Node
	Rhs Node
}

func (x *Binary) Execute(b *runtime.Binding) (*runtime.Object, error) {
	lhs, err := x.Lhs.Execute(b)
	if err != nil {
		return nil, err
	}
	rhs, err := x.Rhs.Execute(b)
	if err != nil {
		return nil, err
	}
	return runtime.Binary(b, x.Op, lhs, rhs)
}

func (x *Binary) String() string {
	return "(" + x.Lhs.String() + " " + string(x.Op) + " " + x.Rhs.String() + ")"
}

// Unary is op operand
type Unary struct {
	Op      runtime.Literal
	Operand Node
}

func (u *Unary) Execute(b *runtime.Binding) (*runtime.Object, error) {
	v, err := u.Operand.Execute(b)
	if err != nil {
		return nil, err
	}
	return runtime.Unary(b, u.Op, v)
}

func (u *Unary) String() string {
	return "(" + strings.TrimSuffix(string(u.Op), "@") + u.Operand.String() + ")"
}

// And evaluates Rhs only when Lhs is truthy
type And struct {
	Lhs Node
	Rhs Node
}

func (a *And) Execute(b *runtime.Binding) (*runtime.Object, error) {
	lhs, err := a.Lhs.Execute(b)
	if err != nil {
		return nil, err
	}
	ok, err := lhs.Truthy(b)
	if err != nil || !ok {
		return lhs, err
	}
	return a.Rhs.Execute(b)
}

func (a *And) String() string { return "(" + a.Lhs.String() + " && " + a.Rhs.String() + ")" }

// Or evaluates Rhs only when Lhs is falsey
type Or struct {
	Lhs Node
	Rhs Node
}

func (o *Or) Execute(b *runtime.Binding) (*runtime.Object, error) {
	lhs, err := o.Lhs.Execute(b)
	if err != nil {
		return nil, err
	}
	ok, err := lhs.Truthy(b)
	if err != nil || ok {
		return lhs, err
	}
	return o.Rhs.Execute(b)
}

func (o *Or) String() string { return "(" + o.Lhs.String() + " || " + o.Rhs.String() + ")" }

// Call is callee(args...), with the current receiver as owner
type Call struct {
	Callee Node
	Args   []Node
}

func (c *Call) Execute(b *runtime.Binding) (*runtime.Object, error) {
	callee, err := c.Callee.Execute(b)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(b, c.Args)
	if err != nil {
		return nil, err
	}
	return runtime.Call(b, callee, args...)
}

func (c *Call) String() string { return c.Callee.String() + "(" + joinNodes(c.Args) + ")" }

// MethodCall is target.name(args...), calling the attribute directly
type MethodCall struct {
	Target Node
	Name   string
	Args   []Node
}

func (m *MethodCall) Execute(b *runtime.Binding) (*runtime.Object, error) {
	target, err := m.Target.Execute(b)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(b, m.Args)
	if err != nil {
		return nil, err
	}
	return target.CallAttr(b, runtime.Intern(m.Name), args...)
}

func (m *MethodCall) String() string {
	return m.Target.String() + "." + m.Name + "(" + joinNodes(m.Args) + ")"
}

// Index is target[args...]
type Index struct {
	Target Node
	Args   []Node
}

func (x *Index) Execute(b *runtime.Binding) (*runtime.Object, error) {
	target, err := x.Target.Execute(b)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(b, x.Args)
	if err != nil {
		return nil, err
	}
	return runtime.Index(b, target, args...)
}

func (x *Index) String() string { return x.Target.String() + "[" + joinNodes(x.Args) + "]" }

// BlockLit creates a block closing over the current scope
type BlockLit struct {
	Name string
	Body Node
}

func (bl *BlockLit) Execute(b *runtime.Binding) (*runtime.Object, error) {
	return runtime.NewBlock(b, bl.Name, bl.Body), nil
}

func (bl *BlockLit) String() string { return "{ " + bl.Body.String() + " }" }

// ListLit is [elems...]
type ListLit struct {
	Elems []Node
}

func (l *ListLit) Execute(b *runtime.Binding) (*runtime.Object, error) {
	elems, err := evalAll(b, l.Elems)
	if err != nil {
		return nil, err
	}
	return runtime.NewList(elems...), nil
}

func (l *ListLit) String() string { return "[" + joinNodes(l.Elems) + "]" }

// Return unwinds to the binding Up frames above the current one, which then
// completes with Value (null when nil)
type Return struct {
	Value Node
	Up    int
}

func (r *Return) Execute(b *runtime.Binding) (*runtime.Object, error) {
	result := runtime.Null()
	if r.Value != nil {
		v, err := r.Value.Execute(b)
		if err != nil {
			return nil, err
		}
		result = v
	}
	target, err := b.Up(r.Up)
	if err != nil {
		return nil, err
	}
	return nil, runtime.NewReturn(target, result)
}

func (r *Return) String() string {
	var out bytes.Buffer
	out.WriteString("return")
	if r.Value != nil {
		out.WriteString(" " + r.Value.String())
	}
	if r.Up > 0 {
		out.WriteString(" :" + strconv.Itoa(r.Up))
	}
	return out.String()
}

// Seq runs nodes in order and yields the last result, or null when empty
type Seq []Node

func (s Seq) Execute(b *runtime.Binding) (*runtime.Object, error) {
	result := runtime.Null()
	for _, n := range s {
		v, err := n.Execute(b)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (s Seq) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = n.String()
	}
	return strings.Join(parts, "; ")
}

func evalAll(b *runtime.Binding, nodes []Node) ([]*runtime.Object, error) {
	out := make([]*runtime.Object, len(nodes))
	for i, n := range nodes {
		v, err := n.Execute(b)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
