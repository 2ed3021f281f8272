package main

import (
	"context"
	"fmt"
	"io"

	"github.com/sambeau/quest/config"
	"github.com/sambeau/quest/pkg/quest/ast"
	"github.com/sambeau/quest/pkg/quest/quest"
	"github.com/sambeau/quest/pkg/quest/runtime"
)

// selfCheck is a program that must evaluate to a truthy value
type selfCheck struct {
	name    string
	program ast.Node
}

func call(name string, args ...ast.Node) ast.Node {
	return &ast.Call{Callee: ast.Ident(name), Args: args}
}

func eq(lhs, rhs ast.Node) ast.Node {
	return &ast.Binary{Op: runtime.LitEql, Lhs: lhs, Rhs: rhs}
}

var selfChecks = []selfCheck{
	{
		name:    "number dispatch",
		program: eq(&ast.Binary{Op: runtime.LitAdd, Lhs: ast.Num(3), Rhs: ast.Num(4)}, ast.Num(7)),
	},
	{
		name: "overwrite keeps one key",
		program: ast.Seq{
			&ast.Assign{Name: "o", Value: call("object")},
			&ast.SetAttr{Target: ast.Ident("o"), Name: "a", Value: ast.Num(1)},
			&ast.SetAttr{Target: ast.Ident("o"), Name: "a", Value: ast.Num(2)},
			&ast.And{
				Lhs: eq(&ast.Attr{Target: ast.Ident("o"), Name: "a"}, ast.Num(2)),
				Rhs: eq(&ast.MethodCall{Target: &ast.MethodCall{Target: ast.Ident("o"), Name: "__keys__"}, Name: "len"}, ast.Num(1)),
			},
		},
	},
	{
		name: "clone isolation",
		program: ast.Seq{
			&ast.Assign{Name: "a", Value: call("object")},
			&ast.SetAttr{Target: ast.Ident("a"), Name: "x", Value: ast.Num(1)},
			&ast.Assign{Name: "b", Value: &ast.MethodCall{Target: ast.Ident("a"), Name: "clone"}},
			&ast.SetAttr{Target: ast.Ident("b"), Name: "x", Value: ast.Num(2)},
			eq(&ast.Attr{Target: ast.Ident("a"), Name: "x"}, ast.Num(1)),
		},
	},
	{
		name: "leftmost parent wins",
		program: ast.Seq{
			&ast.Assign{Name: "p1", Value: call("object")},
			&ast.Assign{Name: "p2", Value: call("object")},
			&ast.SetAttr{Target: ast.Ident("p1"), Name: "who", Value: ast.Str("p1")},
			&ast.SetAttr{Target: ast.Ident("p2"), Name: "who", Value: ast.Str("p2")},
			&ast.Assign{Name: "c", Value: call("object")},
			&ast.SetAttr{Target: ast.Ident("c"), Name: "__parents__", Value: &ast.ListLit{Elems: []ast.Node{ast.Ident("p1"), ast.Ident("p2")}}},
			eq(&ast.Attr{Target: ast.Ident("c"), Name: "who"}, ast.Str("p1")),
		},
	},
	{
		name: "return unwinds",
		program: ast.Seq{
			&ast.Assign{Name: "f", Value: &ast.BlockLit{Name: "f", Body: ast.Seq{
				call("if", ast.Ident("true"), &ast.BlockLit{Body: &ast.Return{Value: ast.Num(42), Up: 1}}),
				ast.Num(0),
			}}},
			eq(call("f"), ast.Num(42)),
		},
	},
}

func runSelftest(ctx context.Context, configPath string, stdout, stderr io.Writer, getenv func(string) string) error {
	cfg, err := config.Load(configPath, getenv)
	if err != nil {
		return err
	}
	engine, closeFn, err := newEngine(cfg, stdout, stderr)
	if err != nil {
		return err
	}
	defer closeFn()

	failed := 0
	for _, check := range selfChecks {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := engine.Run(check.program)
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL  %s\n      %s\n", check.name, quest.Report(err))
			continue
		}
		ok, err := res.Truthy(nil)
		if err != nil || !ok {
			failed++
			fmt.Fprintf(stdout, "FAIL  %s: got %s\n", check.name, res)
			continue
		}
		fmt.Fprintf(stdout, "ok    %s\n", check.name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(selfChecks))
	}
	return nil
}
