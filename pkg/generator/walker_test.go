package generator

import (
	"strings"
	"testing"

	"propc/pkg/workspace"
)

// assertContains checks if the generated code contains the expected substring.
func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("Expected code to contain %q, but it didn't.\nCode:\n%s", expected, code)
	}
}

func assertNotContains(t *testing.T, code, unexpected string) {
	t.Helper()
	if strings.Contains(code, unexpected) {
		t.Errorf("Expected code NOT to contain %q, but it did.\nCode:\n%s", unexpected, code)
	}
}

// testRegistry is a minimal block catalog that exercises every emitter shape.
func testRegistry() *Registry {
	r := NewRegistry()
	r.Value("num", ValueFunc(func(ctx *Context, b *workspace.Block) (Expr, error) {
		return E(b.Field("N"), OrderAtomic), nil
	}))
	binary := func(op string, order Order) ValueFunc {
		return func(ctx *Context, b *workspace.Block) (Expr, error) {
			left, err := ctx.ValueOr(b, "A", order, "0")
			if err != nil {
				return Expr{}, err
			}
			right, err := ctx.ValueOr(b, "B", order, "0")
			if err != nil {
				return Expr{}, err
			}
			return E(left+" "+op+" "+right, order), nil
		}
	}
	r.Value("add", binary("+", OrderAdditive))
	r.Value("mul", binary("*", OrderMultiplicative))
	r.Value("broken", ValueFunc(func(ctx *Context, b *workspace.Block) (Expr, error) {
		return Expr{}, Errorf("Missing init block!")
	}))
	r.Statement("print", StatementFunc(func(ctx *Context, b *workspace.Block) (string, error) {
		v, err := ctx.ValueOr(b, "V", OrderNone, "0")
		if err != nil {
			return "", err
		}
		return "print(" + v + ");\n", nil
	}))
	r.Statement("loop", StatementFunc(func(ctx *Context, b *workspace.Block) (string, error) {
		return "while(1) {\n" + ctx.StatementToCode(b, "DO") + "}\n", nil
	}))
	r.Statement("init", StatementFunc(func(ctx *Context, b *workspace.Block) (string, error) {
		ctx.Definitions.Set("dev", `#include "dev.h"`)
		ctx.Setups.Set("dev", "dev_start("+b.Field("PIN")+");")
		return "", nil
	}))
	r.Statement("setvar", StatementFunc(func(ctx *Context, b *workspace.Block) (string, error) {
		name := b.Field("VAR")
		ctx.DeclareVariable(name)
		v, err := ctx.ValueOr(b, "V", OrderAssignment, "0")
		if err != nil {
			return "", err
		}
		return name + " = " + v + ";\n", nil
	}))
	r.Infer("setvar", func(inf *Inference, b *workspace.Block) {
		if typ := inf.TypeOf(b.Input("V")); typ != "" {
			inf.Vars.SetType(b.Field("VAR"), typ)
		}
	})
	r.Value("text", ValueFunc(func(ctx *Context, b *workspace.Block) (Expr, error) {
		return E(`"`+b.Field("T")+`"`, OrderAtomic), nil
	}))
	r.OutputType("text", func(*Inference, *workspace.Block) string { return TypeString })
	r.Check("broken", func(ws *workspace.Workspace, b *workspace.Block) *Diagnostic {
		return Warningf("broken block needs an init block")
	})
	return r
}

func num(n string) *workspace.Block {
	return workspace.NewBlock("num").WithField("N", n)
}

func newTestContext(top ...*workspace.Block) *Context {
	return NewContext(workspace.New(top...), testRegistry(), DefaultOptions())
}

func TestBlockToCode_NakedValue(t *testing.T) {
	ctx := newTestContext()
	got := ctx.BlockToCode(num("5"))
	if got != "5;\n" {
		t.Errorf("naked value: got %q, want %q", got, "5;\n")
	}
}

func TestValueToCode_Precedence(t *testing.T) {
	tests := []struct {
		name  string
		block *workspace.Block
		want  string
	}{
		{
			name: "looser child is wrapped",
			block: workspace.NewBlock("mul").
				WithValue("A", workspace.NewBlock("add").WithValue("A", num("1")).WithValue("B", num("2"))).
				WithValue("B", num("3")),
			want: "print((1 + 2) * 3);\n",
		},
		{
			name: "tighter child is not wrapped",
			block: workspace.NewBlock("add").
				WithValue("A", workspace.NewBlock("mul").WithValue("A", num("2")).WithValue("B", num("3"))).
				WithValue("B", num("4")),
			want: "print(2 * 3 + 4);\n",
		},
		{
			name:  "equal order is not wrapped",
			block: workspace.NewBlock("add").WithValue("A", workspace.NewBlock("add")).WithValue("B", num("1")),
			want:  "print(0 + 0 + 1);\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := workspace.NewBlock("print").WithValue("V", tt.block)
			ctx := newTestContext(stmt)
			if got := ctx.BlockToCode(stmt); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		child, required Order
		wrapped         bool
	}{
		{OrderAtomic, OrderNone, false},
		{OrderAdditive, OrderMultiplicative, true},
		{OrderAdditive, OrderAdditive, false},
		{OrderMultiplicative, OrderAdditive, false},
		{OrderNone, OrderAssignment, true},
		{OrderConditional, OrderLogicalOr, true},
	}
	for _, tt := range tests {
		got := Wrap(E("x", tt.child), tt.required)
		if (got == "(x)") != tt.wrapped {
			t.Errorf("Wrap(order %d, required %d) = %q, wrapped want %v", tt.child, tt.required, got, tt.wrapped)
		}
	}
}

func TestBlockToCode_Errors(t *testing.T) {
	t.Run("value error replaces statement", func(t *testing.T) {
		stmt := workspace.NewBlock("print").WithID("p1").
			WithValue("V", workspace.NewBlock("broken").WithID("x1"))
		ctx := newTestContext(stmt)
		got := ctx.BlockToCode(stmt)
		if got != "// ERROR: Missing init block!\n" {
			t.Errorf("got %q", got)
		}
		diags := ctx.Diagnostics()
		if len(diags) != 1 {
			t.Fatalf("expected 1 diagnostic, got %d", len(diags))
		}
		if diags[0].BlockID != "x1" || diags[0].BlockType != "broken" || diags[0].Severity != SeverityError {
			t.Errorf("diagnostic not attributed to the failing block: %+v", diags[0])
		}
	})

	t.Run("comments can be disabled", func(t *testing.T) {
		stmt := workspace.NewBlock("broken")
		opts := DefaultOptions()
		opts.EmbedDiagnostics = false
		ctx := NewContext(workspace.New(stmt), testRegistry(), opts)
		if got := ctx.BlockToCode(stmt); got != "" {
			t.Errorf("expected no text, got %q", got)
		}
		if len(ctx.Diagnostics()) != 1 {
			t.Errorf("diagnostic must still be recorded")
		}
	})

	t.Run("unknown block type", func(t *testing.T) {
		stmt := workspace.NewBlock("mystery")
		ctx := newTestContext(stmt)
		got := ctx.BlockToCode(stmt)
		if got != "// WARNING: Unknown block type \"mystery\"\n" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("statement block in a value input", func(t *testing.T) {
		stmt := workspace.NewBlock("print").WithValue("V", workspace.NewBlock("loop"))
		ctx := newTestContext(stmt)
		assertContains(t, ctx.BlockToCode(stmt), "// ERROR: ")
	})
}

func TestBlockToCode_Comments(t *testing.T) {
	stmt := workspace.NewBlock("print").WithComment("hello\nworld").
		WithValue("V", workspace.NewBlock("add").WithComment("sum").
			WithValue("A", num("1").WithComment("hidden").WithInline(true)).
			WithValue("B", num("2").WithComment("two")))
	ctx := newTestContext(stmt)
	want := "// hello\n// world\n// sum\n// two\nprint(1 + 2);\n"
	if got := ctx.BlockToCode(stmt); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBlockToCode_ChainAndIndent(t *testing.T) {
	loop := workspace.NewBlock("loop").WithStatement("DO", workspace.Chain(
		workspace.NewBlock("print").WithValue("V", num("1")),
		workspace.NewBlock("print").WithValue("V", num("9")).WithDisabled(true),
		workspace.NewBlock("print").WithValue("V", num("2")),
	))
	ctx := newTestContext(loop)
	want := "while(1) {\n  print(1);\n  print(2);\n}\n"
	if got := ctx.BlockToCode(loop); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrefixLines(t *testing.T) {
	got := PrefixLines("a;\n\nb;\n", "  ")
	if got != "  a;\n\n  b;\n" {
		t.Errorf("got %q", got)
	}
	if PrefixLines("", "  ") != "" {
		t.Errorf("empty input must stay empty")
	}
}

func TestCheck(t *testing.T) {
	ws := workspace.New(workspace.Chain(
		workspace.NewBlock("print").WithValue("V", workspace.NewBlock("broken").WithID("b1")),
		workspace.NewBlock("broken").WithID("b2").WithDisabled(true),
	))
	diags := Check(ws, testRegistry())
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].BlockID != "b1" || diags[0].Severity != SeverityWarning {
		t.Errorf("unexpected diagnostic %+v", diags[0])
	}
}

func TestRegistry(t *testing.T) {
	r := testRegistry()
	if !r.IsValue("num") || r.IsValue("print") {
		t.Errorf("value classification wrong")
	}
	types := r.Types()
	for i := 1; i < len(types); i++ {
		if types[i-1] > types[i] {
			t.Fatalf("Types not sorted: %v", types)
		}
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on duplicate registration")
		}
	}()
	r.Statement("num", StatementFunc(func(*Context, *workspace.Block) (string, error) { return "", nil }))
}

func TestInferenceStopsWhenFactsNeverSettle(t *testing.T) {
	r := NewRegistry()
	r.Statement("size", StatementFunc(func(ctx *Context, b *workspace.Block) (string, error) {
		return "", nil
	}))
	passes := 0
	r.Infer("size", func(inf *Inference, b *workspace.Block) {
		passes++
		n := 3
		if b.Field("N") == "5" {
			n = 5
		}
		inf.Vars.SetLength("arr", n)
	})
	ws := workspace.New(workspace.Chain(
		workspace.NewBlock("size").WithField("N", "3"),
		workspace.NewBlock("size").WithField("N", "5"),
	))
	Generate(ws, r, DefaultOptions())
	if passes != 2*maxInferPasses {
		t.Errorf("infer ran %d times, want %d", passes, 2*maxInferPasses)
	}
}
