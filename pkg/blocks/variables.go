package blocks

import (
	"strconv"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

func registerVariables(r *generator.Registry) {
	r.Value("variables_get", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		v := identifier(b.Field("VAR"))
		ctx.DeclareVariable(v)
		return generator.E(v, generator.OrderAtomic), nil
	}))
	r.OutputType("variables_get", func(inf *generator.Inference, b *workspace.Block) string {
		v := identifier(b.Field("VAR"))
		if t, ok := inf.Vars.Type(v); ok && t != generator.TypeLocal {
			return t
		}
		return ""
	})

	r.Statement("variables_set", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		v := identifier(b.Field("VAR"))
		ctx.DeclareVariable(v)
		val, err := ctx.ValueOr(b, "VALUE", generator.OrderAssignment, "0")
		if err != nil {
			return "", err
		}
		return v + " = " + val + ";\n", nil
	}))
	r.Infer("variables_set", func(inf *generator.Inference, b *workspace.Block) {
		typ := inf.TypeOf(b.Input("VALUE"))
		if typ == "" {
			typ = generator.TypeInt
		}
		inf.Vars.SetType(identifier(b.Field("VAR")), typ)
	})

	r.Statement("string_var_length", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		n, err := fieldInt(b, "LENGTH", generator.DefaultStringSize)
		if err != nil {
			return "", err
		}
		if n < 1 {
			return "", generator.Errorf("String length must be at least 1")
		}
		ctx.DeclareVariable(identifier(b.Field("VAR")))
		return "", nil
	}))
	r.Infer("string_var_length", func(inf *generator.Inference, b *workspace.Block) {
		n, err := fieldInt(b, "LENGTH", generator.DefaultStringSize)
		if err != nil || n < 1 {
			return
		}
		v := identifier(b.Field("VAR"))
		inf.Vars.SetType(v, generator.TypeString)
		inf.Vars.SetStringSize(v, n)
	})
}

func registerArrays(r *generator.Registry) {
	r.Statement("array_init", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		n, err := fieldInt(b, "NUM", 10)
		if err != nil {
			return "", err
		}
		if n < 1 {
			return "", generator.Errorf("Array size must be at least 1")
		}
		v := identifier(b.Field("VAR"))
		ctx.GlobalVars.Set("__ARRAY"+v, generator.TypePlaceholder(v)+" "+v+generator.LengthPlaceholder(v)+";")
		return "", nil
	}))
	r.Infer("array_init", func(inf *generator.Inference, b *workspace.Block) {
		n, err := fieldInt(b, "NUM", 10)
		if err != nil || n < 1 {
			return
		}
		v := identifier(b.Field("VAR"))
		inf.Vars.SetType(v, generator.TypeInt)
		inf.Vars.SetLength(v, n)
	})

	r.Value("array_get", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		v, err := arrayName(ctx.Workspace(), b)
		if err != nil {
			return generator.Expr{}, err
		}
		idx, err := ctx.ValueOr(b, "NUM", generator.OrderNone, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E(v+"["+idx+"]", generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("array_get", func(inf *generator.Inference, b *workspace.Block) string {
		if t, ok := inf.Vars.Type(identifier(b.Field("VAR"))); ok {
			return t
		}
		return generator.TypeInt
	})
	r.Check("array_get", checkArray)

	r.Statement("array_set", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		v, err := arrayName(ctx.Workspace(), b)
		if err != nil {
			return "", err
		}
		idx, err := ctx.ValueOr(b, "NUM", generator.OrderNone, "0")
		if err != nil {
			return "", err
		}
		val, err := ctx.ValueOr(b, "VALUE", generator.OrderAssignment, "0")
		if err != nil {
			return "", err
		}
		return v + "[" + idx + "] = " + val + ";\n", nil
	}))
	r.Infer("array_set", func(inf *generator.Inference, b *workspace.Block) {
		if typ := inf.TypeOf(b.Input("VALUE")); typ == generator.TypeFloat {
			inf.Vars.SetType(identifier(b.Field("VAR")), typ)
		}
	})
	r.Check("array_set", checkArray)
}

func missingArray(name string) *generator.Diagnostic {
	return generator.Errorf("Missing array initialize block for %s!", strconv.Quote(name))
}

// arrayName returns the C name of the array b refers to, or an error when
// no array_init block declares it.
func arrayName(ws *workspace.Workspace, b *workspace.Block) (string, error) {
	name := b.Field("VAR")
	if !hasBlock(ws, "array_init", "VAR", name) {
		return "", missingArray(name)
	}
	return identifier(name), nil
}

func checkArray(ws *workspace.Workspace, b *workspace.Block) *generator.Diagnostic {
	if _, err := arrayName(ws, b); err != nil {
		d := missingArray(b.Field("VAR"))
		d.Severity = generator.SeverityWarning
		return d
	}
	return nil
}
