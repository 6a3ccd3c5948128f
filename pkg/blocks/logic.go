package blocks

import (
	"propc/pkg/generator"
	"propc/pkg/workspace"
)

var compareOps = map[string]binaryOp{
	"EQ":  {"==", generator.OrderEquality, generator.OrderRelational},
	"NEQ": {"!=", generator.OrderEquality, generator.OrderRelational},
	"LT":  {"<", generator.OrderRelational, generator.OrderShift},
	"LTE": {"<=", generator.OrderRelational, generator.OrderShift},
	"GT":  {">", generator.OrderRelational, generator.OrderShift},
	"GTE": {">=", generator.OrderRelational, generator.OrderShift},
}

var logicOps = map[string]binaryOp{
	"AND": {"&&", generator.OrderLogicalAnd, generator.OrderLogicalAnd},
	"OR":  {"||", generator.OrderLogicalOr, generator.OrderLogicalOr},
}

func registerLogic(r *generator.Registry) {
	r.Value("logic_compare", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		op, ok := compareOps[b.Field("OP")]
		if !ok {
			return generator.Expr{}, generator.Errorf("Unknown comparison %q", b.Field("OP"))
		}
		return binary(ctx, b, op)
	}))
	r.OutputType("logic_compare", intType)

	r.Value("logic_operation", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		op, ok := logicOps[b.Field("OP")]
		if !ok {
			return generator.Expr{}, generator.Errorf("Unknown logic operator %q", b.Field("OP"))
		}
		return binary(ctx, b, op)
	}))
	r.OutputType("logic_operation", intType)

	r.Value("logic_negate", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		v, err := ctx.ValueOr(b, "BOOL", generator.OrderUnaryPrefix, "1")
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("!"+v, generator.OrderUnaryPrefix), nil
	}))
	r.OutputType("logic_negate", intType)

	r.Value("logic_boolean", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		if b.Field("BOOL") == "TRUE" {
			return generator.E("1", generator.OrderAtomic), nil
		}
		return generator.E("0", generator.OrderAtomic), nil
	}))
	r.OutputType("logic_boolean", intType)

	r.Value("logic_ternary", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		cond, err := ctx.ValueOr(b, "IF", generator.OrderLogicalOr, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		then, err := ctx.ValueOr(b, "THEN", generator.OrderConditional, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		els, err := ctx.ValueOr(b, "ELSE", generator.OrderConditional, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E(cond+" ? "+then+" : "+els, generator.OrderConditional), nil
	}))
	r.OutputType("logic_ternary", func(inf *generator.Inference, b *workspace.Block) string {
		if t := inf.TypeOf(b.Input("THEN")); t != "" {
			return t
		}
		return inf.TypeOf(b.Input("ELSE"))
	})
}
