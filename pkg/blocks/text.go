package blocks

import (
	"strings"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

var cEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// quote renders s as a C string literal.
func quote(s string) string {
	return `"` + cEscaper.Replace(s) + `"`
}

func registerText(r *generator.Registry) {
	r.Value("string_type_block", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		return generator.E(quote(b.Field("TEXT")), generator.OrderAtomic), nil
	}))
	r.OutputType("string_type_block", func(*generator.Inference, *workspace.Block) string {
		return generator.TypeString
	})

	r.Value("string_length", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		v, err := ctx.ValueOr(b, "VALUE", generator.OrderNone, `""`)
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("strlen("+v+")", generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("string_length", intType)

	r.Value("string_compare", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		op, ok := compareOps[b.Field("OP")]
		if !ok {
			return generator.Expr{}, generator.Errorf("Unknown comparison %q", b.Field("OP"))
		}
		left, err := ctx.ValueOr(b, "A", generator.OrderNone, `""`)
		if err != nil {
			return generator.Expr{}, err
		}
		right, err := ctx.ValueOr(b, "B", generator.OrderNone, `""`)
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("strcmp("+left+", "+right+") "+op.symbol+" 0", op.order), nil
	}))
	r.OutputType("string_compare", intType)
}
