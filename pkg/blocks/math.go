package blocks

import (
	"strconv"
	"strings"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

type binaryOp struct {
	symbol string
	order  generator.Order
	// right is the order the right operand is spliced at. Operators that are
	// not associative on the right bind it one step tighter.
	right generator.Order
}

var arithmeticOps = map[string]binaryOp{
	"ADD":      {"+", generator.OrderAdditive, generator.OrderAdditive},
	"MINUS":    {"-", generator.OrderAdditive, generator.OrderMultiplicative},
	"MULTIPLY": {"*", generator.OrderMultiplicative, generator.OrderMultiplicative},
	"DIVIDE":   {"/", generator.OrderMultiplicative, generator.OrderUnaryPrefix},
	"MODULUS":  {"%", generator.OrderMultiplicative, generator.OrderUnaryPrefix},
}

var bitwiseOps = map[string]binaryOp{
	"BITAND": {"&", generator.OrderBitwiseAnd, generator.OrderBitwiseAnd},
	"BITOR":  {"|", generator.OrderBitwiseOr, generator.OrderBitwiseOr},
	"BITXOR": {"^", generator.OrderBitwiseXor, generator.OrderBitwiseXor},
	"LEFT":   {"<<", generator.OrderShift, generator.OrderAdditive},
	"RIGHT":  {">>", generator.OrderShift, generator.OrderAdditive},
}

func registerMath(r *generator.Registry) {
	r.Value("math_number", generator.ValueFunc(number))
	r.OutputType("math_number", func(_ *generator.Inference, b *workspace.Block) string {
		if isFloatLiteral(b.Field("NUM")) {
			return generator.TypeFloat
		}
		return generator.TypeInt
	})

	r.Value("math_arithmetic", generator.ValueFunc(arithmetic))
	r.OutputType("math_arithmetic", arithmeticType)

	r.Value("math_bitwise", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		op, ok := bitwiseOps[b.Field("OP")]
		if !ok {
			return generator.Expr{}, generator.Errorf("Unknown bitwise operator %q", b.Field("OP"))
		}
		return binary(ctx, b, op)
	}))
	r.OutputType("math_bitwise", intType)

	r.Statement("math_crement", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		v := identifier(b.Field("VAR"))
		ctx.DeclareVariable(v)
		op := "++"
		if b.Field("OP") == "DEC" || b.Field("OP") == "--" {
			op = "--"
		}
		return v + op + ";\n", nil
	}))
	r.Infer("math_crement", func(inf *generator.Inference, b *workspace.Block) {
		inf.Vars.SetType(identifier(b.Field("VAR")), generator.TypeInt)
	})

	r.Value("math_random", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		lo, err := ctx.ValueOr(b, "A", generator.OrderNone, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		hi, err := ctx.ValueOr(b, "B", generator.OrderNone, "100")
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("random("+lo+", "+hi+")", generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("math_random", intType)

	r.Value("math_cast", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		typ := castType(b)
		v, err := ctx.ValueOr(b, "VALUE", generator.OrderUnaryPrefix, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("("+typ+")"+v, generator.OrderUnaryPrefix), nil
	}))
	r.OutputType("math_cast", func(_ *generator.Inference, b *workspace.Block) string {
		return castType(b)
	})
}

func intType(*generator.Inference, *workspace.Block) string { return generator.TypeInt }

func castType(b *workspace.Block) string {
	if strings.EqualFold(b.Field("TYPE"), "float") {
		return generator.TypeFloat
	}
	return generator.TypeInt
}

// isFloatLiteral reports whether s is a numeric literal that is not an
// integer (decimal, hex or octal).
func isFloatLiteral(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func number(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
	s := strings.TrimSpace(b.Field("NUM"))
	if s == "" {
		s = "0"
	}
	if _, err := strconv.ParseInt(s, 0, 64); err != nil && !isFloatLiteral(s) {
		return generator.Expr{}, generator.Errorf("Invalid number %q", s)
	}
	if strings.HasPrefix(s, "-") {
		return generator.E(s, generator.OrderUnaryPrefix), nil
	}
	return generator.E(s, generator.OrderAtomic), nil
}

func arithmetic(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
	if b.Field("OP") == "POWER" {
		base, err := ctx.ValueOr(b, "A", generator.OrderNone, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		exp, err := ctx.ValueOr(b, "B", generator.OrderNone, "0")
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("pow("+base+", "+exp+")", generator.OrderUnaryPostfix), nil
	}
	op, ok := arithmeticOps[b.Field("OP")]
	if !ok {
		return generator.Expr{}, generator.Errorf("Unknown arithmetic operator %q", b.Field("OP"))
	}
	return binary(ctx, b, op)
}

// binary splices inputs A and B around op.
func binary(ctx *generator.Context, b *workspace.Block, op binaryOp) (generator.Expr, error) {
	left, err := ctx.ValueOr(b, "A", op.order, "0")
	if err != nil {
		return generator.Expr{}, err
	}
	right, err := ctx.ValueOr(b, "B", op.right, "0")
	if err != nil {
		return generator.Expr{}, err
	}
	return generator.E(left+" "+op.symbol+" "+right, op.order), nil
}

// arithmeticType is float when either operand is float or the operator is
// POWER, int otherwise.
func arithmeticType(inf *generator.Inference, b *workspace.Block) string {
	if b.Field("OP") == "POWER" {
		return generator.TypeFloat
	}
	for _, name := range []string{"A", "B"} {
		if inf.TypeOf(b.Input(name)) == generator.TypeFloat {
			return generator.TypeFloat
		}
	}
	return generator.TypeInt
}
