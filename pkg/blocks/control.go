package blocks

import (
	"strconv"
	"strings"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

var loopTypes = []string{"controls_repeat", "control_repeat_for_loop"}

func registerControl(r *generator.Registry) {
	r.Statement("controls_repeat", generator.StatementFunc(repeat))
	r.Statement("controls_if", generator.StatementFunc(ifElse))
	r.Statement("control_repeat_for_loop", generator.StatementFunc(forLoop))
	r.Infer("control_repeat_for_loop", func(inf *generator.Inference, b *workspace.Block) {
		inf.Vars.SetType(identifier(b.Field("VAR")), generator.TypeInt)
	})
	r.Statement("controls_break", generator.StatementFunc(breakLoop))
	r.Check("controls_break", func(ws *workspace.Workspace, b *workspace.Block) *generator.Diagnostic {
		if !insideAny(b, loopTypes...) {
			return generator.Warningf("Break must be inside a loop!")
		}
		return nil
	})
	r.Statement("controls_return", generator.StatementFunc(returnStmt))
	r.Statement("base_delay", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		t, err := ctx.ValueOr(b, "DELAY_TIME", generator.OrderNone, "1000")
		if err != nil {
			return "", err
		}
		return "pause(" + t + ");\n", nil
	}))
	r.Statement("comment", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		return commentLines(b.Field("COMMENT_TEXT")), nil
	}))
}

func repeat(ctx *generator.Context, b *workspace.Block) (string, error) {
	body := ctx.StatementToCode(b, "DO")
	switch typ := b.Field("TYPE"); typ {
	case "", "FOREVER":
		return "while(1) {\n" + body + "}\n", nil
	case "TIMES":
		n, err := ctx.ValueOr(b, "TIMES", generator.OrderShift, "10")
		if err != nil {
			return "", err
		}
		return "for (int __n = 0; __n < " + n + "; __n++) {\n" + body + "}\n", nil
	case "WHILE":
		cond, err := ctx.ValueOr(b, "REPEAT_CONDITION", generator.OrderNone, "1")
		if err != nil {
			return "", err
		}
		return "while (" + cond + ") {\n" + body + "}\n", nil
	case "UNTIL":
		cond, err := ctx.ValueOr(b, "REPEAT_CONDITION", generator.OrderUnaryPrefix, "0")
		if err != nil {
			return "", err
		}
		return "while (!" + cond + ") {\n" + body + "}\n", nil
	default:
		return "", generator.Errorf("Unknown repeat type %q", typ)
	}
}

func ifElse(ctx *generator.Context, b *workspace.Block) (string, error) {
	elseifs := 0
	hasElse := false
	if b.Mutation != nil {
		elseifs, _ = strconv.Atoi(b.Mutation.Attr("elseif"))
		elseifs = max(elseifs, 0)
		hasElse = b.Mutation.Attr("else") == "1"
	}

	var sb strings.Builder
	for i := 0; i <= elseifs; i++ {
		n := strconv.Itoa(i)
		cond, err := ctx.ValueOr(b, "IF"+n, generator.OrderNone, "0")
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteString(" else ")
		}
		sb.WriteString("if (" + cond + ") {\n")
		sb.WriteString(ctx.StatementToCode(b, "DO"+n))
		sb.WriteString("}")
	}
	if hasElse {
		sb.WriteString(" else {\n")
		sb.WriteString(ctx.StatementToCode(b, "ELSE"))
		sb.WriteString("}")
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

// forLoop counts VAR from START to END by STEP. With literal bounds that
// count down, the comparison and the update are flipped.
func forLoop(ctx *generator.Context, b *workspace.Block) (string, error) {
	v := identifier(b.Field("VAR"))
	ctx.DeclareVariable(v)

	start, err := ctx.ValueOr(b, "START", generator.OrderAssignment, "0")
	if err != nil {
		return "", err
	}
	end, err := ctx.ValueOr(b, "END", generator.OrderShift, "10")
	if err != nil {
		return "", err
	}
	step, err := ctx.ValueOr(b, "STEP", generator.OrderAssignment, "1")
	if err != nil {
		return "", err
	}

	cmp, update := "<=", "+="
	s, errS := strconv.Atoi(start)
	e, errE := strconv.Atoi(end)
	if errS == nil && errE == nil && s > e {
		cmp, update = ">=", "-="
		step = strings.TrimPrefix(step, "-")
	}

	body := ctx.StatementToCode(b, "DO")
	return "for (" + v + " = " + start + "; " + v + " " + cmp + " " + end + "; " +
		v + " " + update + " " + step + ") {\n" + body + "}\n", nil
}

func breakLoop(ctx *generator.Context, b *workspace.Block) (string, error) {
	if !insideAny(b, loopTypes...) {
		return "", generator.Warningf("Break must be inside a loop!")
	}
	return "break;\n", nil
}

func returnStmt(ctx *generator.Context, b *workspace.Block) (string, error) {
	v, err := ctx.ValueToCode(b, "VALUE", generator.OrderNone)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "return;\n", nil
	}
	return "return " + v + ";\n", nil
}
