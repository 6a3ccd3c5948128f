package blocks

import (
	"strings"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

var pinActions = map[string]string{
	"HIGH":    "high",
	"LOW":     "low",
	"TOGGLE":  "toggle",
	"INPUT":   "input",
	"REVERSE": "reverse",
}

func registerIO(r *generator.Registry) {
	r.Statement("make_pin", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		fn, ok := pinActions[b.Field("ACTION")]
		if !ok {
			return "", generator.Errorf("Unknown pin action %q", b.Field("ACTION"))
		}
		pin, err := pinOf(ctx, b)
		if err != nil {
			return "", err
		}
		return fn + "(" + pin + ");\n", nil
	}))

	r.Value("check_pin", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		pin, err := pinOf(ctx, b)
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E("input("+pin+")", generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("check_pin", intType)

	r.Statement("console_print", generator.StatementFunc(consolePrint))
	r.Statement("console_clear", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		useTerminal(ctx)
		return "term_cmd(CLS);\n", nil
	}))
}

// useTerminal marks the program as using the serial terminal so the editor
// opens it after loading.
func useTerminal(ctx *generator.Context) {
	ctx.Definitions.Set("__SERIAL_TERMINAL", generator.SettingsMarker("SERIAL_TERMINAL"))
}

// consolePrint prints MESSAGE with a format picked from its type. A string
// literal is printed as is.
func consolePrint(ctx *generator.Context, b *workspace.Block) (string, error) {
	useTerminal(ctx)
	nl := ""
	if b.Field("NEWLINE") == "TRUE" {
		nl = `\n`
	}

	msg := b.Input("MESSAGE")
	if msg == nil || msg.Disabled {
		return `print("` + nl + `");` + "\n", nil
	}
	if msg.Type == "string_type_block" {
		text := strings.ReplaceAll(msg.Field("TEXT"), "%", "%%")
		if nl != "" {
			text += "\n"
		}
		return "print(" + quote(text) + ");\n", nil
	}

	v, err := ctx.ValueToCode(b, "MESSAGE", generator.OrderNone)
	if err != nil {
		return "", err
	}
	format := "%d"
	switch ctx.TypeOf(msg) {
	case generator.TypeString:
		format = "%s"
	case generator.TypeFloat:
		format = "%f"
	}
	return `print("` + format + nl + `", ` + v + ");\n", nil
}
