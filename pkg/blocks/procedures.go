package blocks

import (
	"strconv"
	"strings"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

// DefaultCogStack is the stack size, in longs, given to a function started
// in a new cog when the block does not say otherwise.
const DefaultCogStack = 128

func registerProcedures(r *generator.Registry) {
	r.Statement("procedures_defnoreturn", generator.StatementFunc(defineProcedure))
	r.Statement("procedures_defreturn", generator.StatementFunc(defineProcedure))
	r.Infer("procedures_defnoreturn", inferParams)
	r.Infer("procedures_defreturn", inferParams)

	r.Statement("procedures_callnoreturn", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		call, err := callProcedure(ctx, b)
		if err != nil {
			return "", err
		}
		return call + ";\n", nil
	}))
	r.Check("procedures_callnoreturn", checkCall)

	r.Value("procedures_callreturn", generator.ValueFunc(func(ctx *generator.Context, b *workspace.Block) (generator.Expr, error) {
		call, err := callProcedure(ctx, b)
		if err != nil {
			return generator.Expr{}, err
		}
		return generator.E(call, generator.OrderUnaryPostfix), nil
	}))
	r.OutputType("procedures_callreturn", func(inf *generator.Inference, b *workspace.Block) string {
		def := findProcedure(inf.Workspace(), b.Field("NAME"))
		if def == nil {
			return ""
		}
		return returnType(inf, def)
	})
	r.Check("procedures_callreturn", checkCall)

	r.Statement("cog_new", generator.StatementFunc(cogNew))
	r.Check("cog_new", func(ws *workspace.Workspace, b *workspace.Block) *generator.Diagnostic {
		if call := b.Input("METHOD"); call == nil || call.Type != "procedures_callnoreturn" {
			return generator.Warningf("A new cog must start a function call!")
		}
		return nil
	})
}

// params returns the parameter names of a definition or call block.
func params(b *workspace.Block) []string {
	if b.Mutation == nil {
		return nil
	}
	out := make([]string, len(b.Mutation.Args))
	for i, a := range b.Mutation.Args {
		out[i] = identifier(a)
	}
	return out
}

func inferParams(inf *generator.Inference, b *workspace.Block) {
	for _, p := range params(b) {
		inf.Vars.SetType(p, generator.TypeLocal)
	}
}

func findProcedure(ws *workspace.Workspace, name string) *workspace.Block {
	for _, b := range ws.EnabledBlocks() {
		if (b.Type == "procedures_defnoreturn" || b.Type == "procedures_defreturn") && b.Field("NAME") == name {
			return b
		}
	}
	return nil
}

// returnType is the C type a definition returns: void for
// procedures_defnoreturn, the inferred type of RETURN otherwise.
func returnType(inf *generator.Inference, def *workspace.Block) string {
	if def.Type == "procedures_defnoreturn" {
		return "void"
	}
	if t := inf.TypeOf(def.Input("RETURN")); t != "" {
		return t
	}
	return generator.TypeInt
}

func defineProcedure(ctx *generator.Context, b *workspace.Block) (string, error) {
	name := identifier(b.Field("NAME"))

	var args []string
	for _, p := range params(b) {
		args = append(args, "int "+p)
	}
	signature := cDecl(returnType(ctx.Inference(), b), name) + "(" + strings.Join(args, ", ") + ")"

	body := ctx.StatementToCode(b, "STACK")
	if b.Type == "procedures_defreturn" {
		v, err := ctx.ValueOr(b, "RETURN", generator.OrderNone, "0")
		if err != nil {
			return "", err
		}
		body += generator.Indent + "return " + v + ";\n"
	}

	ctx.MethodDeclarations.Set(name, signature+";")
	ctx.Methods.Set(name, ctx.TakeComments(b)+signature+" {\n"+body+"}")
	return "", nil
}

func callProcedure(ctx *generator.Context, b *workspace.Block) (string, error) {
	if findProcedure(ctx.Workspace(), b.Field("NAME")) == nil {
		return "", missingProcedure(b.Field("NAME"))
	}
	var args []string
	for i := range params(b) {
		v, err := ctx.ValueOr(b, "ARG"+strconv.Itoa(i), generator.OrderNone, "0")
		if err != nil {
			return "", err
		}
		args = append(args, v)
	}
	return identifier(b.Field("NAME")) + "(" + strings.Join(args, ", ") + ")", nil
}

func missingProcedure(name string) *generator.Diagnostic {
	return generator.Errorf("Missing function definition for %s!", strconv.Quote(name))
}

func checkCall(ws *workspace.Workspace, b *workspace.Block) *generator.Diagnostic {
	if findProcedure(ws, b.Field("NAME")) != nil {
		return nil
	}
	d := missingProcedure(b.Field("NAME"))
	d.Severity = generator.SeverityWarning
	return d
}

// cogNew starts the function called in METHOD on a new cog. With WHEN set
// to STARTUP the launch moves to the top of main().
func cogNew(ctx *generator.Context, b *workspace.Block) (string, error) {
	call := b.Input("METHOD")
	if call == nil || call.Type != "procedures_callnoreturn" {
		return "", generator.Errorf("A new cog must start a function call!")
	}
	if findProcedure(ctx.Workspace(), call.Field("NAME")) == nil {
		return "", missingProcedure(call.Field("NAME"))
	}
	stack, err := fieldInt(b, "STACK", DefaultCogStack)
	if err != nil {
		return "", err
	}

	name := identifier(call.Field("NAME"))
	ctx.CogMethods.Set(name, name)
	code := "cog_run(" + name + ", " + strconv.Itoa(stack) + ");"
	if b.Field("WHEN") == "STARTUP" {
		ctx.CogSetups.Set(name, ctx.TakeComments(b)+code)
		return "", nil
	}
	return code + "\n", nil
}
