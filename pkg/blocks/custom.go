package blocks

import (
	"strings"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

func registerCustom(r *generator.Registry) {
	r.Statement("custom_code", generator.StatementFunc(customCode))
	r.Statement("propc_file", generator.StatementFunc(func(ctx *generator.Context, b *workspace.Block) (string, error) {
		return generator.RawCodeMarker + "\n" + b.Field("CODE") + "\n" + generator.RawCodeMarker + "\n", nil
	}))
}

// customCode places user C text in the section named by LOC. Text placed in
// a symbol table is keyed by the block, so two blocks never collapse.
func customCode(ctx *generator.Context, b *workspace.Block) (string, error) {
	code := strings.TrimRight(b.Field("CODE"), "\n")
	if strings.TrimSpace(code) == "" {
		return "", nil
	}
	key := "__CUSTOM_" + b.ID
	if b.ID == "" {
		key = "__CUSTOM_" + code
	}

	switch loc := b.Field("LOC"); loc {
	case "", "MAIN":
		return code + "\n", nil
	case "INCLUDES":
		ctx.Definitions.SetVerbatim(key, code)
	case "GLOBALS":
		ctx.GlobalVars.SetVerbatim(key, code)
	case "SETUPS":
		ctx.Setups.SetVerbatim(key, code)
	case "FUNCTIONS":
		ctx.Methods.SetVerbatim(key, code)
	default:
		return "", generator.Errorf("Unknown custom code location %q", loc)
	}
	return "", nil
}
