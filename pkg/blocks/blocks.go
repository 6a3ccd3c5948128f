// Package blocks holds the emitters for the PropC block catalog. Each file
// registers one family of blocks with a generator.Registry.
package blocks

import (
	"regexp"
	"strconv"
	"strings"

	"propc/pkg/ctext"
	"propc/pkg/generator"
	"propc/pkg/workspace"
)

// Register adds every block of the catalog to r.
func Register(r *generator.Registry) {
	registerControl(r)
	registerMath(r)
	registerLogic(r)
	registerVariables(r)
	registerArrays(r)
	registerText(r)
	registerProcedures(r)
	registerIO(r)
	registerSensors(r)
	registerCustom(r)
}

// Default returns a registry holding the full catalog.
func Default() *generator.Registry {
	r := generator.NewRegistry()
	Register(r)
	return r
}

var nonIdentRe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// identifier turns a user-visible name ("my counter") into a C identifier
// ("my_counter").
func identifier(name string) string {
	if ctext.IsIdentifier(name) && !ctext.IsKeyword(name) {
		return name
	}
	id := nonIdentRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if id == "" {
		return "_"
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	if ctext.IsKeyword(id) {
		id += "_"
	}
	return id
}

// fieldInt parses a numeric field, falling back to def when it is empty.
func fieldInt(b *workspace.Block, name string, def int) (int, error) {
	v := strings.TrimSpace(b.Field(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, generator.Errorf("%s must be a whole number, got %q", name, v)
	}
	return n, nil
}

// pinOf returns the pin expression of b: a plugged PIN value, else the PIN
// dropdown field.
func pinOf(ctx *generator.Context, b *workspace.Block) (string, error) {
	if b.Input("PIN") != nil {
		return ctx.ValueOr(b, "PIN", generator.OrderNone, "0")
	}
	pin := strings.TrimSpace(b.Field("PIN"))
	if pin == "" {
		return "", generator.Errorf("Missing pin number!")
	}
	return pin, nil
}

// hasBlock reports whether an enabled block of typ with field == value
// exists anywhere in ws.
func hasBlock(ws *workspace.Workspace, typ, field, value string) bool {
	for _, b := range ws.EnabledBlocks() {
		if b.Type == typ && b.Field(field) == value {
			return true
		}
	}
	return false
}

// insideAny reports whether b is nested, at any depth, in a block whose type
// is one of types.
func insideAny(b *workspace.Block, types ...string) bool {
	for cur := b; cur.Parent() != nil; cur = cur.Parent() {
		p := cur.Parent()
		if p.Next == cur {
			continue
		}
		for _, t := range types {
			if p.Type == t {
				return true
			}
		}
	}
	return false
}

// cDecl joins a C type and a name: "int x", "char *x".
func cDecl(typ, name string) string {
	if strings.HasSuffix(typ, "*") {
		return typ + name
	}
	return typ + " " + name
}

// commentLines prefixes every line of text with "// ".
func commentLines(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString("// ")
		sb.WriteString(strings.TrimRight(line, " \t\r"))
		sb.WriteByte('\n')
	}
	return sb.String()
}
