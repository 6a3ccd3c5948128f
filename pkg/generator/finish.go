package generator

import (
	"regexp"
	"strings"

	"propc/pkg/ctext"
)

// Section banners of the generated translation unit.
const (
	BannerLibraries = "// ------ Libraries and Definitions ------"
	BannerGlobals   = "// ------ Global Variables and Objects ------"
	BannerPrototype = "// ------ Function Declarations ------"
	BannerMain      = "// ------ Main Program ------"
	BannerFunctions = "// ------ Functions ------"
)

// RawCodeMarker brackets user-supplied complete C source in the main body.
// When present, the finisher returns the bracketed text unchanged.
const RawCodeMarker = "//{{||}}"

// settingsMarkerRe matches editor hints such as /* SERIAL_TERMINAL USED */.
var settingsMarkerRe = regexp.MustCompile(`^/\* [A-Z][A-Z0-9_]* USED \*/$`)

// SettingsMarker returns the definitions fragment that tells the editor a
// program feature is in use, e.g. SettingsMarker("SERIAL_TERMINAL").
func SettingsMarker(feature string) string {
	return "/* " + feature + " USED */"
}

// finished is the output of Finish besides the source text.
type finished struct {
	settings  []string
	cogShared []string
}

// Finish assembles the collected symbol tables and the main body into one C
// translation unit.
func (c *Context) Finish(body string) string {
	src, _ := c.finish(body)
	return src
}

func (c *Context) finish(body string) (string, finished) {
	var info finished
	if raw, ok := ExtractRaw(body); ok {
		return raw, info
	}

	// Imports, editor settings markers and plain declarations.
	var imports []string
	var plain []Entry
	seenDirective := make(map[string]bool)
	for _, e := range c.Definitions.Entries() {
		code := strings.TrimSpace(e.Code)
		switch {
		case code == "":
		case settingsMarkerRe.MatchString(code):
			info.settings = append(info.settings, code)
		case ctext.IsDirective(code):
			if key := directiveKey(code); key != "" {
				if seenDirective[key] {
					continue
				}
				seenDirective[key] = true
			}
			imports = append(imports, code)
		default:
			plain = append(plain, e)
		}
	}

	// Block-declared globals first, then plain definitions, then variables
	// synthesised from the tracked variable table.
	decls := c.GlobalVars.Entries()
	decls = append(decls, plain...)
	for _, name := range c.Vars.Declared() {
		if d, ok := c.Vars.Declaration(name); ok {
			decls = append(decls, Entry{Key: "var " + name, Code: d})
		}
	}

	var declarations []string
	var names [][]string
	for _, e := range decls {
		code, keep := c.Vars.resolvePlaceholders(e.Code)
		if !keep {
			continue
		}
		if !e.Verbatim {
			code = c.normalizeDeclaration(code)
		}
		code = strings.TrimRight(code, "\n")
		if strings.TrimSpace(code) == "" {
			continue
		}
		declarations = append(declarations, code)
		names = append(names, declaredNames(code))
	}

	var allNames []string
	for _, ns := range names {
		allNames = append(allNames, ns...)
	}
	info.cogShared = c.cogShared(allNames)
	if c.Options.VolatileCogVars && len(info.cogShared) > 0 {
		shared := make(map[string]bool, len(info.cogShared))
		for _, n := range info.cogShared {
			shared[n] = true
		}
		for i, d := range declarations {
			if strings.HasPrefix(d, "volatile ") {
				continue
			}
			for _, n := range names[i] {
				if shared[n] {
					declarations[i] = "volatile " + d
					break
				}
			}
		}
	}

	var sb strings.Builder
	if len(info.settings) > 0 {
		sb.WriteString(strings.Join(info.settings, "\n"))
		sb.WriteString("\n\n")
	}
	writeSection(&sb, BannerLibraries, imports)
	writeSection(&sb, BannerGlobals, declarations)
	writeSection(&sb, BannerPrototype, trimAll(c.MethodDeclarations.All()))

	var main strings.Builder
	for _, s := range c.Setups.All() {
		main.WriteString(ensureNewline(s))
	}
	for _, s := range c.CogSetups.All() {
		main.WriteString(ensureNewline(s))
	}
	main.WriteString(body)
	mainBody := normalizeBody(PrefixLines(main.String(), Indent))
	mainBody = rewriteStringAssignments(mainBody)

	sb.WriteString(BannerMain)
	sb.WriteString("\nint main() {\n")
	sb.WriteString(ensureNewline(mainBody))
	sb.WriteString("}\n")

	if c.Methods.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(BannerFunctions)
		sb.WriteString("\n")
		var fns []string
		for _, m := range c.Methods.All() {
			fns = append(fns, strings.TrimRight(rewriteStringAssignments(m), "\n"))
		}
		sb.WriteString(strings.Join(fns, "\n\n"))
		sb.WriteString("\n")
	}
	return sb.String(), info
}

// directiveKey identifies single-line includes and defines so that the same
// header or macro is emitted once even when it was registered under
// different keys.
func directiveKey(code string) string {
	if strings.Contains(code, "\n") {
		return ""
	}
	if path, ok := ctext.IncludePath(code); ok {
		return "include " + path
	}
	if name, ok := ctext.DefineName(code); ok {
		return "define " + name
	}
	return ""
}

func writeSection(sb *strings.Builder, banner string, lines []string) {
	if len(lines) == 0 {
		return
	}
	sb.WriteString(banner)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")
}

func trimAll(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimRight(s, "\n"); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// ExtractRaw returns the user source bracketed by RawCodeMarker in body.
func ExtractRaw(body string) (string, bool) {
	start := strings.Index(body, RawCodeMarker)
	if start < 0 {
		return "", false
	}
	rest := body[start+len(RawCodeMarker):]
	rest = strings.TrimPrefix(rest, "\n")
	if end := strings.Index(rest, RawCodeMarker); end >= 0 {
		rest = rest[:end]
		rest = strings.TrimSuffix(rest, "\n")
	}
	return rest, true
}

// declaredNames returns the identifiers a file-scope declaration
// introduces, one per declarator: "int a, b = 2, c[4];" gives a, b and c.
func declaredNames(decl string) []string {
	var names []string
	name, depth, fixed := "", 0, false
	flush := func() {
		if name != "" {
			names = append(names, name)
		}
		name, fixed = "", false
	}
	for _, tok := range ctext.Scan(decl) {
		switch {
		case tok.Kind == ctext.Ident && depth == 0 && !fixed && !ctext.IsKeyword(tok.Lexeme):
			name = tok.Lexeme
		case tok.Kind != ctext.Punct:
		case tok.Lexeme == "(" || tok.Lexeme == "[" || tok.Lexeme == "{":
			if depth == 0 {
				fixed = true
			}
			depth++
		case tok.Lexeme == ")" || tok.Lexeme == "]" || tok.Lexeme == "}":
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case tok.Lexeme == "=":
			fixed = true
		case tok.Lexeme == ",":
			flush()
		case tok.Lexeme == ";":
			flush()
			return names
		}
	}
	flush()
	return names
}

// cogShared lists the declared names that are referenced from the body of
// any function launched into another cog, in declaration order.
func (c *Context) cogShared(declared []string) []string {
	used := make(map[string]bool)
	for _, fn := range c.CogMethods.Keys() {
		body, ok := c.Methods.Get(fn)
		if !ok {
			continue
		}
		for _, id := range ctext.Identifiers(body) {
			used[id] = true
		}
	}
	var out []string
	seen := make(map[string]bool)
	for _, n := range declared {
		if n != "" && used[n] && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
