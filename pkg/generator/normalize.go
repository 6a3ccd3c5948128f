package generator

import (
	"regexp"
	"strconv"
	"strings"
)

// Textual clean-up passes over assembled C. They mirror what users of the
// block editor expect to see and what the target runtime tolerates.

var (
	pauseZeroRe   = regexp.MustCompile(`(// )?\bpause\(0\);`)
	floatIntRe    = regexp.MustCompile(`\(float\)\s*\(int\)`)
	doubleParenRe = regexp.MustCompile(`\(\(([^()]*)\)\)`)

	// name = "text";  (name may be indexed: buf[2] = "x";)
	stringAssignRe = regexp.MustCompile(`(?m)^([ \t]*)([A-Za-z_]\w*(?:\[[^\]]*\])?)[ \t]*=[ \t]*(".*");[ \t]*$`)
	commaQuoteRe   = regexp.MustCompile(`,\s*"`)

	charPtrDeclRe   = regexp.MustCompile(`^(\s*)char\s*\*\s*([A-Za-z_]\w*)\s*;\s*$`)
	charArrayDeclRe = regexp.MustCompile(`^(\s*)char\s+([A-Za-z_]\w*)\s*\[\s*\d*\s*\]\s*;\s*$`)
)

// commentPauseZero disables pause(0) calls, which hang the target runtime.
func commentPauseZero(code string) string {
	return pauseZeroRe.ReplaceAllStringFunc(code, func(m string) string {
		if strings.HasPrefix(m, "// ") {
			return m
		}
		return "// " + m
	})
}

// collapseFloatCasts drops the int cast in "(float)(int)x".
func collapseFloatCasts(code string) string {
	return floatIntRe.ReplaceAllString(code, "(float)")
}

// collapseParens rewrites ((X)) as (X) until nothing changes.
func collapseParens(code string) string {
	for {
		next := doubleParenRe.ReplaceAllString(code, "($1)")
		if next == code {
			return code
		}
		code = next
	}
}

// normalizeBody applies the main-body clean-ups in order.
func normalizeBody(code string) string {
	code = commentPauseZero(code)
	code = collapseFloatCasts(code)
	return collapseParens(code)
}

// rewriteStringAssignments turns `name = "text";` into strcpy calls, since
// string variables are fixed char buffers. A right-hand side holding a comma
// followed by a quote looks like an argument list and is left alone.
func rewriteStringAssignments(code string) string {
	return stringAssignRe.ReplaceAllStringFunc(code, func(line string) string {
		m := stringAssignRe.FindStringSubmatch(line)
		indent, target, rhs := m[1], m[2], m[3]
		if commaQuoteRe.MatchString(rhs) {
			return line
		}
		return indent + "strcpy(" + target + ", " + rhs + ");"
	})
}

// normalizeDeclaration rewrites string pointers into fixed-size buffers and
// applies explicit string sizes, line by line.
func (c *Context) normalizeDeclaration(decl string) string {
	lines := strings.Split(decl, "\n")
	for i, line := range lines {
		if m := charPtrDeclRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			if strings.HasPrefix(name, "__") || c.keepPointer(name) {
				continue
			}
			lines[i] = m[1] + "char " + name + "[" + strconv.Itoa(c.stringSize(name)) + "];"
			continue
		}
		if m := charArrayDeclRe.FindStringSubmatch(line); m != nil {
			if n, ok := c.Vars.StringSize(m[2]); ok {
				lines[i] = m[1] + "char " + m[2] + "[" + strconv.Itoa(n) + "];"
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (c *Context) keepPointer(name string) bool {
	for _, k := range c.Options.KeepPointers {
		if k == name {
			return true
		}
	}
	return false
}

func (c *Context) stringSize(name string) int {
	if n, ok := c.Vars.StringSize(name); ok {
		return n
	}
	if c.Options.DefaultStringSize > 0 {
		return c.Options.DefaultStringSize
	}
	return DefaultStringSize
}
