package ctext

import "strings"

// directives lists the preprocessor keywords that route a fragment to the
// includes section of the generated file.
var directives = map[string]bool{
	"include": true,
	"define":  true,
	"undef":   true,
	"if":      true,
	"ifdef":   true,
	"ifndef":  true,
	"elif":    true,
	"else":    true,
	"endif":   true,
	"pragma":  true,
}

// DirectiveName returns the keyword of a preprocessor line ("include" for
// `#include "x.h"`, "define" for `# define X 1`), or "" when line is not a
// recognised directive.
func DirectiveName(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return ""
	}
	rest := strings.TrimLeft(trimmed[1:], " \t")
	end := 0
	for end < len(rest) && isIdentPart(rune(rest[end])) {
		end++
	}
	name := rest[:end]
	if !directives[name] {
		return ""
	}
	return name
}

// IsDirective reports whether the first non-blank line of fragment is a
// preprocessor directive.
func IsDirective(fragment string) bool {
	for _, line := range strings.Split(fragment, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return DirectiveName(line) != ""
	}
	return false
}

// IncludePath returns the header named by an #include line, without quotes
// or angle brackets.
func IncludePath(line string) (string, bool) {
	if DirectiveName(line) != "include" {
		return "", false
	}
	rest := strings.TrimSpace(line)
	rest = strings.TrimSpace(rest[strings.Index(rest, "include")+len("include"):])
	if len(rest) < 2 {
		return "", false
	}
	open, closeCh := rest[0], byte('"')
	switch open {
	case '"':
	case '<':
		closeCh = '>'
	default:
		return "", false
	}
	end := strings.IndexByte(rest[1:], closeCh)
	if end < 0 {
		return "", false
	}
	return rest[1 : end+1], true
}

// DefineName returns the macro name of a #define line.
func DefineName(line string) (string, bool) {
	if DirectiveName(line) != "define" {
		return "", false
	}
	rest := strings.TrimSpace(line)
	rest = strings.TrimLeft(rest[strings.Index(rest, "define")+len("define"):], " \t")
	end := 0
	for end < len(rest) && isIdentPart(rune(rest[end])) {
		end++
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// IsIdentifier reports whether s is a valid C identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
