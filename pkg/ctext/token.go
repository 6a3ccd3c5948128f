// Package ctext scans generated C text. It is deliberately tolerant: the
// generator never fails on malformed fragments, so neither does the scanner.
package ctext

import "fmt"

// Kind identifies the category of a scanned token.
type Kind int

const (
	EOF        Kind = iota // sentinel: end of input
	Ident                  // identifier or keyword
	Number                 // integer or floating literal
	String                 // "..." including quotes
	Char                   // '...' including quotes
	Punct                  // operator or delimiter, one or more runes
	Directive              // a whole preprocessor line, e.g. #include "x.h"
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	Ident:     "Ident",
	Number:    "Number",
	String:    "String",
	Char:      "Char",
	Punct:     "Punct",
	Directive: "Directive",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexeme with its 1-based source line.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Line)
}

// keywords are C words that never name a program variable.
var keywords = map[string]bool{
	"int": true, "char": true, "float": true, "double": true, "long": true,
	"short": true, "unsigned": true, "signed": true, "void": true,
	"if": true, "else": true, "while": true, "do": true, "for": true,
	"return": true, "struct": true, "switch": true, "case": true,
	"default": true, "break": true, "continue": true, "volatile": true,
	"const": true, "static": true, "extern": true, "sizeof": true,
	"goto": true, "typedef": true, "enum": true, "union": true,
}

// IsKeyword reports whether word is a reserved C keyword.
func IsKeyword(word string) bool {
	return keywords[word]
}
