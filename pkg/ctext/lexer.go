package ctext

import (
	"strings"
	"unicode"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src       []rune
	pos       int // index of the next rune to consume
	line      int // current 1-based source line
	lineStart bool
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1, lineStart: true}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.lineStart = true
	} else if !unicode.IsSpace(r) {
		l.lineStart = false
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything up to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/",
// or to end of input when the comment is never closed.
func (l *Lexer) skipBlockComment() {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	return Token{Kind: Ident, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanNumber collects decimal, hex, binary and floating literals together
// with any suffix letters (10u, 1.5f, 0x1F).
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if unicode.IsDigit(r) || unicode.IsLetter(r) || r == '.' || r == '_' {
			l.advance()
			continue
		}
		break
	}
	return Token{Kind: Number, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanQuoted collects a string or character literal, keeping escapes as
// written. An unterminated literal ends at the line break.
func (l *Lexer) scanQuoted(quote rune, kind Kind) Token {
	line := l.line
	start := l.pos
	l.advance() // opening quote
	for l.pos < len(l.src) {
		r := l.peek()
		if r == '\n' {
			break
		}
		if r == '\\' {
			l.advance()
			l.advance()
			continue
		}
		l.advance()
		if r == quote {
			break
		}
	}
	return Token{Kind: kind, Lexeme: string(l.src[start:l.pos]), Line: line}
}

func (l *Lexer) scanDirective() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) {
		// Backslash-newline continues a directive.
		if l.peek() == '\\' && l.peek2() == '\n' {
			l.advance()
			l.advance()
			continue
		}
		if l.peek() == '\n' {
			break
		}
		l.advance()
	}
	return Token{Kind: Directive, Lexeme: strings.TrimSpace(string(l.src[start:l.pos])), Line: line}
}

var punct2 = map[string]bool{
	"++": true, "--": true, "+=": true, "-=": true, "*=": true, "/=": true,
	"%=": true, "&=": true, "|=": true, "^=": true, "&&": true, "||": true,
	"==": true, "!=": true, "<=": true, ">=": true, "<<": true, ">>": true,
	"->": true,
}

// nextToken skips whitespace and comments and returns the next Token.
func (l *Lexer) nextToken() Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.src) {
			return Token{Kind: EOF, Line: l.line}
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			l.skipBlockComment()
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	switch {
	case ch == '#' && l.lineStart:
		return l.scanDirective()
	case unicode.IsLetter(ch) || ch == '_':
		return l.scanIdent()
	case unicode.IsDigit(ch):
		return l.scanNumber()
	case ch == '.' && unicode.IsDigit(l.peek2()):
		return l.scanNumber()
	case ch == '"':
		return l.scanQuoted('"', String)
	case ch == '\'':
		return l.scanQuoted('\'', Char)
	}

	l.advance()
	if pair := string([]rune{ch, l.peek()}); punct2[pair] {
		l.advance()
		return Token{Kind: Punct, Lexeme: pair, Line: line}
	}
	return Token{Kind: Punct, Lexeme: string(ch), Line: line}
}

// Scan tokenises src and returns all tokens including the final EOF token.
func Scan(src string) []Token {
	l := newLexer(src)
	var tokens []Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens
		}
	}
}

// Identifiers returns the distinct non-keyword identifiers of src in
// first-seen order. Identifiers inside strings, comments and directives are
// not reported.
func Identifiers(src string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Scan(src) {
		if tok.Kind != Ident || IsKeyword(tok.Lexeme) || seen[tok.Lexeme] {
			continue
		}
		seen[tok.Lexeme] = true
		out = append(out, tok.Lexeme)
	}
	return out
}
