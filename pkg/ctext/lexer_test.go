package ctext

import (
	"reflect"
	"testing"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []Token{{Kind: EOF, Line: 1}},
		},
		{
			name:  "Assignment",
			input: "count += 1.5f;",
			expected: []Token{
				{Kind: Ident, Lexeme: "count", Line: 1},
				{Kind: Punct, Lexeme: "+=", Line: 1},
				{Kind: Number, Lexeme: "1.5f", Line: 1},
				{Kind: Punct, Lexeme: ";", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "Directive and string",
			input: "#include \"servo.h\"\nprint(\"a \\\"b\\\"\");",
			expected: []Token{
				{Kind: Directive, Lexeme: `#include "servo.h"`, Line: 1},
				{Kind: Ident, Lexeme: "print", Line: 2},
				{Kind: Punct, Lexeme: "(", Line: 2},
				{Kind: String, Lexeme: `"a \"b\""`, Line: 2},
				{Kind: Punct, Lexeme: ")", Line: 2},
				{Kind: Punct, Lexeme: ";", Line: 2},
				{Kind: EOF, Line: 2},
			},
		},
		{
			name:  "Comments skipped",
			input: "a // b\n/* c\nd */ e",
			expected: []Token{
				{Kind: Ident, Lexeme: "a", Line: 1},
				{Kind: Ident, Lexeme: "e", Line: 3},
				{Kind: EOF, Line: 3},
			},
		},
		{
			name:  "Unterminated input is tolerated",
			input: "x = 'q /* open",
			expected: []Token{
				{Kind: Ident, Lexeme: "x", Line: 1},
				{Kind: Punct, Lexeme: "=", Line: 1},
				{Kind: Char, Lexeme: "'q /* open", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
		{
			name:  "Hash inside a line is punctuation",
			input: "a # b",
			expected: []Token{
				{Kind: Ident, Lexeme: "a", Line: 1},
				{Kind: Punct, Lexeme: "#", Line: 1},
				{Kind: Ident, Lexeme: "b", Line: 1},
				{Kind: EOF, Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Scan(%q)\n got: %v\nwant: %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIdentifiers(t *testing.T) {
	src := `void blink() {
  while(1) {
    high(led);
    pause(delay);
    print("led %d", led); // count
    count++;
  }
}`
	got := Identifiers(src)
	want := []string{"blink", "high", "led", "pause", "delay", "print", "count"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers:\n got %v\nwant %v", got, want)
	}
}
