package blocks

import (
	"testing"

	"propc/pkg/workspace"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"two\nlines", `"two\nlines"`},
		{`back\slash`, `"back\\slash"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStringBlocks(t *testing.T) {
	src := generate(workspace.Chain(
		setVar("s", text(`say "hi"`)),
		setVar("n", workspace.NewBlock("string_length").WithValue("VALUE", getVar("s"))),
		setVar("same", workspace.NewBlock("string_compare").WithField("OP", "EQ").
			WithValue("A", getVar("s")).WithValue("B", text("x"))),
	)).Source

	assertContains(t, src, `  strcpy(s, "say \"hi\"");`)
	assertContains(t, src, "  n = strlen(s);\n")
	assertContains(t, src, `  same = strcmp(s, "x") == 0;`)
	assertContains(t, src, "char s[64];\nint n;\nint same;\n")
}

func TestStringCompareOrder(t *testing.T) {
	cmp := workspace.NewBlock("string_compare").WithField("OP", "LT").
		WithValue("A", getVar("a")).WithValue("B", getVar("b"))
	b := workspace.NewBlock("logic_negate").WithValue("BOOL", cmp)
	assertContains(t, generate(setVar("r", b)).Source, "r = !(strcmp(a, b) < 0);")
}
