package blocks

import (
	"testing"

	"propc/pkg/workspace"
)

func custom(id, loc, code string) *workspace.Block {
	return workspace.NewBlock("custom_code").WithID(id).WithField("LOC", loc).WithField("CODE", code)
}

func TestCustomCodeLocations(t *testing.T) {
	src := generate(workspace.Chain(
		custom("c1", "INCLUDES", `#include "mylib.h"`),
		custom("c2", "GLOBALS", "char *raw;"),
		custom("c3", "SETUPS", "mylib_init();"),
		custom("c4", "MAIN", "mylib_tick();"),
		custom("c5", "FUNCTIONS", "void helper() {\n}"),
	)).Source

	assertContains(t, src, "#include \"simpletools.h\"\n#include \"mylib.h\"\n")
	assertContains(t, src, "char *raw;\n")
	assertNotContains(t, src, "char raw[64];")
	assertContains(t, src, "int main() {\n  mylib_init();\n  mylib_tick();\n}\n")
	assertContains(t, src, "void helper() {\n}\n")
}

func TestCustomCodeDistinctBlocks(t *testing.T) {
	src := generate(workspace.Chain(
		custom("a", "GLOBALS", "int x;"),
		custom("b", "GLOBALS", "int y;"),
	)).Source
	assertContains(t, src, "int x;\nint y;\n")
}

func TestCustomCodeUnknownLocation(t *testing.T) {
	src := generate(custom("c", "ATTIC", "x();")).Source
	assertContains(t, src, "  // ERROR: Unknown custom code location \"ATTIC\"\n")
}

func TestRawPassthrough(t *testing.T) {
	code := "#include \"simpletools.h\"\n\nint main() {\n  print(\"hi\");\n  x = ((y));\n}\n"
	src := generate(workspace.Chain(
		soundInit("5"),
		workspace.NewBlock("propc_file").WithField("CODE", code),
	)).Source
	if src != code {
		t.Errorf("raw source not passed through verbatim.\nGot:\n%q\nWant:\n%q", src, code)
	}
}
