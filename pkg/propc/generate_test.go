package propc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propc/pkg/generator"
	"propc/pkg/workspace"
)

func TestGoldenPrograms(t *testing.T) {
	for _, name := range []string{"blink", "clap_counter"} {
		t.Run(name, func(t *testing.T) {
			want, err := os.ReadFile(filepath.Join("testdata", name+".c"))
			if err != nil {
				t.Fatalf("Failed to read golden file: %v", err)
			}
			res, err := GenerateFile(filepath.Join("testdata", name+".xml"), generator.DefaultOptions())
			if err != nil {
				t.Fatalf("GenerateFile failed: %v", err)
			}
			if res.Source != string(want) {
				t.Errorf("generated source differs from %s.c\nGot:\n%s\nWant:\n%s", name, res.Source, want)
			}
			if len(res.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
			}
		})
	}
}

const twoInits = `<xml xmlns="https://developers.google.com/blockly/xml">
  <block type="sound_impact_run" id="a">
    <field name="PIN">5</field>
    <next>
      <block type="sound_impact_run" id="b"><field name="PIN">5</field></block>
    </next>
  </block>
</xml>`

const getWithoutInit = `<xml xmlns="https://developers.google.com/blockly/xml">
  <block type="variables_set" id="set">
    <field name="VAR">level</field>
    <value name="VALUE"><block type="sound_impact_get" id="get"></block></value>
  </block>
</xml>`

func mustParse(t *testing.T, src string) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.ParseXML([]byte(src))
	if err != nil {
		t.Fatalf("ParseXML failed: %v", err)
	}
	return ws
}

func TestScenario_DuplicateInit(t *testing.T) {
	src := Generate(mustParse(t, twoInits))
	if n := strings.Count(src, `#include "soundimpact.h"`); n != 1 {
		t.Errorf("expected exactly one include, got %d\n%s", n, src)
	}
	if n := strings.Count(src, "soundImpact_run("); n != 1 {
		t.Errorf("expected exactly one soundImpact_run, got %d\n%s", n, src)
	}
}

func TestScenario_GetWithoutInit(t *testing.T) {
	ws := mustParse(t, getWithoutInit)
	res := GenerateWith(ws, generator.DefaultOptions())

	var errLines []string
	for _, line := range strings.Split(res.Source, "\n") {
		if strings.Contains(line, "ERROR") {
			errLines = append(errLines, strings.TrimSpace(line))
		}
	}
	if len(errLines) != 1 || errLines[0] != "// ERROR: Missing sound impact sensor initialize block!" {
		t.Errorf("unexpected error lines %q\n%s", errLines, res.Source)
	}
	if strings.Contains(res.Source, "soundImpact_getCount()") {
		t.Errorf("getter must not be emitted:\n%s", res.Source)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].BlockID != "get" {
		t.Errorf("unexpected diagnostics %v", res.Diagnostics)
	}

	badges := Check(ws)
	if len(badges) != 1 || badges[0].BlockID != "get" {
		t.Errorf("unexpected badges %v", badges)
	}
}

func TestScenario_RawPassthrough(t *testing.T) {
	raw := "#include \"simpletools.h\"\n\nint main() {\n  while(1) {\n    high(26);\n  }\n}"
	ws := workspace.New(workspace.NewBlock("propc_file").WithField("CODE", raw))
	if got := Generate(ws); got != raw {
		t.Errorf("raw code changed.\nGot:\n%q\nWant:\n%q", got, raw)
	}
}

func TestGenerateFile_Errors(t *testing.T) {
	if _, err := GenerateFile(filepath.Join(t.TempDir(), "missing.xml"), generator.DefaultOptions()); err == nil {
		t.Errorf("expected an error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.xml")
	if err := os.WriteFile(bad, []byte("<xml><block"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := GenerateFile(bad, generator.DefaultOptions()); err == nil {
		t.Errorf("expected an error for malformed XML")
	}
}

func TestWriteSource(t *testing.T) {
	res := GenerateWith(mustParse(t, twoInits), generator.DefaultOptions())
	out := filepath.Join(t.TempDir(), "out.c")
	if err := WriteSource(out, res); err != nil {
		t.Fatalf("WriteSource failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != res.Source {
		t.Errorf("written file differs from the generated source")
	}

	if err := WriteSource(filepath.Join(t.TempDir(), "no", "such", "dir", "out.c"), res); err == nil {
		t.Errorf("expected an error for a missing directory")
	}
}
