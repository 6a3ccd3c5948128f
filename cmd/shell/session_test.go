package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const delayProgram = `<xml xmlns="https://developers.google.com/blockly/xml">
  <block type="base_delay" id="d">
    <value name="DELAY_TIME"><shadow type="math_number"><field name="NUM">250</field></shadow></value>
  </block>
</xml>`

const orphanGet = `<xml><block type="sound_impact_get" id="g"></block></xml>`

func writeWorkspace(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.xml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, s *session, line string) string {
	t.Helper()
	buf := s.out.(*bytes.Buffer)
	buf.Reset()
	if _, err := s.exec(line); err != nil {
		t.Fatalf("%s failed: %v", line, err)
	}
	return buf.String()
}

func TestSessionLoadGenerateSave(t *testing.T) {
	s := newSession(&bytes.Buffer{})
	path := writeWorkspace(t, delayProgram)

	if out := run(t, s, ":load "+path); !strings.Contains(out, "2 blocks") {
		t.Errorf("unexpected load output %q", out)
	}
	out := run(t, s, ":gen")
	if !strings.Contains(out, "int main() {\n  pause(250);\n}\n") {
		t.Errorf("unexpected source:\n%s", out)
	}
	if out := run(t, s, ":diag"); out != "no diagnostics\n" {
		t.Errorf("unexpected diagnostics %q", out)
	}
	if out := run(t, s, ":tables"); out == "" {
		t.Errorf("expected a table dump")
	}

	dest := filepath.Join(t.TempDir(), "prog.c")
	run(t, s, ":save "+dest)
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != s.res.Source {
		t.Errorf("saved file differs from the generated source")
	}
}

func TestSessionInspectAndExport(t *testing.T) {
	s := newSession(&bytes.Buffer{})
	run(t, s, ":load "+writeWorkspace(t, delayProgram))

	out := run(t, s, ":find base_delay")
	if out != "d\n1 base_delay blocks\n" {
		t.Errorf("unexpected find output %q", out)
	}
	out = run(t, s, ":show d")
	if !strings.Contains(out, `type="base_delay"`) || !strings.Contains(out, ">250<") {
		t.Errorf("unexpected show output %q", out)
	}
	if _, err := s.exec(":show nope"); err == nil {
		t.Errorf("expected an error for an unknown id")
	}

	dest := filepath.Join(t.TempDir(), "copy.xml")
	run(t, s, ":export "+dest)
	run(t, s, ":load "+dest)
	if out := run(t, s, ":gen"); !strings.Contains(out, "pause(250);") {
		t.Errorf("exported workspace does not generate the same program:\n%s", out)
	}
}

func TestSessionErrors(t *testing.T) {
	s := newSession(&bytes.Buffer{})
	tests := []struct {
		line string
		want string
	}{
		{":gen", "no workspace loaded"},
		{":check", "no workspace loaded"},
		{":tables", "nothing generated"},
		{":save out.c", "nothing generated"},
		{":load", "usage"},
		{":load " + filepath.Join(t.TempDir(), "missing.xml"), "missing.xml"},
		{":set volatile maybe", "expected on or off"},
		{":set strsize -1", "positive"},
		{":set colour red", "unknown option"},
		{":frobnicate", "unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := s.exec(tt.line)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("exec(%q) error = %v, want it to mention %q", tt.line, err, tt.want)
			}
		})
	}
}

func TestSessionCheckAndInline(t *testing.T) {
	s := newSession(&bytes.Buffer{})
	if err := s.loadInline(orphanGet); err != nil {
		t.Fatalf("loadInline failed: %v", err)
	}
	out := run(t, s, ":check")
	if !strings.Contains(out, "WARNING: Missing sound impact sensor initialize block!") {
		t.Errorf("unexpected check output %q", out)
	}

	run(t, s, ":set diag off")
	if s.opts.EmbedDiagnostics {
		t.Errorf("diag off did not disable embedded diagnostics")
	}
	out = run(t, s, ":gen")
	if strings.Contains(out, "// ERROR") {
		t.Errorf("diagnostic comment emitted with diag off:\n%s", out)
	}
	if out := run(t, s, ":diag"); !strings.Contains(out, "ERROR: Missing sound impact sensor initialize block!") {
		t.Errorf("unexpected diagnostics %q", out)
	}

	if err := s.loadInline("<xml><block"); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestSessionSetAndQuit(t *testing.T) {
	s := newSession(&bytes.Buffer{})
	run(t, s, ":set volatile on")
	run(t, s, ":set strsize 128")
	if !s.opts.VolatileCogVars || s.opts.DefaultStringSize != 128 {
		t.Errorf("options not applied: %+v", s.opts)
	}
	for _, line := range []string{":quit", ":q", ":exit"} {
		if quit, err := s.exec(line); !quit || err != nil {
			t.Errorf("exec(%q) = %v, %v", line, quit, err)
		}
	}
	if quit, err := s.exec("   "); quit || err != nil {
		t.Errorf("blank line = %v, %v", quit, err)
	}
}

func TestComplete(t *testing.T) {
	got := complete(":s")
	if len(got) != 2 || got[0] != ":save" || got[1] != ":set" {
		t.Errorf("complete(\":s\") = %q", got)
	}
	for _, c := range complete(":blocks sound_") {
		if !strings.HasPrefix(c, ":blocks sound_impact_") {
			t.Errorf("unexpected completion %q", c)
		}
	}
	if n := len(complete(":blocks sound_")); n != 3 {
		t.Errorf("expected 3 sound impact completions, got %d", n)
	}
}

func TestInlineComplete(t *testing.T) {
	tests := map[string]bool{
		"<xml>":                           false,
		"<xml>\n<block type=\"x\"/>":      false,
		"<xml>\n<block type=\"x\"/></xml>": true,
		"<xml/>":                          true,
	}
	for src, want := range tests {
		if got := inlineComplete(src); got != want {
			t.Errorf("inlineComplete(%q) = %v, want %v", src, got, want)
		}
	}
}
