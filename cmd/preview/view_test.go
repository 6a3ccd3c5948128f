package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"propc/pkg/generator"
)

func numbered(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		sb.WriteString("line")
		sb.WriteString(strings.Repeat("x", i))
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestViewScrollClamps(t *testing.T) {
	v := NewView(4)
	v.SetSource(numbered(10))

	tests := []struct {
		name      string
		action    func()
		wantFirst int
	}{
		{"start", func() {}, 1},
		{"down", func() { v.Scroll(2) }, 3},
		{"past end", func() { v.Scroll(100) }, 7},
		{"page up", func() { v.Page(-1) }, 3},
		{"before start", func() { v.Scroll(-100) }, 1},
		{"end", func() { v.End() }, 7},
		{"home", func() { v.Home() }, 1},
	}
	for _, tt := range tests {
		tt.action()
		lines, first := v.Visible()
		if first != tt.wantFirst {
			t.Errorf("%s: first line = %d, want %d", tt.name, first, tt.wantFirst)
		}
		if len(lines) != 4 {
			t.Errorf("%s: %d visible lines, want 4", tt.name, len(lines))
		}
	}
}

func TestViewShortSource(t *testing.T) {
	v := NewView(20)
	v.SetSource("a\nb\n")
	v.Scroll(5)
	lines, first := v.Visible()
	if first != 1 || len(lines) != 2 || lines[1] != "b" {
		t.Errorf("Visible() = %q, %d", lines, first)
	}

	v.SetSource("")
	if lines, _ := v.Visible(); len(lines) != 0 || v.Total() != 0 {
		t.Errorf("expected an empty view, got %q", lines)
	}
}

func TestViewKeepsPositionOnReload(t *testing.T) {
	v := NewView(3)
	v.SetSource(numbered(10))
	v.Scroll(5)
	v.SetSource(numbered(12))
	if _, first := v.Visible(); first != 6 {
		t.Errorf("first line after reload = %d, want 6", first)
	}
	v.SetSource(numbered(4))
	if _, first := v.Visible(); first != 2 {
		t.Errorf("first line after shrinking = %d, want 2", first)
	}
}

func TestStatusLine(t *testing.T) {
	v := NewView(2)
	v.SetSource("a\nb\nc\n")
	res := &generator.Result{Diagnostics: []generator.Diagnostic{
		{Severity: generator.SeverityError, Message: "e"},
		{Severity: generator.SeverityWarning, Message: "w1"},
		{Severity: generator.SeverityWarning, Message: "w2"},
	}}
	got := statusLine("prog.xml", res, v)
	want := "prog.xml  lines 1-2/3  errors 1  warnings 2"
	if got != want {
		t.Errorf("statusLine() = %q, want %q", got, want)
	}
}

func TestIsDiagnosticLine(t *testing.T) {
	tests := map[string]bool{
		"  // ERROR: Missing pin number!": true,
		"// WARNING: Unknown block":       true,
		"// a comment":                    false,
		"  high(26);":                     false,
	}
	for line, want := range tests {
		if got := isDiagnosticLine(line); got != want {
			t.Errorf("isDiagnosticLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestWatchFileSignalsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.xml")
	if err := os.WriteFile(path, []byte("<xml/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 1)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		watchFile(path, 5*time.Millisecond, changed, stop)
		close(done)
	}()

	// let the watcher record the initial state
	time.Sleep(20 * time.Millisecond)
	select {
	case <-changed:
		t.Fatalf("unexpected change signal before the file was modified")
	default:
	}

	if err := os.WriteFile(path, []byte("<xml></xml>"), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatalf("no change signal after modifying the file")
	}

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("watcher did not stop")
	}
}
