package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"propc/pkg/generator"
)

// View is a scrollable window over the lines of the generated source.
type View struct {
	lines []string
	top   int
	rows  int
}

func NewView(rows int) *View {
	v := &View{}
	v.SetRows(rows)
	return v
}

// SetSource replaces the text, keeping the scroll position where possible.
func (v *View) SetSource(src string) {
	src = strings.TrimRight(src, "\n")
	if src == "" {
		v.lines = nil
	} else {
		v.lines = strings.Split(src, "\n")
	}
	v.clamp()
}

func (v *View) SetRows(rows int) {
	if rows < 1 {
		rows = 1
	}
	v.rows = rows
	v.clamp()
}

func (v *View) Scroll(delta int) {
	v.top += delta
	v.clamp()
}

func (v *View) Home() { v.top = 0 }

func (v *View) End() {
	v.top = len(v.lines)
	v.clamp()
}

// Page scrolls by whole screens.
func (v *View) Page(n int) { v.Scroll(n * v.rows) }

func (v *View) clamp() {
	maxTop := len(v.lines) - v.rows
	if maxTop < 0 {
		maxTop = 0
	}
	if v.top > maxTop {
		v.top = maxTop
	}
	if v.top < 0 {
		v.top = 0
	}
}

// Visible returns the lines on screen and the 1-based number of the first.
func (v *View) Visible() ([]string, int) {
	end := v.top + v.rows
	if end > len(v.lines) {
		end = len(v.lines)
	}
	return v.lines[v.top:end], v.top + 1
}

func (v *View) Total() int { return len(v.lines) }

// statusLine summarises a generation result for the bottom bar.
func statusLine(path string, res *generator.Result, v *View) string {
	errs, warns := 0, 0
	for _, d := range res.Diagnostics {
		if d.Severity == generator.SeverityError {
			errs++
		} else {
			warns++
		}
	}
	shown, start := v.Visible()
	end := start + len(shown) - 1
	if len(shown) == 0 {
		start, end = 0, 0
	}
	return fmt.Sprintf("%s  lines %d-%d/%d  errors %d  warnings %d", path, start, end, v.Total(), errs, warns)
}

// watchFile signals on changed whenever the modification time or size of
// path differs from the last observation. It returns when stop is closed.
func watchFile(path string, interval time.Duration, changed chan<- struct{}, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastMod time.Time
	var lastSize int64
	if fi, err := os.Stat(path); err == nil {
		lastMod, lastSize = fi.ModTime(), fi.Size()
	}
	for {
		select {
		case <-ticker.C:
			fi, err := os.Stat(path)
			if err != nil {
				continue
			}
			if fi.ModTime().Equal(lastMod) && fi.Size() == lastSize {
				continue
			}
			lastMod, lastSize = fi.ModTime(), fi.Size()
			select {
			case changed <- struct{}{}:
			default:
			}
		case <-stop:
			return
		}
	}
}

func isDiagnosticLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "// ERROR:") || strings.HasPrefix(trimmed, "// WARNING:")
}
