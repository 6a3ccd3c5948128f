// Package generator turns a block workspace into a PropC translation unit.
//
// Pipeline: workspace → inference pass (variable types) → emit pass (block
// emitters fill the symbol tables and return statement text) → Finish
// (symbol tables + main body → C source).
package generator

import (
	"log"
	"strings"

	"propc/pkg/workspace"
)

// DefaultStringSize is the buffer size given to string variables that have
// no explicit length.
const DefaultStringSize = 64

// Options configures a generation pass.
type Options struct {
	// VolatileCogVars prefixes "volatile " to file-scope variables that are
	// also used by functions running in another cog. Experimental.
	VolatileCogVars bool

	// EmbedDiagnostics puts "// ERROR: ..." comments in place of statements
	// that failed. Diagnostics are always returned in Result either way.
	EmbedDiagnostics bool

	// KeepPointers names char* variables that must stay pointers instead of
	// becoming fixed-size buffers.
	KeepPointers []string

	// DefaultStringSize is the buffer size of string variables; 0 means
	// DefaultStringSize.
	DefaultStringSize int

	// Includes are headers every program includes, in order.
	Includes []string

	// Log receives a trace of the pass. Nil disables tracing.
	Log *log.Logger
}

// DefaultOptions returns the options used by the editor.
func DefaultOptions() Options {
	return Options{
		EmbedDiagnostics:  true,
		DefaultStringSize: DefaultStringSize,
		Includes:          []string{"simpletools.h"},
	}
}

// Result is the outcome of one generation pass.
type Result struct {
	Source      string
	Diagnostics []Diagnostic

	// Settings are the editor markers found in the definitions, e.g.
	// "/* SERIAL_TERMINAL USED */".
	Settings []string

	// CogShared lists file-scope variables referenced by cog functions.
	CogShared []string

	Tables *Tables
	Vars   *VarTable
}

// HasErrors reports whether any error-level diagnostic was produced.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Generate runs a complete pass over ws with a fresh Context.
func Generate(ws *workspace.Workspace, reg *Registry, opts Options) *Result {
	return NewContext(ws, reg, opts).Run()
}

// Run performs the inference pass, the emit pass and Finish. Calling Run
// again starts over from a reset context.
func (c *Context) Run() *Result {
	if c.ran {
		c.Reset()
	}
	c.ran = true

	c.reg.infer(c.ws, c.Vars)
	c.logf("inference: %d variables typed", len(c.Vars.types))

	var body strings.Builder
	for _, top := range c.ws.Blocks {
		body.WriteString(c.BlockToCode(top))
	}
	c.logf("emit: %d top-level chains, %d diagnostics", len(c.ws.Blocks), len(c.diags))

	src, info := c.finish(body.String())
	c.logf("finish: %d bytes", len(src))

	return &Result{
		Source:      src,
		Diagnostics: c.Diagnostics(),
		Settings:    info.settings,
		CogShared:   info.cogShared,
		Tables:      c.Tables,
		Vars:        c.Vars,
	}
}

// Check runs the precondition checks of every enabled block without
// generating code. The editor shows the result as warning badges.
func Check(ws *workspace.Workspace, reg *Registry) []Diagnostic {
	var out []Diagnostic
	for _, b := range ws.EnabledBlocks() {
		if fn, ok := reg.checks[b.Type]; ok {
			if d := fn(ws, b); d != nil {
				out = append(out, *stamp(d, b))
			}
		}
	}
	return out
}
