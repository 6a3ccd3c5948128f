package generator

import (
	"propc/pkg/workspace"
)

// Context carries all mutable state of one generation pass. A fresh Context
// is created for every pass and handed to every emitter, so passes never
// share symbol tables.
type Context struct {
	*Tables
	Vars    *VarTable
	Options Options

	ws    *workspace.Workspace
	reg   *Registry
	diags []Diagnostic
	taken map[*workspace.Block]bool
	ran   bool
}

// NewContext returns a reset context for generating ws with reg.
func NewContext(ws *workspace.Workspace, reg *Registry, opts Options) *Context {
	if ws == nil {
		ws = workspace.New()
	}
	c := &Context{
		Tables:  NewTables(),
		Vars:    NewVarTable(),
		Options: opts,
		ws:      ws,
		reg:     reg,
	}
	c.Reset()
	return c
}

// Reset clears every symbol table, the variable table and the collected
// diagnostics, then registers the default includes.
func (c *Context) Reset() {
	c.Tables.Reset()
	c.Vars.Reset()
	c.diags = nil
	c.taken = make(map[*workspace.Block]bool)
	for _, h := range c.Options.Includes {
		c.Definitions.Set(h, `#include "`+h+`"`)
	}
}

func (c *Context) Workspace() *workspace.Workspace { return c.ws }
func (c *Context) Registry() *Registry             { return c.reg }

// Diagnostics returns the problems reported so far, in emission order.
func (c *Context) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// AddDiagnostic records d against b without replacing any generated code.
func (c *Context) AddDiagnostic(b *workspace.Block, d *Diagnostic) {
	d = stamp(d, b)
	c.diags = append(c.diags, *d)
	c.logf("%s", d.Error())
}

// DeclareVariable requests a file-scope declaration for name. The type is
// whatever the inference pass tracked for it.
func (c *Context) DeclareVariable(name string) {
	c.Vars.Declare(name)
}

// Inference gives emitters the type queries of the inference pass, backed
// by the variable table it produced.
func (c *Context) Inference() *Inference {
	return newInference(c.ws, c.Vars, c.reg)
}

// TypeOf reports the C type a value block evaluates to, or "" when unknown.
func (c *Context) TypeOf(b *workspace.Block) string {
	return c.Inference().TypeOf(b)
}

func (c *Context) logf(format string, args ...any) {
	if c.Options.Log != nil {
		c.Options.Log.Printf(format, args...)
	}
}

// stamp attaches b's identity to d unless an inner block already claimed it.
func stamp(d *Diagnostic, b *workspace.Block) *Diagnostic {
	if d.BlockType != "" || b == nil {
		return d
	}
	dd := *d
	dd.BlockID = b.ID
	dd.BlockType = b.Type
	return &dd
}

// fail records err for b and returns the text that replaces b's statement.
func (c *Context) fail(b *workspace.Block, err error) string {
	d := stamp(AsDiagnostic(err), b)
	c.diags = append(c.diags, *d)
	c.logf("%s", d.Error())
	if !c.Options.EmbedDiagnostics {
		return ""
	}
	return d.Comment() + "\n"
}
