package generator

import (
	"fmt"
	"sort"

	"propc/pkg/workspace"
)

// StatementEmitter produces the C statement text for a statement block.
// An empty string means "no code": the block only registers fragments.
type StatementEmitter interface {
	EmitStatement(ctx *Context, b *workspace.Block) (string, error)
}

// ValueEmitter produces the expression for a value block.
type ValueEmitter interface {
	EmitValue(ctx *Context, b *workspace.Block) (Expr, error)
}

// StatementFunc adapts an ordinary function to StatementEmitter.
type StatementFunc func(ctx *Context, b *workspace.Block) (string, error)

func (f StatementFunc) EmitStatement(ctx *Context, b *workspace.Block) (string, error) {
	return f(ctx, b)
}

// ValueFunc adapts an ordinary function to ValueEmitter.
type ValueFunc func(ctx *Context, b *workspace.Block) (Expr, error)

func (f ValueFunc) EmitValue(ctx *Context, b *workspace.Block) (Expr, error) {
	return f(ctx, b)
}

// CheckFunc is a precondition check for one block, run outside code
// generation (for editor warning badges). It returns nil when satisfied.
type CheckFunc func(ws *workspace.Workspace, b *workspace.Block) *Diagnostic

// InferFunc records variable facts for one block during the inference pass.
type InferFunc func(inf *Inference, b *workspace.Block)

// TypeFunc reports the C type a value block evaluates to, or "" if unknown.
// It may ask inf for the types of the block's inputs.
type TypeFunc func(inf *Inference, b *workspace.Block) string

// Registry maps block types to their emitters and helpers.
type Registry struct {
	statements map[string]StatementEmitter
	values     map[string]ValueEmitter
	checks     map[string]CheckFunc
	infers     map[string]InferFunc
	types      map[string]TypeFunc
}

func NewRegistry() *Registry {
	return &Registry{
		statements: make(map[string]StatementEmitter),
		values:     make(map[string]ValueEmitter),
		checks:     make(map[string]CheckFunc),
		infers:     make(map[string]InferFunc),
		types:      make(map[string]TypeFunc),
	}
}

func (r *Registry) mustBeNew(typ string) {
	if _, ok := r.statements[typ]; ok {
		panic(fmt.Sprintf("generator: block type %q registered twice", typ))
	}
	if _, ok := r.values[typ]; ok {
		panic(fmt.Sprintf("generator: block type %q registered twice", typ))
	}
}

// Statement registers a statement emitter. It panics on a duplicate type.
func (r *Registry) Statement(typ string, e StatementEmitter) {
	r.mustBeNew(typ)
	r.statements[typ] = e
}

// Value registers a value emitter. It panics on a duplicate type.
func (r *Registry) Value(typ string, e ValueEmitter) {
	r.mustBeNew(typ)
	r.values[typ] = e
}

func (r *Registry) Check(typ string, fn CheckFunc)     { r.checks[typ] = fn }
func (r *Registry) Infer(typ string, fn InferFunc)     { r.infers[typ] = fn }
func (r *Registry) OutputType(typ string, fn TypeFunc) { r.types[typ] = fn }

func (r *Registry) StatementFor(typ string) (StatementEmitter, bool) {
	e, ok := r.statements[typ]
	return e, ok
}

func (r *Registry) ValueFor(typ string) (ValueEmitter, bool) {
	e, ok := r.values[typ]
	return e, ok
}

// Has reports whether typ has an emitter of either kind.
func (r *Registry) Has(typ string) bool {
	_, s := r.statements[typ]
	_, v := r.values[typ]
	return s || v
}

// IsValue reports whether typ is a value (expression) block.
func (r *Registry) IsValue(typ string) bool {
	_, ok := r.values[typ]
	return ok
}

// Types returns every registered block type, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.statements)+len(r.values))
	for t := range r.statements {
		out = append(out, t)
	}
	for t := range r.values {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Inference is the state of the first pass: it walks every block once and
// lets InferFuncs record variable types, lengths and locality.
type Inference struct {
	Vars *VarTable

	reg      *Registry
	ws       *workspace.Workspace
	visiting map[*workspace.Block]bool
}

func newInference(ws *workspace.Workspace, vars *VarTable, reg *Registry) *Inference {
	return &Inference{Vars: vars, reg: reg, ws: ws, visiting: make(map[*workspace.Block]bool)}
}

// Workspace returns the workspace being inferred.
func (inf *Inference) Workspace() *workspace.Workspace { return inf.ws }

// TypeOf reports the C type of a value block, or "" when unknown. A block
// whose type depends on itself (a recursive function) is unknown.
func (inf *Inference) TypeOf(b *workspace.Block) string {
	if b == nil || inf.visiting[b] {
		return ""
	}
	fn, ok := inf.reg.types[b.Type]
	if !ok {
		return ""
	}
	inf.visiting[b] = true
	defer delete(inf.visiting, b)
	return fn(inf, b)
}

// maxInferPasses bounds the inference loop for programs whose facts never
// settle, e.g. two array_init blocks giving one array different sizes.
const maxInferPasses = 8

// infer repeats the inference pass until the variable table stops changing,
// so a variable read before the block that types it still gets its type.
func (r *Registry) infer(ws *workspace.Workspace, vars *VarTable) {
	inf := newInference(ws, vars, r)
	blocks := ws.EnabledBlocks()
	for pass := 0; pass < maxInferPasses; pass++ {
		before := vars.changes
		for _, b := range blocks {
			if fn, ok := r.infers[b.Type]; ok {
				fn(inf, b)
			}
		}
		if vars.changes == before {
			return
		}
	}
}
