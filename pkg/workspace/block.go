// Package workspace models the Blockly block graph that the generator reads:
// typed blocks with fields, value and statement inputs, next links and
// user comments, plus a reader/writer for the Blockly XML workspace format.
package workspace

import (
	"fmt"
	"strings"
)

// InputKind distinguishes value sockets from statement sockets.
type InputKind int

const (
	ValueInput InputKind = iota
	StatementInput
)

func (k InputKind) String() string {
	if k == StatementInput {
		return "statement"
	}
	return "value"
}

// Field is a named block field (dropdown, text box, number box, variable).
type Field struct {
	Name  string
	Value string
}

// Input is a named connection point on a block.
//
//	<value name="VALUE"><block .../></value>
//	       ^^^^^^^^^^^^  Input{Name: "VALUE", Kind: ValueInput}
type Input struct {
	Name  string
	Kind  InputKind
	Block *Block // nil when nothing is plugged in
}

// Mutation holds the extra shape information some blocks serialise,
// e.g. <mutation elseif="2" else="1"/> or procedure arguments.
type Mutation struct {
	Attrs map[string]string
	Args  []string
}

// Attr returns a mutation attribute or "".
func (m *Mutation) Attr(name string) string {
	if m == nil {
		return ""
	}
	return m.Attrs[name]
}

// Block is one node of the workspace graph.
type Block struct {
	ID       string
	Type     string
	Fields   []Field
	Inputs   []*Input
	Next     *Block
	Comment  string
	Disabled bool
	Inline   bool
	Mutation *Mutation

	parent      *Block
	parentInput *Input
}

// NewBlock returns an empty block of the given type.
func NewBlock(typ string) *Block {
	return &Block{Type: typ}
}

func (b *Block) WithID(id string) *Block {
	b.ID = id
	return b
}

// WithField sets a field, replacing an existing one of the same name.
func (b *Block) WithField(name, value string) *Block {
	b.SetField(name, value)
	return b
}

func (b *Block) WithValue(name string, child *Block) *Block {
	b.attach(name, ValueInput, child)
	return b
}

func (b *Block) WithStatement(name string, child *Block) *Block {
	b.attach(name, StatementInput, child)
	return b
}

// WithNext links next after b and returns b.
func (b *Block) WithNext(next *Block) *Block {
	b.Next = next
	if next != nil {
		next.parent = b
		next.parentInput = nil
	}
	return b
}

func (b *Block) WithComment(text string) *Block {
	b.Comment = text
	return b
}

func (b *Block) WithMutation(attrs map[string]string) *Block {
	if b.Mutation == nil {
		b.Mutation = &Mutation{Attrs: map[string]string{}}
	}
	for k, v := range attrs {
		b.Mutation.Attrs[k] = v
	}
	return b
}

func (b *Block) WithArgs(args ...string) *Block {
	if b.Mutation == nil {
		b.Mutation = &Mutation{Attrs: map[string]string{}}
	}
	b.Mutation.Args = append(b.Mutation.Args, args...)
	return b
}

func (b *Block) WithDisabled(disabled bool) *Block {
	b.Disabled = disabled
	return b
}

func (b *Block) WithInline(inline bool) *Block {
	b.Inline = inline
	return b
}

// Chain links blocks into a statement sequence and returns the head.
func Chain(blocks ...*Block) *Block {
	if len(blocks) == 0 {
		return nil
	}
	for i := 0; i+1 < len(blocks); i++ {
		blocks[i].WithNext(blocks[i+1])
	}
	return blocks[0]
}

func (b *Block) SetField(name, value string) {
	for i := range b.Fields {
		if b.Fields[i].Name == name {
			b.Fields[i].Value = value
			return
		}
	}
	b.Fields = append(b.Fields, Field{Name: name, Value: value})
}

// Field returns the value of the named field, or "" when absent.
func (b *Block) Field(name string) string {
	v, _ := b.LookupField(name)
	return v
}

func (b *Block) LookupField(name string) (string, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (b *Block) attach(name string, kind InputKind, child *Block) {
	in := b.input(name)
	if in == nil {
		in = &Input{Name: name, Kind: kind}
		b.Inputs = append(b.Inputs, in)
	}
	in.Kind = kind
	in.Block = child
	if child != nil {
		child.parent = b
		child.parentInput = in
	}
}

func (b *Block) input(name string) *Input {
	for _, in := range b.Inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// Input returns the block connected to the named input, or nil.
func (b *Block) Input(name string) *Block {
	if in := b.input(name); in != nil {
		return in.Block
	}
	return nil
}

// InputNames lists input names in declaration order.
func (b *Block) InputNames() []string {
	names := make([]string, 0, len(b.Inputs))
	for _, in := range b.Inputs {
		names = append(names, in.Name)
	}
	return names
}

// Parent returns the block that owns b through an input or a next link.
func (b *Block) Parent() *Block {
	return b.parent
}

// IsValueChild reports whether b is plugged into a parent's value input.
func (b *Block) IsValueChild() bool {
	return b.parentInput != nil && b.parentInput.Kind == ValueInput
}

// Walk visits b, its inputs (in order) and then its next chain, depth first.
// Returning false from fn stops the walk.
func (b *Block) Walk(fn func(*Block) bool) bool {
	for cur := b; cur != nil; cur = cur.Next {
		if !fn(cur) {
			return false
		}
		for _, in := range cur.Inputs {
			if in.Block != nil && !in.Block.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// WalkEnabled is Walk without disabled blocks. A disabled block hides its
// inputs too, but the chain continues at its next block.
func (b *Block) WalkEnabled(fn func(*Block) bool) bool {
	for cur := b; cur != nil; cur = cur.Next {
		if cur.Disabled {
			continue
		}
		if !fn(cur) {
			return false
		}
		for _, in := range cur.Inputs {
			if in.Block != nil && !in.Block.WalkEnabled(fn) {
				return false
			}
		}
	}
	return true
}

// String renders a compact one-line description used in debug output.
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString(b.Type)
	if b.ID != "" {
		fmt.Fprintf(&sb, "#%s", b.ID)
	}
	if len(b.Fields) > 0 {
		parts := make([]string, 0, len(b.Fields))
		for _, f := range b.Fields {
			parts = append(parts, f.Name+"="+f.Value)
		}
		fmt.Fprintf(&sb, "[%s]", strings.Join(parts, " "))
	}
	return sb.String()
}
