package generator

import (
	"strings"

	"propc/pkg/workspace"
)

// Indent is the prefix added to each line of a nested statement chain.
const Indent = "  "

// BlockToCode generates the statement chain that starts at b: each enabled
// block is emitted, its comments are scrubbed in front of the code, and the
// walk continues at the next block until the chain ends.
func (c *Context) BlockToCode(b *workspace.Block) string {
	var sb strings.Builder
	for cur := b; cur != nil; cur = cur.Next {
		if cur.Disabled {
			continue
		}
		sb.WriteString(c.scrub(cur, c.emitStatement(cur)))
	}
	return sb.String()
}

// emitStatement runs the emitter for one block in statement position.
// A value block found here is a naked value and is terminated with ";".
func (c *Context) emitStatement(b *workspace.Block) string {
	if e, ok := c.reg.StatementFor(b.Type); ok {
		code, err := e.EmitStatement(c, b)
		if err != nil {
			return c.fail(b, err)
		}
		return code
	}
	if e, ok := c.reg.ValueFor(b.Type); ok {
		expr, err := e.EmitValue(c, b)
		if err != nil {
			return c.fail(b, err)
		}
		return expr.Code + ";\n"
	}
	return c.fail(b, Warningf("Unknown block type %q", b.Type))
}

// StatementToCode generates the chain plugged into b's statement input name,
// indented one level.
func (c *Context) StatementToCode(b *workspace.Block, name string) string {
	return PrefixLines(c.BlockToCode(b.Input(name)), Indent)
}

// ValueToCode generates the expression plugged into b's value input name.
// The result is parenthesised when the child binds looser than order.
// An empty input yields "" and no error; callers pick their own default.
func (c *Context) ValueToCode(b *workspace.Block, name string, order Order) (string, error) {
	child := b.Input(name)
	if child == nil || child.Disabled {
		return "", nil
	}
	e, ok := c.reg.ValueFor(child.Type)
	if !ok {
		if c.reg.Has(child.Type) {
			return "", stamp(Errorf("Block %q cannot be used as a value", child.Type), child)
		}
		return "", stamp(Warningf("Unknown block type %q", child.Type), child)
	}
	expr, err := e.EmitValue(c, child)
	if err != nil {
		return "", stamp(AsDiagnostic(err), child)
	}
	return Wrap(expr, order), nil
}

// ValueOr is ValueToCode with a fallback for an empty input.
func (c *Context) ValueOr(b *workspace.Block, name string, order Order, fallback string) (string, error) {
	code, err := c.ValueToCode(b, name, order)
	if err != nil {
		return "", err
	}
	if code == "" {
		return fallback, nil
	}
	return code, nil
}

// scrub prepends the user comments of b and of its value-input descendants,
// unless the emitter took them along with code it placed elsewhere.
func (c *Context) scrub(b *workspace.Block, code string) string {
	if c.taken[b] {
		return code
	}
	comments := commentsOf(b)
	if comments == "" {
		return code
	}
	return comments + code
}

// TakeComments returns the comment lines of b and its value inputs and keeps
// the walker from emitting them in the chain. Emitters that store their
// code in a table put these lines in front of it.
func (c *Context) TakeComments(b *workspace.Block) string {
	c.taken[b] = true
	return commentsOf(b)
}

func commentsOf(b *workspace.Block) string {
	var sb strings.Builder
	if !b.IsValueChild() && b.Comment != "" {
		writeComment(&sb, b.Comment)
	}
	for _, in := range b.Inputs {
		if in.Kind == workspace.ValueInput && in.Block != nil {
			nestedComments(in.Block, &sb)
		}
	}
	return sb.String()
}

// nestedComments collects the comments of a value subtree. A child displayed
// inline keeps its comment on the canvas only.
func nestedComments(b *workspace.Block, sb *strings.Builder) {
	if b.Disabled {
		return
	}
	if b.Comment != "" && !b.Inline {
		writeComment(sb, b.Comment)
	}
	for _, in := range b.Inputs {
		if in.Kind == workspace.ValueInput && in.Block != nil {
			nestedComments(in.Block, sb)
		}
	}
}

func writeComment(sb *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString("// ")
		sb.WriteString(strings.TrimRight(line, " \t\r"))
		sb.WriteByte('\n')
	}
}

// PrefixLines adds prefix to every non-empty line of text.
func PrefixLines(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		if strings.TrimSpace(line) != "" {
			sb.WriteString(prefix)
		}
		sb.WriteString(line)
	}
	return sb.String()
}
