package workspace

// Workspace is the ordered set of top-level blocks. Each top-level block is
// the head of a statement chain or a free-standing definition.
type Workspace struct {
	Blocks []*Block
}

func New(blocks ...*Block) *Workspace {
	return &Workspace{Blocks: blocks}
}

func (w *Workspace) Add(b *Block) {
	w.Blocks = append(w.Blocks, b)
}

// AllBlocks returns every block in program order.
func (w *Workspace) AllBlocks() []*Block {
	if w == nil {
		return nil
	}
	var all []*Block
	for _, top := range w.Blocks {
		top.Walk(func(b *Block) bool {
			all = append(all, b)
			return true
		})
	}
	return all
}

// EnabledBlocks returns the blocks that take part in code generation.
func (w *Workspace) EnabledBlocks() []*Block {
	if w == nil {
		return nil
	}
	var out []*Block
	for _, top := range w.Blocks {
		top.WalkEnabled(func(b *Block) bool {
			out = append(out, b)
			return true
		})
	}
	return out
}

func (w *Workspace) BlocksOfType(typ string) []*Block {
	var out []*Block
	for _, b := range w.AllBlocks() {
		if b.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

// HasBlockOfType reports whether any enabled block of typ exists.
func (w *Workspace) HasBlockOfType(typ string) bool {
	if w == nil {
		return false
	}
	found := false
	for _, top := range w.Blocks {
		top.WalkEnabled(func(b *Block) bool {
			if b.Type == typ {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// FindByID returns the block with the given id, or nil.
func (w *Workspace) FindByID(id string) *Block {
	for _, b := range w.AllBlocks() {
		if b.ID == id {
			return b
		}
	}
	return nil
}
