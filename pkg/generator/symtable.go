package generator

import (
	"fmt"
	"strings"
)

// Entry is one keyed fragment of C text.
type Entry struct {
	Key  string
	Code string

	// Verbatim marks user-authored text that the finisher must not rewrite.
	Verbatim bool
}

// Table is an insertion-ordered map of key -> fragment. Setting an existing
// key replaces the fragment in place, so repeated registration from several
// blocks collapses to one line at the first-seen position.
type Table struct {
	name    string
	index   map[string]int
	entries []Entry
}

func NewTable(name string) *Table {
	return &Table{name: name, index: make(map[string]int)}
}

func (t *Table) Name() string { return t.name }

// Set inserts or replaces the fragment stored under key.
func (t *Table) Set(key, code string) {
	t.put(Entry{Key: key, Code: code})
}

// SetVerbatim stores user text that must reach the output unchanged.
func (t *Table) SetVerbatim(key, code string) {
	t.put(Entry{Key: key, Code: code, Verbatim: true})
}

func (t *Table) put(e Entry) {
	if i, ok := t.index[e.Key]; ok {
		t.entries[i] = e
		return
	}
	t.index[e.Key] = len(t.entries)
	t.entries = append(t.entries, e)
}

func (t *Table) Get(key string) (string, bool) {
	i, ok := t.index[key]
	if !ok {
		return "", false
	}
	return t.entries[i].Code, true
}

func (t *Table) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

func (t *Table) Len() int { return len(t.entries) }

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// All returns the fragments in insertion order.
func (t *Table) All() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Code
	}
	return out
}

func (t *Table) Keys() []string {
	out := make([]string, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Key
	}
	return out
}

func (t *Table) Reset() {
	t.index = make(map[string]int)
	t.entries = nil
}

// Tables is the full set of symbol tables for one generation pass.
type Tables struct {
	Definitions        *Table // includes, defines, settings markers, declarations
	GlobalVars         *Table // file-scope variables and objects declared by blocks
	Setups             *Table // statements run at the top of main()
	Methods            *Table // function bodies, keyed by function name
	MethodDeclarations *Table // forward declarations, keyed by function name
	CogMethods         *Table // functions launched into another cog
	CogSetups          *Table // cog launches that happen at program start
}

func NewTables() *Tables {
	return &Tables{
		Definitions:        NewTable("definitions"),
		GlobalVars:         NewTable("global_vars"),
		Setups:             NewTable("setups"),
		Methods:            NewTable("methods"),
		MethodDeclarations: NewTable("method_declarations"),
		CogMethods:         NewTable("cog_methods"),
		CogSetups:          NewTable("cog_setups"),
	}
}

func (ts *Tables) all() []*Table {
	return []*Table{
		ts.Definitions, ts.GlobalVars, ts.Setups, ts.Methods,
		ts.MethodDeclarations, ts.CogMethods, ts.CogSetups,
	}
}

// Reset clears every table.
func (ts *Tables) Reset() {
	for _, t := range ts.all() {
		t.Reset()
	}
}

// Lookup returns a table by its name, e.g. "setups".
func (ts *Tables) Lookup(name string) (*Table, bool) {
	for _, t := range ts.all() {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// String returns an ordered dump of every non-empty table.
func (ts *Tables) String() string {
	var sb strings.Builder
	for _, t := range ts.all() {
		if t.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s:\n", t.name)
		for _, e := range t.entries {
			fmt.Fprintf(&sb, "  %-24s %q\n", e.Key, e.Code)
		}
	}
	if sb.Len() == 0 {
		return "(empty)\n"
	}
	return sb.String()
}
