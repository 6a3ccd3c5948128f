package generator

import (
	"fmt"
	"regexp"
	"strconv"
)

// Tracked variable types. TypeLocal marks a name that is function-local
// (a procedure parameter) and must never be declared at file scope.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "char *"
	TypeLocal  = "LOCAL"
)

// typeRank decides which type wins when blocks disagree about a variable.
// A variable that ever holds a string stays a string; LOCAL always wins.
var typeRank = map[string]int{
	TypeInt:    0,
	TypeFloat:  1,
	TypeString: 2,
	TypeLocal:  3,
}

func rankOf(typ string) int {
	if r, ok := typeRank[typ]; ok {
		return r
	}
	return 1
}

// VarTable collects what the inference pass learns about program variables:
// their C type, array length and explicit string buffer size. It also keeps
// the first-seen order of variables that need a file-scope declaration.
type VarTable struct {
	declared    []string
	isDeclared  map[string]bool
	types       map[string]string
	lengths     map[string]int
	stringSizes map[string]int

	// changes counts updates to types, lengths and sizes.
	changes int
}

func NewVarTable() *VarTable {
	v := &VarTable{}
	v.Reset()
	return v
}

func (v *VarTable) Reset() {
	v.declared = nil
	v.isDeclared = make(map[string]bool)
	v.types = make(map[string]string)
	v.lengths = make(map[string]int)
	v.stringSizes = make(map[string]int)
	v.changes = 0
}

// Declare records that name needs a file-scope declaration. Repeated calls
// keep the first position.
func (v *VarTable) Declare(name string) {
	if v.isDeclared[name] {
		return
	}
	v.isDeclared[name] = true
	v.declared = append(v.declared, name)
}

// Declared returns declared names in first-seen order.
func (v *VarTable) Declared() []string {
	out := make([]string, len(v.declared))
	copy(out, v.declared)
	return out
}

// SetType records typ for name unless a stronger type is already tracked.
func (v *VarTable) SetType(name, typ string) {
	cur, ok := v.types[name]
	if ok && (cur == typ || rankOf(cur) > rankOf(typ)) {
		return
	}
	v.types[name] = typ
	v.changes++
}

func (v *VarTable) Type(name string) (string, bool) {
	t, ok := v.types[name]
	return t, ok
}

func (v *VarTable) IsLocal(name string) bool {
	return v.types[name] == TypeLocal
}

// SetLength records an array length for name.
func (v *VarTable) SetLength(name string, n int) {
	if cur, ok := v.lengths[name]; ok && cur == n {
		return
	}
	v.lengths[name] = n
	v.changes++
}

func (v *VarTable) Length(name string) (int, bool) {
	n, ok := v.lengths[name]
	return n, ok
}

// SetStringSize records an explicit buffer size for a string variable.
func (v *VarTable) SetStringSize(name string, n int) {
	if cur, ok := v.stringSizes[name]; ok && cur == n {
		return
	}
	v.stringSizes[name] = n
	v.changes++
}

func (v *VarTable) StringSize(name string) (int, bool) {
	n, ok := v.stringSizes[name]
	return n, ok
}

// Declaration renders the file-scope declaration of a tracked variable.
// It reports false for LOCAL variables.
func (v *VarTable) Declaration(name string) (string, bool) {
	typ, ok := v.types[name]
	if !ok {
		typ = TypeInt
	}
	if typ == TypeLocal {
		return "", false
	}
	suffix := ""
	if n, ok := v.lengths[name]; ok {
		suffix = "[" + strconv.Itoa(n) + "]"
	}
	if typ == TypeString && suffix == "" {
		return fmt.Sprintf("char *%s;", name), true
	}
	return fmt.Sprintf("%s %s%s;", typ, name, suffix), true
}

var (
	typePlaceholderRe   = regexp.MustCompile(`\{\{\$var_type_([^{}]*)\}\}`)
	lengthPlaceholderRe = regexp.MustCompile(`\{\{\$var_length_([^{}]*)\}\}`)
)

// TypePlaceholder returns the deferred-type token for name. Fragments that
// contain it are resolved by the finisher once every block has run.
func TypePlaceholder(name string) string {
	return "{{$var_type_" + name + "}}"
}

// LengthPlaceholder returns the deferred array-length token for name.
func LengthPlaceholder(name string) string {
	return "{{$var_length_" + name + "}}"
}

// resolvePlaceholders substitutes deferred type and length tokens in decl.
// It reports false when decl names a LOCAL variable and must be dropped.
// Tokens for untracked names fall back to int and no length.
func (v *VarTable) resolvePlaceholders(decl string) (string, bool) {
	for _, m := range typePlaceholderRe.FindAllStringSubmatch(decl, -1) {
		if v.IsLocal(m[1]) {
			return "", false
		}
	}
	decl = typePlaceholderRe.ReplaceAllStringFunc(decl, func(tok string) string {
		name := typePlaceholderRe.FindStringSubmatch(tok)[1]
		if typ, ok := v.types[name]; ok {
			return typ
		}
		return TypeInt
	})
	decl = lengthPlaceholderRe.ReplaceAllStringFunc(decl, func(tok string) string {
		name := lengthPlaceholderRe.FindStringSubmatch(tok)[1]
		if n, ok := v.lengths[name]; ok {
			return "[" + strconv.Itoa(n) + "]"
		}
		return ""
	})
	return decl, true
}
