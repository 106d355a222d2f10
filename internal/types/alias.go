package types

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// normalizeIdent applies NFC normalization to an identifier before it is
// used as a map key, the same boundary-normalization idiom the teacher
// repo applies to source bytes before lexing (internal/lexer/normalize.go)
// — applied here so visually identical aliases spelled with different
// Unicode encodings resolve to the same binding.
func normalizeIdent(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// AliasKind distinguishes a value-level alias from a function alias.
type AliasKind int

const (
	AliasVariable AliasKind = iota
	AliasFunction
)

// Alias is a sum of two strings: Variable(name) and Function(name).
type Alias struct {
	Kind AliasKind
	Name string
}

// NewVariableAlias builds a Variable alias, normalizing its name.
func NewVariableAlias(name string) Alias {
	return Alias{Kind: AliasVariable, Name: normalizeIdent(name)}
}

// NewFunctionAlias builds a Function alias, normalizing its name.
func NewFunctionAlias(name string) Alias {
	return Alias{Kind: AliasFunction, Name: normalizeIdent(name)}
}

func (a Alias) String() string {
	switch a.Kind {
	case AliasFunction:
		return fmt.Sprintf("F(%s)", a.Name)
	default:
		return fmt.Sprintf("V(%s)", a.Name)
	}
}

// key is the comparable value used as a map key; Alias is already
// comparable (struct of int + string) so this just documents the fact.
func (a Alias) key() Alias { return a }

// ModKind distinguishes the global namespace from a named module.
type ModKind int

const (
	ModGlobal ModKind = iota
	ModNamed
)

// ModName is either Global or Named(name).
type ModName struct {
	Kind ModKind
	Name string
}

// Global is the shared top-level namespace.
var Global = ModName{Kind: ModGlobal}

// Named builds a module name.
func Named(name string) ModName { return ModName{Kind: ModNamed, Name: normalizeIdent(name)} }

func (m ModName) String() string {
	if m.Kind == ModGlobal {
		return "MOD(Global)"
	}
	return fmt.Sprintf("MOD(%s)", m.Name)
}

// Scope is a lexical frame: alias -> Type, with the invariant that no
// alias appears twice inside the same scope.
type Scope struct {
	order []Alias
	types map[Alias]Type
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{types: make(map[Alias]Type)}
}

// Get looks up an alias directly in this scope.
func (s *Scope) Get(a Alias) (Type, bool) {
	t, ok := s.types[a]
	return t, ok
}

// Has reports whether the alias is already bound in this scope.
func (s *Scope) Has(a Alias) bool {
	_, ok := s.types[a]
	return ok
}

// Insert binds alias -> ty, returning false if the alias already exists
// (the caller turns that into a DuplicateVarInScope diagnostic).
func (s *Scope) Insert(a Alias, ty Type) bool {
	if s.Has(a) {
		return false
	}
	s.types[a] = ty
	s.order = append(s.order, a)
	return true
}

// ForceInsert binds alias -> ty unconditionally, overwriting any prior
// binding. Mirrors original_source's add_type_allow_dup escape hatch
// (§12): intended only for the external annotation pass re-binding a
// loop induction variable across iterations of the same scope. It
// bypasses the Scope invariant and should not be used by ordinary
// binder-introducing code.
func (s *Scope) ForceInsert(a Alias, ty Type) {
	if !s.Has(a) {
		s.order = append(s.order, a)
	}
	s.types[a] = ty
}

// Aliases returns the bound aliases in deterministic (sorted) order.
func (s *Scope) Aliases() []Alias {
	out := make([]Alias, len(s.order))
	copy(out, s.order)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}
