// Package types implements the type-inference kernel: the Type algebra,
// the lexical/module TypeEnv, the constraint set, substitution, and
// the unifier. Everything outside this package (parsing, annotation,
// constraint collection, the operator catalog) is an external
// collaborator consumed only through the interfaces this package and
// internal/catalog expose.
package types

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// TypeID is a process-monotonic, non-negative identifier for a type or
// dimension variable.
type TypeID uint64

// Type is a tagged-variant representation of every shape a program node
// can be inferred to have. Every variant carries a ByteSpan used solely
// for diagnostics: Equals and Hash never examine it.
type Type interface {
	String() string
	Equals(other Type) bool
	Hash() uint64
	Span() ByteSpan
	WithSpan(sp ByteSpan) Type
}

func hashTag(tag byte, parts ...uint64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{tag})
	buf := make([]byte, 8)
	for _, p := range parts {
		for i := 0; i < 8; i++ {
			buf[i] = byte(p >> (8 * i))
		}
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

func hashString(h *uint64, tag byte, s string) {
	fh := fnv.New64a()
	_, _ = fh.Write([]byte{tag})
	_, _ = fh.Write([]byte(s))
	*h ^= fh.Sum64()*1099511628211 + 0x9e3779b97f4a7c15
}

// ---- Unit ----

type TUnit struct{ Sp ByteSpan }

func NewUnit(sp ByteSpan) *TUnit { return &TUnit{Sp: sp} }

func (t *TUnit) String() string   { return "()" }
func (t *TUnit) Span() ByteSpan   { return t.Sp }
func (t *TUnit) WithSpan(s ByteSpan) Type {
	return &TUnit{Sp: s}
}
func (t *TUnit) Hash() uint64 { return hashTag(0) }
func (t *TUnit) Equals(other Type) bool {
	_, ok := other.(*TUnit)
	return ok
}

// ---- Int ----

type TInt struct{ Sp ByteSpan }

func NewInt(sp ByteSpan) *TInt { return &TInt{Sp: sp} }

func (t *TInt) String() string         { return "int" }
func (t *TInt) Span() ByteSpan         { return t.Sp }
func (t *TInt) WithSpan(s ByteSpan) Type { return &TInt{Sp: s} }
func (t *TInt) Hash() uint64           { return hashTag(1) }
func (t *TInt) Equals(other Type) bool {
	_, ok := other.(*TInt)
	return ok
}

// ---- Float ----

type TFloat struct{ Sp ByteSpan }

func NewFloat(sp ByteSpan) *TFloat { return &TFloat{Sp: sp} }

func (t *TFloat) String() string         { return "float" }
func (t *TFloat) Span() ByteSpan         { return t.Sp }
func (t *TFloat) WithSpan(s ByteSpan) Type { return &TFloat{Sp: s} }
func (t *TFloat) Hash() uint64           { return hashTag(2) }
func (t *TFloat) Equals(other Type) bool {
	_, ok := other.(*TFloat)
	return ok
}

// ---- Bool ----

type TBool struct{ Sp ByteSpan }

func NewBool(sp ByteSpan) *TBool { return &TBool{Sp: sp} }

func (t *TBool) String() string         { return "bool" }
func (t *TBool) Span() ByteSpan         { return t.Sp }
func (t *TBool) WithSpan(s ByteSpan) Type { return &TBool{Sp: s} }
func (t *TBool) Hash() uint64           { return hashTag(3) }
func (t *TBool) Equals(other Type) bool {
	_, ok := other.(*TBool)
	return ok
}

// ---- ResolvedDim ----

// TResolvedDim is a concrete tensor extent.
type TResolvedDim struct {
	Value int64
	Sp    ByteSpan
}

func NewResolvedDim(v int64, sp ByteSpan) *TResolvedDim { return &TResolvedDim{Value: v, Sp: sp} }

func (t *TResolvedDim) String() string { return strconv.FormatInt(t.Value, 10) }
func (t *TResolvedDim) Span() ByteSpan { return t.Sp }
func (t *TResolvedDim) WithSpan(s ByteSpan) Type {
	return &TResolvedDim{Value: t.Value, Sp: s}
}
func (t *TResolvedDim) Hash() uint64 { return hashTag(4, uint64(t.Value)) }
func (t *TResolvedDim) Equals(other Type) bool {
	o, ok := other.(*TResolvedDim)
	return ok && t.Value == o.Value
}

// ---- Var ----

// TVar is an unresolved type variable.
type TVar struct {
	ID TypeID
	Sp ByteSpan
}

func NewVar(id TypeID, sp ByteSpan) *TVar { return &TVar{ID: id, Sp: sp} }

func (t *TVar) String() string { return fmt.Sprintf("'%d", t.ID) }
func (t *TVar) Span() ByteSpan { return t.Sp }
func (t *TVar) WithSpan(s ByteSpan) Type {
	return &TVar{ID: t.ID, Sp: s}
}
func (t *TVar) Hash() uint64 { return hashTag(5, uint64(t.ID)) }
func (t *TVar) Equals(other Type) bool {
	o, ok := other.(*TVar)
	return ok && t.ID == o.ID
}

// ---- Dim ----

// TDim is an unresolved dimension variable; unifies with ResolvedDim or Int.
type TDim struct {
	ID TypeID
	Sp ByteSpan
}

func NewDim(id TypeID, sp ByteSpan) *TDim { return &TDim{ID: id, Sp: sp} }

func (t *TDim) String() string { return fmt.Sprintf("!%d", t.ID) }
func (t *TDim) Span() ByteSpan { return t.Sp }
func (t *TDim) WithSpan(s ByteSpan) Type {
	return &TDim{ID: t.ID, Sp: s}
}
func (t *TDim) Hash() uint64 { return hashTag(6, uint64(t.ID)) }
func (t *TDim) Equals(other Type) bool {
	o, ok := other.(*TDim)
	return ok && t.ID == o.ID
}

// ---- Tuple ----

type TTuple struct {
	Elems []Type
	Sp    ByteSpan
}

func NewTuple(elems []Type, sp ByteSpan) *TTuple { return &TTuple{Elems: elems, Sp: sp} }

func (t *TTuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *TTuple) Span() ByteSpan { return t.Sp }
func (t *TTuple) WithSpan(s ByteSpan) Type {
	return &TTuple{Elems: t.Elems, Sp: s}
}
func (t *TTuple) Hash() uint64 {
	h := hashTag(7)
	for _, e := range t.Elems {
		h ^= e.Hash()*1099511628211 + 0x9e3779b97f4a7c15
	}
	return h
}
func (t *TTuple) Equals(other Type) bool {
	o, ok := other.(*TTuple)
	if !ok || len(t.Elems) != len(o.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(o.Elems[i]) {
			return false
		}
	}
	return true
}

// ---- Tsr (tensor) ----

// TTsr is a tensor type: an ordered list of dimension types, each either
// a TDim, TVar, or TResolvedDim.
type TTsr struct {
	Dims []Type
	Sp   ByteSpan
}

func NewTsr(dims []Type, sp ByteSpan) *TTsr { return &TTsr{Dims: dims, Sp: sp} }

func (t *TTsr) String() string {
	if len(t.Dims) == 0 {
		return "[]"
	}
	parts := make([]string, len(t.Dims))
	for i, d := range t.Dims {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (t *TTsr) Span() ByteSpan { return t.Sp }
func (t *TTsr) WithSpan(s ByteSpan) Type {
	return &TTsr{Dims: t.Dims, Sp: s}
}
func (t *TTsr) Hash() uint64 {
	h := hashTag(8)
	for _, d := range t.Dims {
		h ^= d.Hash()*1099511628211 + 0x9e3779b97f4a7c15
	}
	return h
}
func (t *TTsr) Equals(other Type) bool {
	o, ok := other.(*TTsr)
	if !ok || len(t.Dims) != len(o.Dims) {
		return false
	}
	for i := range t.Dims {
		if !t.Dims[i].Equals(o.Dims[i]) {
			return false
		}
	}
	return true
}

// ---- FnArg ----

// TFnArg is one formal argument; a nil Name matches any name.
type TFnArg struct {
	Name  *string
	Inner Type
	Sp    ByteSpan
}

func NewFnArg(name *string, inner Type, sp ByteSpan) *TFnArg {
	return &TFnArg{Name: name, Inner: inner, Sp: sp}
}

func (t *TFnArg) String() string {
	if t.Name != nil {
		return fmt.Sprintf("%s=%s", *t.Name, t.Inner.String())
	}
	return t.Inner.String()
}
func (t *TFnArg) Span() ByteSpan { return t.Sp }
func (t *TFnArg) WithSpan(s ByteSpan) Type {
	return &TFnArg{Name: t.Name, Inner: t.Inner, Sp: s}
}
func (t *TFnArg) Hash() uint64 {
	h := hashTag(9)
	if t.Name != nil {
		hashString(&h, 0, *t.Name)
	}
	h ^= t.Inner.Hash()*1099511628211 + 0x9e3779b97f4a7c15
	return h
}
func (t *TFnArg) Equals(other Type) bool {
	o, ok := other.(*TFnArg)
	if !ok {
		return false
	}
	if !nameEquals(t.Name, o.Name) {
		return false
	}
	return t.Inner.Equals(o.Inner)
}

func nameEquals(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// ---- FnArgs ----

// TFnArgs is a positional+named argument list; each element is a *TFnArg.
type TFnArgs struct {
	Args []Type
	Sp   ByteSpan
}

func NewFnArgs(args []Type, sp ByteSpan) *TFnArgs { return &TFnArgs{Args: args, Sp: sp} }

func (t *TFnArgs) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "FnArgs(" + strings.Join(parts, ", ") + ")"
}
func (t *TFnArgs) Span() ByteSpan { return t.Sp }
func (t *TFnArgs) WithSpan(s ByteSpan) Type {
	return &TFnArgs{Args: t.Args, Sp: s}
}
func (t *TFnArgs) Hash() uint64 {
	h := hashTag(10)
	for _, a := range t.Args {
		h ^= a.Hash()*1099511628211 + 0x9e3779b97f4a7c15
	}
	return h
}
func (t *TFnArgs) Equals(other Type) bool {
	o, ok := other.(*TFnArgs)
	if !ok || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// ---- Fun ----

// TFun is a fully-known function signature.
type TFun struct {
	Module string
	Method string
	Param  Type
	Ret    Type
	Sp     ByteSpan
}

func NewFun(module, method string, param, ret Type, sp ByteSpan) *TFun {
	return &TFun{Module: module, Method: method, Param: param, Ret: ret, Sp: sp}
}

func (t *TFun) String() string {
	return fmt.Sprintf("%s::%s(%s -> %s)", t.Module, t.Method, t.Param.String(), t.Ret.String())
}
func (t *TFun) Span() ByteSpan { return t.Sp }
func (t *TFun) WithSpan(s ByteSpan) Type {
	return &TFun{Module: t.Module, Method: t.Method, Param: t.Param, Ret: t.Ret, Sp: s}
}
func (t *TFun) Hash() uint64 {
	h := hashTag(11)
	hashString(&h, 0, t.Module)
	hashString(&h, 1, t.Method)
	h ^= t.Param.Hash()*1099511628211 + 0x9e3779b97f4a7c15
	h ^= t.Ret.Hash()*1099511628211 + 0x243f6a8885a308d3
	return h
}
func (t *TFun) Equals(other Type) bool {
	o, ok := other.(*TFun)
	if !ok {
		return false
	}
	return t.Module == o.Module && t.Method == o.Method &&
		t.Param.Equals(o.Param) && t.Ret.Equals(o.Ret)
}

// ---- Module ----

// TModule is a module, optionally with an attached structural type.
type TModule struct {
	Name  string
	Inner Type // nil if absent
	Sp    ByteSpan
}

func NewModule(name string, inner Type, sp ByteSpan) *TModule {
	return &TModule{Name: name, Inner: inner, Sp: sp}
}

func (t *TModule) String() string {
	if t.Inner != nil {
		return fmt.Sprintf("MODULE(%s, %s)", t.Name, t.Inner.String())
	}
	return fmt.Sprintf("MODULE(%s)", t.Name)
}
func (t *TModule) Span() ByteSpan { return t.Sp }
func (t *TModule) WithSpan(s ByteSpan) Type {
	return &TModule{Name: t.Name, Inner: t.Inner, Sp: s}
}
func (t *TModule) Hash() uint64 {
	h := hashTag(12)
	hashString(&h, 0, t.Name)
	if t.Inner != nil {
		h ^= t.Inner.Hash()*1099511628211 + 0x9e3779b97f4a7c15
	}
	return h
}
func (t *TModule) Equals(other Type) bool {
	o, ok := other.(*TModule)
	if !ok || t.Name != o.Name {
		return false
	}
	if t.Inner == nil && o.Inner == nil {
		return true
	}
	if t.Inner == nil || o.Inner == nil {
		return false
	}
	return t.Inner.Equals(o.Inner)
}

// ---- UnresolvedModuleFun ----

// TUnresolvedModuleFun is a deferred function signature, resolved by the
// catalog bridge (internal/catalog) once enough context is known.
type TUnresolvedModuleFun struct {
	Path   string
	Module string
	Method string
	Sp     ByteSpan
}

func NewUnresolvedModuleFun(path, module, method string, sp ByteSpan) *TUnresolvedModuleFun {
	return &TUnresolvedModuleFun{Path: path, Module: module, Method: method, Sp: sp}
}

func (t *TUnresolvedModuleFun) String() string {
	return fmt.Sprintf("UNRESOLVED(%s::%s::%s)", t.Path, t.Module, t.Method)
}
func (t *TUnresolvedModuleFun) Span() ByteSpan { return t.Sp }
func (t *TUnresolvedModuleFun) WithSpan(s ByteSpan) Type {
	return &TUnresolvedModuleFun{Path: t.Path, Module: t.Module, Method: t.Method, Sp: s}
}
func (t *TUnresolvedModuleFun) Hash() uint64 {
	h := hashTag(13)
	hashString(&h, 0, t.Path)
	hashString(&h, 1, t.Module)
	hashString(&h, 2, t.Method)
	return h
}
func (t *TUnresolvedModuleFun) Equals(other Type) bool {
	o, ok := other.(*TUnresolvedModuleFun)
	return ok && t.Path == o.Path && t.Module == o.Module && t.Method == o.Method
}

// ---- Projections (spec.md §4.A, §12) ----

// FirstArgTy returns the inner type of the first FnArg inside a FnArgs,
// transitively unwrapping Fun on its parameter side.
func FirstArgTy(t Type) (Type, bool) {
	switch v := t.(type) {
	case *TFnArgs:
		if len(v.Args) == 0 {
			return nil, false
		}
		arg, ok := v.Args[0].(*TFnArg)
		if !ok {
			return nil, false
		}
		return arg.Inner, true
	case *TFun:
		return FirstArgTy(v.Param)
	default:
		return nil, false
	}
}

// AsArgsMap produces name -> type for the named entries of a FnArgs;
// unnamed entries are dropped.
func AsArgsMap(t Type) (map[string]Type, bool) {
	args, ok := t.(*TFnArgs)
	if !ok {
		return nil, false
	}
	out := make(map[string]Type)
	for _, a := range args.Args {
		arg, ok := a.(*TFnArg)
		if !ok || arg.Name == nil {
			continue
		}
		out[*arg.Name] = arg.Inner
	}
	return out, true
}

// AsRank returns the length of the dimension vector of a Tsr.
func AsRank(t Type) (int, error) {
	tsr, ok := t.(*TTsr)
	if !ok {
		return 0, fmt.Errorf("AsRank: %T is not a tensor type", t)
	}
	return len(tsr.Dims), nil
}

// IsResolved reports whether no Var, Dim, or UnresolvedModuleFun is
// reachable inside t.
func IsResolved(t Type) bool {
	switch v := t.(type) {
	case *TUnit, *TInt, *TFloat, *TBool, *TResolvedDim:
		return true
	case *TUnresolvedModuleFun:
		return false
	case *TVar, *TDim:
		return false
	case *TModule:
		if v.Inner == nil {
			return true
		}
		return IsResolved(v.Inner)
	case *TFnArgs:
		for _, a := range v.Args {
			if !IsResolved(a) {
				return false
			}
		}
		return true
	case *TFnArg:
		return IsResolved(v.Inner)
	case *TFun:
		return IsResolved(v.Param) && IsResolved(v.Ret)
	case *TTsr:
		// Dimensions of a Tsr are checked individually; an unresolved
		// dim variable inside a tensor counts the tensor as unresolved.
		for _, d := range v.Dims {
			if !IsResolved(d) {
				return false
			}
		}
		return true
	case *TTuple:
		for _, e := range v.Elems {
			if !IsResolved(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AsString renders a resolved Module name or Tsr dimension list back to
// source-like text, as original_source's Type::as_string does for the
// (out-of-scope) codegen pass.
func AsString(t Type) string {
	switch v := t.(type) {
	case *TModule:
		return v.Name
	case *TTsr:
		parts := make([]string, len(v.Dims))
		for i, d := range v.Dims {
			parts[i] = AsString(d)
		}
		return strings.Join(parts, ", ")
	case *TDim:
		return "-1"
	case *TResolvedDim:
		return strconv.FormatInt(v.Value, 10)
	default:
		panic(fmt.Sprintf("AsString: unsupported type %T", t))
	}
}

// AsNum returns the concrete extent of a ResolvedDim.
func AsNum(t Type) (int64, bool) {
	rd, ok := t.(*TResolvedDim)
	if !ok {
		return 0, false
	}
	return rd.Value, true
}
