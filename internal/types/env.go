package types

import (
	"sort"
	"strconv"
)

// TensorTy is the untyped-AST tensor-type-signature shape consumed from
// the (external, out-of-scope) parser: either a list of dimension
// tokens (Generic) or a reference to a previously bound tensor alias.
type TensorTy interface{ isTensorTy() }

type TensorTyGeneric struct {
	Dims []string
	Sp   ByteSpan
}

type TensorTyAlias struct {
	Alias string
	Sp    ByteSpan
}

func (TensorTyGeneric) isTensorTy() {}
func (TensorTyAlias) isTensorTy()   {}

type moduleState struct {
	active  []*Scope // innermost at the back
	parked  []*Scope // popped scopes, front is the next to restore
	initMap map[string][]TyFnAppArg
}

func newModuleState() *moduleState {
	return &moduleState{
		active:  []*Scope{NewScope()},
		initMap: make(map[string][]TyFnAppArg),
	}
}

// TypeEnv is the process-wide object holding scopes, the fresh-variable
// counter, the module/alias registry, and the pending-verification set
// (spec.md §3, §4.B).
type TypeEnv struct {
	counter    TypeID
	currentMod ModName
	modules    map[ModName]*moduleState
	toVerify   []Type
	catalog    Catalog
}

// NewTypeEnv creates an empty environment bound to the given catalog
// (component F's external collaborator). catalog may be nil if the
// program never references a module function.
func NewTypeEnv(catalog Catalog) *TypeEnv {
	env := &TypeEnv{
		currentMod: Global,
		modules:    make(map[ModName]*moduleState),
		catalog:    catalog,
	}
	env.UpsertModule(Global)
	return env
}

// FreshVar increments the counter and returns a new Var.
func (env *TypeEnv) FreshVar(sp ByteSpan) Type {
	env.counter++
	return NewVar(env.counter, sp)
}

// FreshDim increments the counter and returns a new Dim.
func (env *TypeEnv) FreshDim(sp ByteSpan) Type {
	env.counter++
	return NewDim(env.counter, sp)
}

// UpsertModule ensures a module exists with an empty initial scope.
func (env *TypeEnv) UpsertModule(m ModName) {
	if _, ok := env.modules[m]; !ok {
		env.modules[m] = newModuleState()
	}
}

func (env *TypeEnv) state(m ModName) *moduleState {
	st, ok := env.modules[m]
	if !ok {
		st = newModuleState()
		env.modules[m] = st
	}
	return st
}

// PushScope appends a fresh scope to module m's active stack. The
// module must already exist (via UpsertModule) — mirrors
// original_source's unwrap() on a missing module.
func (env *TypeEnv) PushScope(m ModName) {
	st := env.modules[m]
	if st == nil {
		panic("PushScope: module not registered, call UpsertModule first")
	}
	st.active = append(st.active, NewScope())
}

// PopScope moves the top of the active stack to the parked stack.
func (env *TypeEnv) PopScope(m ModName) {
	st := env.modules[m]
	n := len(st.active)
	popped := st.active[n-1]
	st.active = st.active[:n-1]
	st.parked = append(st.parked, popped)
}

// PushScopeCollection moves the front of the parked stack back onto the
// active stack, so the same binder structure is walked twice (once
// during annotation, once during constraint collection) without losing
// lexical order.
func (env *TypeEnv) PushScopeCollection(m ModName) {
	st := env.modules[m]
	scp := st.parked[0]
	st.parked = st.parked[1:]
	st.active = append(st.active, scp)
}

// AddType inserts alias -> ty in the current (innermost active) scope
// of module m, auto-creating the module if absent. A non-nil return
// means the alias was already bound in that scope; the original
// binding is left in place (the traversal continues unshadowed, §7).
func (env *TypeEnv) AddType(m ModName, a Alias, ty Type) *Diagnostic {
	st := env.state(m)
	if len(st.active) == 0 {
		st.active = append(st.active, NewScope())
	}
	top := st.active[len(st.active)-1]
	if orig, ok := top.Get(a); ok {
		return NewDuplicateVarInScope(a.Name, orig, ty)
	}
	top.Insert(a, ty)
	return nil
}

// AddTypeAllowDup inserts alias -> ty in the current scope, overwriting
// any existing binding. Mirrors original_source's add_type_allow_dup
// (§12): reserved for the external annotation pass re-binding a loop
// induction variable across iterations of the same scope; it bypasses
// the Scope invariant §3 requires everywhere else.
func (env *TypeEnv) AddTypeAllowDup(m ModName, a Alias, ty Type) {
	st := env.state(m)
	if len(st.active) == 0 {
		st.active = append(st.active, NewScope())
	}
	st.active[len(st.active)-1].ForceInsert(a, ty)
}

// AddInit records the initialisation arguments a stateful alias (e.g. a
// Linear layer instance) was constructed with (§12).
func (env *TypeEnv) AddInit(m ModName, alias string, args []TyFnAppArg) {
	st := env.state(m)
	st.initMap[alias] = args
}

// ResolveInit retrieves the initialisation arguments recorded for alias.
func (env *TypeEnv) ResolveInit(m ModName, alias string) ([]TyFnAppArg, bool) {
	st := env.modules[m]
	if st == nil {
		return nil, false
	}
	args, ok := st.initMap[alias]
	return args, ok
}

// Exists reports whether alias is bound anywhere in module m's active
// scope stack (not following the Global fallback).
func (env *TypeEnv) Exists(m ModName, a Alias) bool {
	_, ok := env.resolveTypeInner(m, a)
	return ok
}

// ResolveType searches module m from innermost scope outward; if
// absent there, retries in Global. Returns the last-seen (most
// recently shadowing) binding.
func (env *TypeEnv) ResolveType(m ModName, a Alias) (Type, bool) {
	if t, ok := env.resolveTypeInner(m, a); ok {
		return t, true
	}
	if m == Global {
		return nil, false
	}
	return env.resolveTypeInner(Global, a)
}

func (env *TypeEnv) resolveTypeInner(m ModName, a Alias) (Type, bool) {
	st := env.modules[m]
	if st == nil {
		return nil, false
	}
	for i := len(st.active) - 1; i >= 0; i-- {
		if t, ok := st.active[i].Get(a); ok {
			return t, true
		}
	}
	return nil, false
}

// AddDimAlias binds alias to a fresh Dim.
func (env *TypeEnv) AddDimAlias(m ModName, a Alias, sp ByteSpan) *Diagnostic {
	return env.AddType(m, a, env.FreshDim(sp))
}

// AddResolvedDimAlias binds alias to a concrete ResolvedDim.
func (env *TypeEnv) AddResolvedDimAlias(m ModName, a Alias, n int64, sp ByteSpan) *Diagnostic {
	return env.AddType(m, a, NewResolvedDim(n, sp))
}

// AddTsrAlias ensures each dim token in tsr has a binding (creating
// fresh Dims for unseen ones), then binds alias -> Tsr(resolved dims).
func (env *TypeEnv) AddTsrAlias(m ModName, a Alias, tsr []string, sp ByteSpan) *Diagnostic {
	for _, tok := range tsr {
		if _, err := strconv.ParseInt(tok, 10, 64); err == nil {
			continue
		}
		da := NewVariableAlias(tok)
		if !env.Exists(m, da) {
			env.AddDimAlias(m, da, sp)
		}
	}
	tsrTy := env.CreateTensor(m, tsr, sp)
	return env.AddType(m, a, tsrTy)
}

// CreateTensor builds a Tsr from a dimension-token list: a token
// parsing as i64 becomes ResolvedDim; otherwise it's looked up by
// alias, falling back to a fresh Dim if unseen, and if the resolved
// alias is itself a Tsr its dimensions are spliced in (flattened).
func (env *TypeEnv) CreateTensor(m ModName, dims []string, sp ByteSpan) Type {
	var flat []Type
	for _, tok := range dims {
		if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
			flat = append(flat, NewResolvedDim(n, sp))
			continue
		}
		alias := NewVariableAlias(tok)
		ty, ok := env.ResolveType(m, alias)
		if !ok {
			ty = env.FreshDim(sp)
		}
		if tsr, isTsr := ty.(*TTsr); isTsr {
			flat = append(flat, tsr.Dims...)
		} else {
			flat = append(flat, ty)
		}
	}
	return NewTsr(flat, sp)
}

// ResolveTensor dispatches on TensorTy's concrete shape.
func (env *TypeEnv) ResolveTensor(m ModName, sig TensorTy, sp ByteSpan) Type {
	switch v := sig.(type) {
	case TensorTyGeneric:
		return env.CreateTensor(m, v.Dims, v.Sp)
	case TensorTyAlias:
		ty, ok := env.ResolveType(m, NewVariableAlias(v.Alias))
		if !ok {
			panic("ResolveTensor: unbound tensor alias " + v.Alias)
		}
		return ty.WithSpan(v.Sp)
	default:
		panic("ResolveTensor: unknown TensorTy variant")
	}
}

// ImportTopLevelTySig pre-registers the dimension aliases appearing in a
// top-level tensor type signature before the body is walked, so
// dimension variables introduced in a declared signature are visible
// to the body even before any argument is bound to them (§12, grounded
// on original_source's import_top_level_ty_sig).
func (env *TypeEnv) ImportTopLevelTySig(m ModName, sig TensorTy) {
	generic, ok := sig.(TensorTyGeneric)
	if !ok {
		return
	}
	for _, tok := range generic.Dims {
		if _, err := strconv.ParseInt(tok, 10, 64); err == nil {
			continue
		}
		a := NewVariableAlias(tok)
		if !env.Exists(m, a) {
			env.AddDimAlias(m, a, generic.Sp)
		}
	}
}

// ImportModule delegates to the catalog for the initial method list and
// registers each method's catalog-supplied type under Function(name) in
// module Named(mod).
func (env *TypeEnv) ImportModule(path, mod string) *Diagnostic {
	if env.catalog == nil {
		return NewSymbolNotFound(mod, NoSpan)
	}
	methods, ok := env.catalog.Import(path, mod)
	if !ok {
		return NewSymbolNotFound(mod, NoSpan)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	for _, meth := range methods {
		env.AddType(Named(mod), NewFunctionAlias(meth.Name), meth.Ty)
	}
	return nil
}

// ResolveUnresolved requires ty to be an UnresolvedModuleFun, asserts
// fnName matches its recorded method, and delegates to the catalog
// (§4.F). A nil Diagnostic with a nil Type means the catalog could not
// yet resolve the call (not an error — the caller re-queues).
func (env *TypeEnv) ResolveUnresolved(ty Type, fnName string, argTy, retTy Type, args []TyFnAppArg, inits []TyFnAppArg) (Type, *Diagnostic) {
	umf, ok := ty.(*TUnresolvedModuleFun)
	if !ok {
		panic("ResolveUnresolved: not an UnresolvedModuleFun")
	}
	if fnName != umf.Method {
		panic("ResolveUnresolved: fn_name does not match the deferred method")
	}
	if env.catalog == nil {
		return nil, NewSymbolNotFound(umf.Module, umf.Sp)
	}
	op, ok := env.catalog.Find(umf.Path, umf.Module)
	if !ok {
		return nil, NewSymbolNotFound(umf.Module, umf.Sp)
	}
	resolved, ok := op.Resolve(env, fnName, argTy, retTy, args, inits)
	if !ok {
		return nil, nil
	}
	return resolved, nil
}

// AddUnverified appends t to the to_verify set (deduplicated by
// structural equality, not identity).
func (env *TypeEnv) AddUnverified(t Type) {
	for _, existing := range env.toVerify {
		if existing.Equals(t) {
			return
		}
	}
	env.toVerify = append(env.toVerify, t)
}

// ToVerify returns the types deferred for a post-unification structural
// check, in insertion order.
func (env *TypeEnv) ToVerify() []Type {
	out := make([]Type, len(env.toVerify))
	copy(out, env.toVerify)
	return out
}

// Module returns the module currently being traversed.
func (env *TypeEnv) Module() ModName { return env.currentMod }

// SetModule sets the module currently being traversed.
func (env *TypeEnv) SetModule(m ModName) { env.currentMod = m }
