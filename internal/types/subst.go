package types

// Substitution maps a type/dimension variable id to the Type it stands
// for. Keyed by TypeID rather than by Type itself, since only Var and
// Dim ever appear on the left-hand side (spec.md §4.D, §9(b)).
type Substitution map[TypeID]Type

// EmptySubstitution returns the identity substitution.
func EmptySubstitution() Substitution { return Substitution{} }

// SingletonSubstitution binds one variable id to ty.
func SingletonSubstitution(id TypeID, ty Type) Substitution {
	return Substitution{id: ty}
}

// ApplyTy rewrites every Var/Dim reachable inside t through sub,
// recursing into every composite variant. A variable absent from sub
// is left as-is.
func (sub Substitution) ApplyTy(t Type) Type {
	switch v := t.(type) {
	case *TVar:
		if repl, ok := sub[v.ID]; ok {
			return sub.ApplyTy(repl)
		}
		return t
	case *TDim:
		if repl, ok := sub[v.ID]; ok {
			return sub.ApplyTy(repl)
		}
		return t
	case *TTuple:
		elems := make([]Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = sub.ApplyTy(e)
		}
		return &TTuple{Elems: elems, Sp: v.Sp}
	case *TTsr:
		dims := make([]Type, len(v.Dims))
		for i, d := range v.Dims {
			dims[i] = sub.ApplyTy(d)
		}
		return &TTsr{Dims: dims, Sp: v.Sp}
	case *TFnArg:
		return &TFnArg{Name: v.Name, Inner: sub.ApplyTy(v.Inner), Sp: v.Sp}
	case *TFnArgs:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = sub.ApplyTy(a)
		}
		return &TFnArgs{Args: args, Sp: v.Sp}
	case *TFun:
		return &TFun{
			Module: v.Module,
			Method: v.Method,
			Param:  sub.ApplyTy(v.Param),
			Ret:    sub.ApplyTy(v.Ret),
			Sp:     v.Sp,
		}
	case *TModule:
		if v.Inner == nil {
			return t
		}
		return &TModule{Name: v.Name, Inner: sub.ApplyTy(v.Inner), Sp: v.Sp}
	default:
		// Unit, Int, Float, Bool, ResolvedDim, UnresolvedModuleFun carry
		// no variable and are returned unchanged.
		return t
	}
}

// Compose produces the substitution equivalent to applying sub first,
// then other: for every binding in sub, other is applied to its
// right-hand side; the result is then extended with other's raw
// entries, which overwrite on conflict. This matches
// original_source's compose (`self_substituted.extend(other.0)`,
// where HashMap::extend overwrites with the incoming value on
// collision) — other wins, not sub.
func (sub Substitution) Compose(other Substitution) Substitution {
	out := make(Substitution, len(sub)+len(other))
	for id, ty := range sub {
		out[id] = other.ApplyTy(ty)
	}
	for id, ty := range other {
		out[id] = ty
	}
	return out
}
