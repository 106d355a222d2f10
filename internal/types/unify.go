package types

// Unifier runs unify_one over a constraint set, accumulating the
// diagnostics it could not raise through a return value alone
// (spec.md §4.E).
type Unifier struct {
	diagnostics []*Diagnostic
}

// NewUnifier creates an empty unifier.
func NewUnifier() *Unifier { return &Unifier{} }

// Diagnostics returns every diagnostic recorded across all Unify calls
// made on this Unifier, in the order they were raised.
func (u *Unifier) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(u.diagnostics))
	copy(out, u.diagnostics)
	return out
}

func (u *Unifier) report(d *Diagnostic) {
	if d != nil {
		u.diagnostics = append(u.diagnostics, d)
	}
}

// Unify discharges every equation in cs, never aborting on a
// conflicting pair — it records a Diagnostic and substitutes identity
// for that equation instead (spec.md §7 class 2). Constraints is
// consumed (Pop mutates it); pass a fresh copy if the caller still
// needs the original set.
func (u *Unifier) Unify(cs *Constraints, env *TypeEnv) Substitution {
	eq, ok := cs.Pop()
	if !ok {
		return EmptySubstitution()
	}
	sigma1 := u.unifyOne(eq.A, eq.B, env)
	rest := cs.Apply(sigma1)
	sigma2 := u.Unify(rest, env)
	return sigma1.Compose(sigma2)
}

func isScalar(t Type) bool {
	switch t.(type) {
	case *TUnit, *TInt, *TFloat, *TBool:
		return true
	default:
		return false
	}
}

func (u *Unifier) unifyOne(a, b Type, env *TypeEnv) Substitution {
	// Identical scalar variants and Int<->ResolvedDim: identity.
	if isScalar(a) && isScalar(b) {
		switch a.(type) {
		case *TUnit:
			if _, ok := b.(*TUnit); ok {
				return EmptySubstitution()
			}
		case *TInt:
			if _, ok := b.(*TInt); ok {
				return EmptySubstitution()
			}
		case *TFloat:
			if _, ok := b.(*TFloat); ok {
				return EmptySubstitution()
			}
		case *TBool:
			if _, ok := b.(*TBool); ok {
				return EmptySubstitution()
			}
		}
	}
	if isIntResolvedDimPair(a, b) {
		return EmptySubstitution()
	}

	if ra, ok := a.(*TResolvedDim); ok {
		if rb, ok := b.(*TResolvedDim); ok {
			if ra.Value == rb.Value {
				return EmptySubstitution()
			}
			u.report(NewDimensionMismatch(ra, rb))
			return EmptySubstitution()
		}
	}

	if va, ok := a.(*TVar); ok {
		return u.unifyVar(va.ID, b)
	}
	if vb, ok := b.(*TVar); ok {
		return u.unifyVar(vb.ID, a)
	}
	if da, ok := a.(*TDim); ok {
		return u.unifyVar(da.ID, b)
	}
	if db, ok := b.(*TDim); ok {
		return u.unifyVar(db.ID, a)
	}

	if fa, ok := a.(*TFnArgs); ok {
		if fb, ok := b.(*TFnArgs); ok {
			return u.unifyFnArgs(fa, fb, env)
		}
	}

	if fa, ok := a.(*TFnArg); ok {
		if fb, ok := b.(*TFnArg); ok {
			return u.unifyFnArg(fa, fb, env)
		}
	}

	if fa, ok := a.(*TFun); ok {
		if fb, ok := b.(*TFun); ok {
			cs := NewConstraints()
			cs.Equals(fa.Param, fb.Param)
			cs.Equals(fa.Ret, fb.Ret)
			return u.Unify(cs, env)
		}
	}

	if ta, ok := a.(*TTsr); ok {
		if tb, ok := b.(*TTsr); ok {
			return u.unifyTsr(ta, tb, env)
		}
	}

	if ta, ok := a.(*TTuple); ok {
		if tb, ok := b.(*TTuple); ok {
			return u.unifyTuple(ta, tb, env)
		}
	}

	if ma, ok := a.(*TModule); ok {
		if mb, ok := b.(*TModule); ok {
			return u.unifyModule(ma, mb, env)
		}
	}

	if _, ok := a.(*TUnresolvedModuleFun); ok {
		return EmptySubstitution()
	}
	if _, ok := b.(*TUnresolvedModuleFun); ok {
		return EmptySubstitution()
	}

	u.report(NewIncompatibleTypes(a, b))
	return EmptySubstitution()
}

func isIntResolvedDimPair(a, b Type) bool {
	_, aInt := a.(*TInt)
	_, bInt := b.(*TInt)
	_, aRD := a.(*TResolvedDim)
	_, bRD := b.(*TResolvedDim)
	return (aInt && bRD) || (aRD && bInt)
}

func isVarOrDim(id TypeID, t Type) bool {
	switch v := t.(type) {
	case *TVar:
		return v.ID == id
	case *TDim:
		return v.ID == id
	default:
		return false
	}
}

// unifyVar implements unify_var(tvar, T): identity if T is the same
// variable, a CircularType diagnostic on an occurs-check failure, else
// a singleton binding.
func (u *Unifier) unifyVar(tvar TypeID, t Type) Substitution {
	if isVarOrDim(tvar, t) {
		return EmptySubstitution()
	}
	if occurs(tvar, t) {
		u.report(NewCircularType(tvar, t))
		return EmptySubstitution()
	}
	return SingletonSubstitution(tvar, t)
}

// occurs reports whether Var(tvar) or Dim(tvar) is reachable inside t
// via Fun param/return, FnArgs, FnArg, Tsr, Tuple, or Module-inner.
func occurs(tvar TypeID, t Type) bool {
	switch v := t.(type) {
	case *TVar:
		return v.ID == tvar
	case *TDim:
		return v.ID == tvar
	case *TFun:
		return occurs(tvar, v.Param) || occurs(tvar, v.Ret)
	case *TFnArgs:
		for _, a := range v.Args {
			if occurs(tvar, a) {
				return true
			}
		}
		return false
	case *TFnArg:
		return occurs(tvar, v.Inner)
	case *TTsr:
		for _, d := range v.Dims {
			if occurs(tvar, d) {
				return true
			}
		}
		return false
	case *TTuple:
		for _, e := range v.Elems {
			if occurs(tvar, e) {
				return true
			}
		}
		return false
	case *TModule:
		if v.Inner == nil {
			return false
		}
		return occurs(tvar, v.Inner)
	default:
		return false
	}
}

func (u *Unifier) unifyFnArgs(a, b *TFnArgs, env *TypeEnv) Substitution {
	if len(a.Args) != len(b.Args) {
		u.report(NewArityMismatch(a, b))
		return EmptySubstitution()
	}
	cs := NewConstraints()
	for i := range a.Args {
		cs.Equals(a.Args[i], b.Args[i])
	}
	return u.Unify(cs, env)
}

func (u *Unifier) unifyFnArg(a, b *TFnArg, env *TypeEnv) Substitution {
	if a.Name != nil && b.Name != nil {
		if *a.Name != *b.Name {
			u.report(NewParameterNameMismatch(a, b))
			return EmptySubstitution()
		}
		return u.unifyOne(a.Inner, b.Inner, env)
	}
	// FnArg(None, _) on either side: equate the inner types
	// unconditionally, per the restored subst.rs case.
	return u.unifyOne(a.Inner, b.Inner, env)
}

func (u *Unifier) unifyTsr(a, b *TTsr, env *TypeEnv) Substitution {
	if len(a.Dims) != len(b.Dims) {
		u.report(NewRankMismatch(a, b))
		return EmptySubstitution()
	}
	cs := NewConstraints()
	for i := range a.Dims {
		cs.Equals(a.Dims[i], b.Dims[i])
	}
	return u.Unify(cs, env)
}

func (u *Unifier) unifyTuple(a, b *TTuple, env *TypeEnv) Substitution {
	if len(a.Elems) != len(b.Elems) {
		u.report(NewIncompatibleTypes(a, b))
		return EmptySubstitution()
	}
	cs := NewConstraints()
	for i := range a.Elems {
		cs.Equals(a.Elems[i], b.Elems[i])
	}
	return u.Unify(cs, env)
}

// unifyModule requires both the name and, when both sides carry one,
// the inner type to match (Open Question (c)).
func (u *Unifier) unifyModule(a, b *TModule, env *TypeEnv) Substitution {
	if a.Name != b.Name {
		u.report(NewIncompatibleTypes(a, b))
		return EmptySubstitution()
	}
	if a.Inner == nil && b.Inner == nil {
		return EmptySubstitution()
	}
	if a.Inner == nil || b.Inner == nil {
		u.report(NewIncompatibleTypes(a, b))
		return EmptySubstitution()
	}
	cs := NewConstraints()
	cs.Equals(a.Inner, b.Inner)
	return u.Unify(cs, env)
}
