package types

import "fmt"

// DiagnosticKind identifies the shape of a recorded failure (spec.md §6).
type DiagnosticKind string

const (
	DuplicateVarInScope  DiagnosticKind = "duplicate_var_in_scope"
	DimensionMismatch    DiagnosticKind = "dimension_mismatch"
	RankMismatch         DiagnosticKind = "rank_mismatch"
	ArityMismatch        DiagnosticKind = "arity_mismatch"
	ParameterNameMismatch DiagnosticKind = "parameter_name_mismatch"
	IncompatibleTypes    DiagnosticKind = "incompatible_types"
	CircularType         DiagnosticKind = "circular_type"
	SymbolNotFound       DiagnosticKind = "symbol_not_found"
)

// Diagnostic is a recoverable failure recorded during environment
// population (§7 class 1) or unification (§7 class 2). It carries at
// least one span and the offending type term(s); a SymbolNotFound
// carries only the module name in its message and no type term.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	Terms   []Type
	Spans   []ByteSpan
}

func (d *Diagnostic) Error() string { return d.Message }

// String formats the diagnostic for CLI/REPL display.
func (d *Diagnostic) String() string { return d.Message }

// NewDuplicateVarInScope reports a scope re-binding an alias already present.
func NewDuplicateVarInScope(alias string, orig, attempted Type) *Diagnostic {
	return &Diagnostic{
		Kind:    DuplicateVarInScope,
		Message: fmt.Sprintf("duplicate variable %q in scope: already bound to %s, cannot rebind to %s", alias, orig.String(), attempted.String()),
		Terms:   []Type{orig, attempted},
		Spans:   []ByteSpan{orig.Span(), attempted.Span()},
	}
}

// NewDimensionMismatch reports two ResolvedDims equated with different values.
func NewDimensionMismatch(a, b *TResolvedDim) *Diagnostic {
	return &Diagnostic{
		Kind:    DimensionMismatch,
		Message: fmt.Sprintf("dimension mismatch: %d != %d", a.Value, b.Value),
		Terms:   []Type{a, b},
		Spans:   []ByteSpan{a.Sp, b.Sp},
	}
}

// NewRankMismatch reports two Tsr types with differing dimension counts.
func NewRankMismatch(a, b *TTsr) *Diagnostic {
	return &Diagnostic{
		Kind:    RankMismatch,
		Message: fmt.Sprintf("rank mismatch: %d != %d", len(a.Dims), len(b.Dims)),
		Terms:   []Type{a, b},
		Spans:   []ByteSpan{a.Sp, b.Sp},
	}
}

// NewArityMismatch reports two FnArgs with differing lengths.
func NewArityMismatch(a, b *TFnArgs) *Diagnostic {
	return &Diagnostic{
		Kind:    ArityMismatch,
		Message: fmt.Sprintf("arity mismatch: %d != %d", len(a.Args), len(b.Args)),
		Terms:   []Type{a, b},
		Spans:   []ByteSpan{a.Sp, b.Sp},
	}
}

// NewParameterNameMismatch reports two named FnArgs equated under
// different names.
func NewParameterNameMismatch(a, b *TFnArg) *Diagnostic {
	return &Diagnostic{
		Kind:    ParameterNameMismatch,
		Message: fmt.Sprintf("supplied parameter name is incorrect: %q != %q", *a.Name, *b.Name),
		Terms:   []Type{a, b},
		Spans:   []ByteSpan{a.Sp, b.Sp},
	}
}

// NewIncompatibleTypes reports any other irreconcilable variant pair.
func NewIncompatibleTypes(a, b Type) *Diagnostic {
	return &Diagnostic{
		Kind:    IncompatibleTypes,
		Message: fmt.Sprintf("cannot unify %s with %s", a.String(), b.String()),
		Terms:   []Type{a, b},
		Spans:   []ByteSpan{a.Span(), b.Span()},
	}
}

// NewCircularType reports an occurs-check failure.
func NewCircularType(tvar TypeID, t Type) *Diagnostic {
	return &Diagnostic{
		Kind:    CircularType,
		Message: fmt.Sprintf("infinite type: variable %d occurs in %s", tvar, t.String()),
		Terms:   []Type{t},
		Spans:   []ByteSpan{t.Span()},
	}
}

// NewSymbolNotFound reports that the catalog could not find (path, module).
func NewSymbolNotFound(module string, sp ByteSpan) *Diagnostic {
	return &Diagnostic{
		Kind:    SymbolNotFound,
		Message: fmt.Sprintf("symbol not found: module %q", module),
		Spans:   []ByteSpan{sp},
	}
}
