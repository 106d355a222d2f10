package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeEnv_FreshCounterMonotonic(t *testing.T) {
	env := NewTypeEnv(nil)
	a := env.FreshVar(NoSpan).(*TVar)
	b := env.FreshVar(NoSpan).(*TVar)
	assert.Less(t, a.ID, b.ID)
}

func TestTypeEnv_AddTypeRejectsDuplicate(t *testing.T) {
	env := NewTypeEnv(nil)
	a := NewVariableAlias("x")

	assert.Nil(t, env.AddType(Global, a, NewInt(NoSpan)))
	dup := env.AddType(Global, a, NewFloat(NoSpan))
	require.NotNil(t, dup)
	assert.Equal(t, DuplicateVarInScope, dup.Kind)

	got, ok := env.ResolveType(Global, a)
	assert.True(t, ok)
	assert.True(t, got.Equals(NewInt(NoSpan)), "the original binding must survive a rejected insert")
}

func TestTypeEnv_ScopeShadowing(t *testing.T) {
	env := NewTypeEnv(nil)
	mod := Named("m")
	env.UpsertModule(mod)
	a := NewVariableAlias("x")

	env.AddType(mod, a, NewInt(NoSpan))
	env.PushScope(mod)
	env.AddType(mod, a, NewFloat(NoSpan))

	got, ok := env.ResolveType(mod, a)
	require.True(t, ok)
	assert.True(t, got.Equals(NewFloat(NoSpan)), "inner scope shadows outer")

	env.PopScope(mod)
	got, ok = env.ResolveType(mod, a)
	require.True(t, ok)
	assert.True(t, got.Equals(NewInt(NoSpan)), "popping the scope restores the outer binding")
}

func TestTypeEnv_ResolveFallsBackToGlobal(t *testing.T) {
	env := NewTypeEnv(nil)
	mod := Named("m")
	env.UpsertModule(mod)
	a := NewVariableAlias("pi")
	env.AddType(Global, a, NewFloat(NoSpan))

	got, ok := env.ResolveType(mod, a)
	require.True(t, ok)
	assert.True(t, got.Equals(NewFloat(NoSpan)))
}

func TestTypeEnv_PushScopeCollectionReplaysParkedScope(t *testing.T) {
	env := NewTypeEnv(nil)
	mod := Named("m")
	env.UpsertModule(mod)
	a := NewVariableAlias("i")

	env.PushScope(mod)
	env.AddType(mod, a, NewInt(NoSpan))
	env.PopScope(mod)

	assert.False(t, env.Exists(mod, a), "popped scope is no longer active")

	env.PushScopeCollection(mod)
	assert.True(t, env.Exists(mod, a), "parked scope becomes active again")
}

func TestTypeEnv_CreateTensorSplicesNestedAlias(t *testing.T) {
	env := NewTypeEnv(nil)
	env.AddTsrAlias(Global, NewVariableAlias("Image"), []string{"3", "28", "28"}, NoSpan)

	tsr := env.CreateTensor(Global, []string{"Image", "1"}, NoSpan)
	got, ok := tsr.(*TTsr)
	require.True(t, ok)
	require.Len(t, got.Dims, 4)
	assert.True(t, got.Dims[0].Equals(NewResolvedDim(3, NoSpan)))
	assert.True(t, got.Dims[3].Equals(NewResolvedDim(1, NoSpan)))
}

func TestTypeEnv_CreateTensorFreshDimForUnseenAlias(t *testing.T) {
	env := NewTypeEnv(nil)
	tsr := env.CreateTensor(Global, []string{"n"}, NoSpan).(*TTsr)
	require.Len(t, tsr.Dims, 1)
	_, isDim := tsr.Dims[0].(*TDim)
	assert.True(t, isDim)
}

func TestTypeEnv_AddInitAndResolveInit(t *testing.T) {
	env := NewTypeEnv(nil)
	name := "in_features"
	args := []TyFnAppArg{{Name: &name, Ty: NewResolvedDim(128, NoSpan)}}
	env.AddInit(Global, "layer1", args)

	got, ok := env.ResolveInit(Global, "layer1")
	require.True(t, ok)
	assert.Equal(t, args, got)

	_, ok = env.ResolveInit(Global, "layer2")
	assert.False(t, ok)
}

func TestTypeEnv_AddUnverifiedDedupsStructurally(t *testing.T) {
	env := NewTypeEnv(nil)
	env.AddUnverified(NewInt(NewSpan(0, 1)))
	env.AddUnverified(NewInt(NewSpan(9, 9)))
	assert.Len(t, env.ToVerify(), 1)
}

func TestTypeEnv_AddTypeAllowDupOverwritesWithoutDiagnostic(t *testing.T) {
	env := NewTypeEnv(nil)
	a := NewVariableAlias("i")

	assert.Nil(t, env.AddType(Global, a, NewInt(NoSpan)))
	env.AddTypeAllowDup(Global, a, NewFloat(NoSpan))

	got, ok := env.ResolveType(Global, a)
	require.True(t, ok)
	assert.True(t, got.Equals(NewFloat(NoSpan)), "AddTypeAllowDup must overwrite the prior binding")
}

func TestTypeEnv_ImportTopLevelTySigPreRegistersDimAliases(t *testing.T) {
	env := NewTypeEnv(nil)
	mod := Named("m")
	env.UpsertModule(mod)

	sig := TensorTyGeneric{Dims: []string{"b", "28", "b"}, Sp: NoSpan}
	env.ImportTopLevelTySig(mod, sig)

	assert.True(t, env.Exists(mod, NewVariableAlias("b")), "dim alias from the signature must be visible before the body is walked")

	tsr := env.CreateTensor(mod, sig.Dims, NoSpan).(*TTsr)
	require.Len(t, tsr.Dims, 3)
	assert.True(t, tsr.Dims[0].Equals(tsr.Dims[2]), "repeated dim name in the signature shares one variable")
}

// fakeOp is a minimal types.Op used to exercise TypeEnv's catalog bridge
// without importing internal/catalog (which imports types, so a direct
// import here would cycle).
type fakeOp struct {
	resolved Type
	ok       bool
}

func (f fakeOp) Resolve(env *TypeEnv, fnName string, argTy, retTy Type, args, inits []TyFnAppArg) (Type, bool) {
	return f.resolved, f.ok
}

// fakeCatalog is a minimal types.Catalog backed by a single registered op.
type fakeCatalog struct {
	path, module string
	op           Op
	methods      []ImportedMethod
}

func (c *fakeCatalog) Find(path, module string) (Op, bool) {
	if path == c.path && module == c.module {
		return c.op, true
	}
	return nil, false
}

func (c *fakeCatalog) Import(path, module string) ([]ImportedMethod, bool) {
	if path == c.path && module == c.module {
		return c.methods, true
	}
	return nil, false
}

func TestTypeEnv_ImportModuleRegistersSortedMethods(t *testing.T) {
	cat := &fakeCatalog{
		path: "nn", module: "Linear",
		methods: []ImportedMethod{
			{Name: "forward", Ty: NewUnresolvedModuleFun("nn", "Linear", "forward", NoSpan)},
			{Name: "backward", Ty: NewUnresolvedModuleFun("nn", "Linear", "backward", NoSpan)},
		},
	}
	env := NewTypeEnv(cat)

	diag := env.ImportModule("nn", "Linear")
	assert.Nil(t, diag)

	_, ok := env.ResolveType(Named("Linear"), NewFunctionAlias("forward"))
	assert.True(t, ok)
	_, ok = env.ResolveType(Named("Linear"), NewFunctionAlias("backward"))
	assert.True(t, ok)

	order := env.modules[Named("Linear")].active[0].order
	assert.Equal(t, []Alias{NewFunctionAlias("backward"), NewFunctionAlias("forward")}, order)
}

func TestTypeEnv_ImportModuleMissingReportsSymbolNotFound(t *testing.T) {
	env := NewTypeEnv(nil)
	diag := env.ImportModule("nn", "Unknown")
	require.NotNil(t, diag)
	assert.Equal(t, SymbolNotFound, diag.Kind)

	cat := &fakeCatalog{path: "nn", module: "Linear"}
	env2 := NewTypeEnv(cat)
	diag2 := env2.ImportModule("nn", "Unknown")
	require.NotNil(t, diag2)
	assert.Equal(t, SymbolNotFound, diag2.Kind)
}

func TestTypeEnv_ResolveUnresolvedDelegatesToCatalog(t *testing.T) {
	resolved := NewFun("Linear", "forward", NewInt(NoSpan), NewFloat(NoSpan), NoSpan)
	cat := &fakeCatalog{path: "nn", module: "Linear", op: fakeOp{resolved: resolved, ok: true}}
	env := NewTypeEnv(cat)

	umf := NewUnresolvedModuleFun("nn", "Linear", "forward", NoSpan)
	got, diag := env.ResolveUnresolved(umf, "forward", nil, nil, nil, nil)
	assert.Nil(t, diag)
	assert.True(t, got.Equals(resolved))
}

func TestTypeEnv_ResolveUnresolvedOpDeclinesReturnsNilNil(t *testing.T) {
	cat := &fakeCatalog{path: "nn", module: "Linear", op: fakeOp{ok: false}}
	env := NewTypeEnv(cat)

	umf := NewUnresolvedModuleFun("nn", "Linear", "forward", NoSpan)
	got, diag := env.ResolveUnresolved(umf, "forward", nil, nil, nil, nil)
	assert.Nil(t, got)
	assert.Nil(t, diag, "a declined resolution is not itself an error; the caller re-queues")
}

func TestTypeEnv_ResolveUnresolvedMissingOpReportsSymbolNotFound(t *testing.T) {
	env := NewTypeEnv(nil)
	umf := NewUnresolvedModuleFun("nn", "Linear", "forward", NoSpan)
	got, diag := env.ResolveUnresolved(umf, "forward", nil, nil, nil, nil)
	assert.Nil(t, got)
	require.NotNil(t, diag)
	assert.Equal(t, SymbolNotFound, diag.Kind)
}

func TestTypeEnv_ResolveUnresolvedPanicsOnFnNameMismatch(t *testing.T) {
	env := NewTypeEnv(nil)
	umf := NewUnresolvedModuleFun("nn", "Linear", "forward", NoSpan)
	assert.Panics(t, func() {
		env.ResolveUnresolved(umf, "backward", nil, nil, nil, nil)
	})
}
