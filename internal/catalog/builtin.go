package catalog

import "github.com/tensorscript/tsinfer/internal/types"

// BuiltinCatalog is the catalog of neural-network module operators a
// program gets without any external configuration, grounded on the
// teacher's DictionaryRegistry pattern (internal/types/dictionaries.go):
// a flat map from a composite string key to a registered implementation,
// populated once in the constructor's registerBuiltins-equivalent.
type BuiltinCatalog struct {
	ops     map[string]types.Op
	imports map[string][]types.ImportedMethod
}

// NewBuiltinCatalog builds a catalog pre-populated with the standard
// tensor-shape operators (spec.md's PURPOSE & SCOPE names dimension
// reconciliation for "neural-network modules" as the motivating
// workload; Linear/Conv2d/ReLU/Sigmoid are the representative set).
func NewBuiltinCatalog() *BuiltinCatalog {
	c := &BuiltinCatalog{
		ops:     make(map[string]types.Op),
		imports: make(map[string][]types.ImportedMethod),
	}
	c.registerLinear()
	c.registerConv2d()
	c.registerElementwise("ReLU")
	c.registerElementwise("Sigmoid")
	return c
}

// Find implements types.Catalog.
func (c *BuiltinCatalog) Find(path, module string) (types.Op, bool) {
	op, ok := c.ops[key(path, module)]
	return op, ok
}

// Import implements types.Catalog.
func (c *BuiltinCatalog) Import(path, module string) ([]types.ImportedMethod, bool) {
	methods, ok := c.imports[key(path, module)]
	return methods, ok
}

func (c *BuiltinCatalog) register(path, module, method string, op opFunc) {
	k := key(path, module)
	c.ops[k] = op
	c.imports[k] = append(c.imports[k], types.ImportedMethod{
		Name: method,
		Ty:   types.NewUnresolvedModuleFun(path, module, method, types.NoSpan),
	})
}

// registerLinear wires nn.Linear(in_features, out_features).forward,
// which rewrites the trailing feature dimension of its input tensor
// while leaving leading (batch) dimensions as a single fresh Dim.
func (c *BuiltinCatalog) registerLinear() {
	c.register("nn", "Linear", "forward", func(env *types.TypeEnv, fnName string, argTy, retTy types.Type, args, inits []types.TyFnAppArg) (types.Type, bool) {
		if fnName != "forward" {
			return nil, false
		}
		inFeat, ok := findInitDim(inits, "in_features")
		if !ok {
			return nil, false
		}
		outFeat, ok := findInitDim(inits, "out_features")
		if !ok {
			return nil, false
		}
		batch := env.FreshDim(types.NoSpan)
		param := types.NewTsr([]types.Type{batch, types.NewResolvedDim(inFeat, types.NoSpan)}, types.NoSpan)
		ret := types.NewTsr([]types.Type{batch, types.NewResolvedDim(outFeat, types.NoSpan)}, types.NoSpan)
		return types.NewFun("Linear", "forward", param, ret, types.NoSpan), true
	})
}

// registerConv2d wires nn.Conv2d(in_channels, out_channels, ...).forward.
// Spatial dimension arithmetic (stride/padding/dilation) is a decoder
// concern outside this engine's scope (spec.md §1 Non-goals); height
// and width are carried through as fresh dimension variables so the
// channel count is still checked against the rest of the program.
func (c *BuiltinCatalog) registerConv2d() {
	c.register("nn", "Conv2d", "forward", func(env *types.TypeEnv, fnName string, argTy, retTy types.Type, args, inits []types.TyFnAppArg) (types.Type, bool) {
		if fnName != "forward" {
			return nil, false
		}
		inCh, ok := findInitDim(inits, "in_channels")
		if !ok {
			return nil, false
		}
		outCh, ok := findInitDim(inits, "out_channels")
		if !ok {
			return nil, false
		}
		batch := env.FreshDim(types.NoSpan)
		h := env.FreshDim(types.NoSpan)
		w := env.FreshDim(types.NoSpan)
		param := types.NewTsr([]types.Type{batch, types.NewResolvedDim(inCh, types.NoSpan), h, w}, types.NoSpan)
		ret := types.NewTsr([]types.Type{batch, types.NewResolvedDim(outCh, types.NoSpan), h, w}, types.NoSpan)
		return types.NewFun("Conv2d", "forward", param, ret, types.NoSpan), true
	})
}

// registerElementwise wires activation modules whose forward method is
// the identity on shape: param and ret are the same fresh Var, so
// whatever shape flows in unifies against whatever shape the caller
// expects out.
func (c *BuiltinCatalog) registerElementwise(module string) {
	c.register("nn", module, "forward", func(env *types.TypeEnv, fnName string, argTy, retTy types.Type, args, inits []types.TyFnAppArg) (types.Type, bool) {
		if fnName != "forward" {
			return nil, false
		}
		shape := env.FreshVar(types.NoSpan)
		return types.NewFun(module, "forward", shape, shape, types.NoSpan), true
	})
}
