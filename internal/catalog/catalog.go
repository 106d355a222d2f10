// Package catalog provides concrete implementations of the
// types.Catalog/types.Op contract that component F of the inference
// engine defers to when it meets an UnresolvedModuleFun: the built-in
// neural-network operator set (BuiltinCatalog) and a YAML-configurable
// fixed-signature set (YAMLCatalog).
package catalog

import "github.com/tensorscript/tsinfer/internal/types"

// key builds the composite lookup key a registry indexes entries
// under, following the "namespace::name" idiom the teacher's
// DictionaryRegistry uses for its own string keys.
func key(path, module string) string {
	return path + "::" + module
}

// opFunc adapts a plain function to types.Op, the same
// closures-as-dictionary-entries idiom the teacher's
// DictionaryRegistry uses for its type-class method implementations.
type opFunc func(env *types.TypeEnv, fnName string, argTy, retTy types.Type, args, inits []types.TyFnAppArg) (types.Type, bool)

func (f opFunc) Resolve(env *types.TypeEnv, fnName string, argTy, retTy types.Type, args, inits []types.TyFnAppArg) (types.Type, bool) {
	return f(env, fnName, argTy, retTy, args, inits)
}

// findInit returns the value type of the named initialisation argument.
func findInit(inits []types.TyFnAppArg, name string) (types.Type, bool) {
	for _, a := range inits {
		if a.Name != nil && *a.Name == name {
			return a.Ty, true
		}
	}
	return nil, false
}

// findInitDim resolves a named init argument to a concrete extent.
func findInitDim(inits []types.TyFnAppArg, name string) (int64, bool) {
	ty, ok := findInit(inits, name)
	if !ok {
		return 0, false
	}
	return types.AsNum(ty)
}

// Chain tries each catalog in order, returning the first hit. Used to
// layer a YAML-configured catalog over the built-in one without either
// needing to know about the other.
type Chain []types.Catalog

func (c Chain) Find(path, module string) (types.Op, bool) {
	for _, cat := range c {
		if op, ok := cat.Find(path, module); ok {
			return op, true
		}
	}
	return nil, false
}

func (c Chain) Import(path, module string) ([]types.ImportedMethod, bool) {
	for _, cat := range c {
		if methods, ok := cat.Import(path, module); ok {
			return methods, true
		}
	}
	return nil, false
}
