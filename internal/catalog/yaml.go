package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tensorscript/tsinfer/internal/types"
)

// entryConfig is one YAML-configured operator signature.
type entryConfig struct {
	Path   string `yaml:"path"`
	Module string `yaml:"module"`
	Method string `yaml:"method"`
	Sig    string `yaml:"sig"`
}

type catalogConfig struct {
	Entries []entryConfig `yaml:"entries"`
}

// YAMLCatalog is a Catalog whose operator signatures come from an
// on-disk document instead of Go source, for modules whose shape
// doesn't depend on instance-specific init args (e.g. Flatten,
// Identity) — the teacher's own on-disk configuration (internal/schema,
// internal/manifest) is likewise yaml.v3-backed.
type YAMLCatalog struct {
	entries map[string]entryConfig
	imports map[string][]types.ImportedMethod
}

// LoadYAMLCatalog reads and parses a catalog document from path.
func LoadYAMLCatalog(path string) (*YAMLCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
	}
	var cfg catalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("catalog: parsing %s: %w", path, err)
	}
	return newYAMLCatalog(cfg), nil
}

func newYAMLCatalog(cfg catalogConfig) *YAMLCatalog {
	c := &YAMLCatalog{
		entries: make(map[string]entryConfig),
		imports: make(map[string][]types.ImportedMethod),
	}
	for _, e := range cfg.Entries {
		k := key(e.Path, e.Module)
		c.entries[k] = e
		c.imports[k] = append(c.imports[k], types.ImportedMethod{
			Name: e.Method,
			Ty:   types.NewUnresolvedModuleFun(e.Path, e.Module, e.Method, types.NoSpan),
		})
	}
	return c
}

// Find implements types.Catalog.
func (c *YAMLCatalog) Find(path, module string) (types.Op, bool) {
	entry, ok := c.entries[key(path, module)]
	if !ok {
		return nil, false
	}
	return opFunc(func(env *types.TypeEnv, fnName string, argTy, retTy types.Type, args, inits []types.TyFnAppArg) (types.Type, bool) {
		if fnName != entry.Method {
			return nil, false
		}
		param, ret, err := parseSig(env, entry.Sig)
		if err != nil {
			return nil, false
		}
		return types.NewFun(entry.Module, entry.Method, param, ret, types.NoSpan), true
	}), true
}

// Import implements types.Catalog.
func (c *YAMLCatalog) Import(path, module string) ([]types.ImportedMethod, bool) {
	methods, ok := c.imports[key(path, module)]
	return methods, ok
}
