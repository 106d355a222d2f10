// Package script loads a YAML constraint document for the tsinfer
// command's "unify" subcommand: a flat list of "typeA = typeB" lines in
// the shared minimal type syntax (internal/typesyntax).
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tensorscript/tsinfer/internal/typesyntax"
	"github.com/tensorscript/tsinfer/internal/types"
)

type rawDoc struct {
	Constraints []string `yaml:"constraints"`
}

// Doc is a parsed constraint script, still in text form until
// Constraints instantiates it against a specific TypeEnv.
type Doc struct {
	lines []string
}

// Load reads and parses a constraint script from path.
func Load(path string) (*Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: reading %s: %w", path, err)
	}
	var raw rawDoc
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("script: parsing %s: %w", path, err)
	}
	return &Doc{lines: raw.Constraints}, nil
}

// Constraints instantiates every line against env and returns the
// resulting constraint set.
func (d *Doc) Constraints(env *types.TypeEnv) (*types.Constraints, error) {
	cs := types.NewConstraints()
	for i, line := range d.lines {
		a, b, err := typesyntax.ParseEquation(env, line)
		if err != nil {
			return nil, fmt.Errorf("script: line %d: %w", i+1, err)
		}
		cs.Equals(a, b)
	}
	return cs, nil
}
