package repl

import (
	"github.com/tensorscript/tsinfer/internal/typesyntax"
	"github.com/tensorscript/tsinfer/internal/types"
)

// ParseConstraintLine reads "typeA = typeB" in the shared minimal type
// syntax (internal/typesyntax) and returns the two sides ready to feed
// the unifier.
func ParseConstraintLine(env *types.TypeEnv, line string) (a, b types.Type, err error) {
	return typesyntax.ParseEquation(env, line)
}
