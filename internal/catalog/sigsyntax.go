package catalog

import (
	"github.com/tensorscript/tsinfer/internal/typesyntax"
	"github.com/tensorscript/tsinfer/internal/types"
)

// parseSig instantiates a YAML-configured "type -> type" signature
// against env, via the shared minimal type syntax (internal/typesyntax).
func parseSig(env *types.TypeEnv, text string) (param, ret types.Type, err error) {
	return typesyntax.ParseSig(env, text)
}
