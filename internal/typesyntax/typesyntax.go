// Package typesyntax implements the one small textual type syntax
// shared by the operator catalog's YAML signatures, the REPL's
// constraint lines, and constraint scripts: int, float, bool, and
// tsr[d1,d2,...] with bare identifiers naming dimension variables. It
// is deliberately not the DSL's real surface syntax, which remains out
// of this engine's scope.
package typesyntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tensorscript/tsinfer/internal/types"
)

// Env is the subset of *types.TypeEnv the parser needs to mint fresh
// dimension variables for unnamed or first-seen tokens.
type Env interface {
	FreshDim(sp types.ByteSpan) types.Type
}

// Symbols tracks dimension names already seen within one parse so that
// repeated identifiers share a single fresh Dim.
type Symbols map[string]types.Type

// ParseType parses one type expression: int, float, bool, or
// tsr[dim,dim,...].
func ParseType(env Env, text string, syms Symbols) (types.Type, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "int":
		return types.NewInt(types.NoSpan), nil
	case text == "float":
		return types.NewFloat(types.NoSpan), nil
	case text == "bool":
		return types.NewBool(types.NoSpan), nil
	case strings.HasPrefix(text, "tsr[") && strings.HasSuffix(text, "]"):
		inner := text[len("tsr[") : len(text)-1]
		var dims []types.Type
		for _, tok := range strings.Split(inner, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			d, err := ParseDim(env, tok, syms)
			if err != nil {
				return nil, err
			}
			dims = append(dims, d)
		}
		return types.NewTsr(dims, types.NoSpan), nil
	default:
		if syms != nil {
			if v, ok := syms[text]; ok {
				return v, nil
			}
		}
		return nil, fmt.Errorf("typesyntax: unrecognised type %q", text)
	}
}

// ParseDim parses one dimension token: an integer literal becomes a
// ResolvedDim, "_" a fresh always-distinct Dim, and any other
// identifier a Dim shared with any earlier occurrence of the same name
// within syms.
func ParseDim(env Env, tok string, syms Symbols) (types.Type, error) {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return types.NewResolvedDim(n, types.NoSpan), nil
	}
	if tok == "_" {
		return env.FreshDim(types.NoSpan), nil
	}
	if d, ok := syms[tok]; ok {
		return d, nil
	}
	d := env.FreshDim(types.NoSpan)
	if syms != nil {
		syms[tok] = d
	}
	return d, nil
}

// ParseSig parses "type -> type", used by the operator catalog's YAML
// signatures.
func ParseSig(env Env, text string) (param, ret types.Type, err error) {
	sides := strings.SplitN(text, "->", 2)
	if len(sides) != 2 {
		return nil, nil, fmt.Errorf("typesyntax: signature %q missing '->'", text)
	}
	syms := make(Symbols)
	param, err = ParseType(env, sides[0], syms)
	if err != nil {
		return nil, nil, err
	}
	ret, err = ParseType(env, sides[1], syms)
	if err != nil {
		return nil, nil, err
	}
	return param, ret, nil
}

// ParseEquation parses "typeA = typeB", used by the REPL and
// constraint scripts.
func ParseEquation(env Env, text string) (a, b types.Type, err error) {
	sides := strings.SplitN(text, "=", 2)
	if len(sides) != 2 {
		return nil, nil, fmt.Errorf("typesyntax: expected \"typeA = typeB\", got %q", text)
	}
	syms := make(Symbols)
	a, err = ParseType(env, sides[0], syms)
	if err != nil {
		return nil, nil, err
	}
	b, err = ParseType(env, sides[1], syms)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
