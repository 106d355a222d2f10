package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlias_NormalizesUnicode(t *testing.T) {
	// Same word, two encodings: a precomposed e-acute codepoint (NFC)
	// versus plain "e" followed by a standalone combining acute accent
	// (NFD) — visually identical, different bytes until normalized.
	nfc := "caf" + string(rune(0x00E9))
	nfd := "cafe" + string(rune(0x0301))
	assert.NotEqual(t, nfc, nfd, "test fixture sanity: the two byte sequences must differ")
	assert.Equal(t, NewVariableAlias(nfc), NewVariableAlias(nfd))
}

func TestAlias_VariableAndFunctionDistinct(t *testing.T) {
	v := NewVariableAlias("x")
	f := NewFunctionAlias("x")
	assert.NotEqual(t, v, f)
}

func TestScope_InsertRejectsDuplicate(t *testing.T) {
	s := NewScope()
	a := NewVariableAlias("x")
	assert.True(t, s.Insert(a, NewInt(NoSpan)))
	assert.False(t, s.Insert(a, NewFloat(NoSpan)))

	got, ok := s.Get(a)
	assert.True(t, ok)
	assert.True(t, got.Equals(NewInt(NoSpan)), "original binding must survive a rejected insert")
}

func TestScope_ForceInsertOverwrites(t *testing.T) {
	s := NewScope()
	a := NewVariableAlias("i")
	s.Insert(a, NewResolvedDim(0, NoSpan))
	s.ForceInsert(a, NewResolvedDim(1, NoSpan))

	got, _ := s.Get(a)
	assert.True(t, got.Equals(NewResolvedDim(1, NoSpan)))
}

func TestScope_AliasesDeterministicOrder(t *testing.T) {
	s := NewScope()
	s.Insert(NewVariableAlias("b"), NewInt(NoSpan))
	s.Insert(NewVariableAlias("a"), NewInt(NoSpan))
	s.Insert(NewFunctionAlias("a"), NewInt(NoSpan))

	names := s.Aliases()
	assert.Equal(t, []Alias{
		NewVariableAlias("a"),
		NewVariableAlias("b"),
		NewFunctionAlias("a"),
	}, names)
}

func TestModName_GlobalVsNamed(t *testing.T) {
	assert.NotEqual(t, Global, Named("nn"))
	assert.Equal(t, Named("nn"), Named("nn"))
}
