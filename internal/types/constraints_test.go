package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestConstraints_DedupsSymmetricDuplicates(t *testing.T) {
	cs := NewConstraints()
	cs.Equals(NewVar(1, NoSpan), NewInt(NoSpan))
	cs.Equals(NewInt(NoSpan), NewVar(1, NoSpan)) // same equation, swapped
	assert.Equal(t, 1, cs.Len())
}

func TestConstraints_PreservesInsertionOrder(t *testing.T) {
	cs := NewConstraints()
	cs.Equals(NewVar(1, NoSpan), NewInt(NoSpan))
	cs.Equals(NewVar(2, NoSpan), NewFloat(NoSpan))
	cs.Equals(NewVar(3, NoSpan), NewBool(NoSpan))

	list := cs.List()
	assert.True(t, list[0].A.Equals(NewVar(1, NoSpan)))
	assert.True(t, list[1].A.Equals(NewVar(2, NoSpan)))
	assert.True(t, list[2].A.Equals(NewVar(3, NoSpan)))
}

func TestConstraints_PopDrainsInOrder(t *testing.T) {
	cs := NewConstraints()
	cs.Equals(NewVar(1, NoSpan), NewInt(NoSpan))
	cs.Equals(NewVar(2, NoSpan), NewFloat(NoSpan))

	eq, ok := cs.Pop()
	assert.True(t, ok)
	assert.True(t, eq.A.Equals(NewVar(1, NoSpan)))
	assert.Equal(t, 1, cs.Len())

	_, ok = cs.Pop()
	assert.True(t, ok)
	assert.True(t, cs.IsEmpty())

	_, ok = cs.Pop()
	assert.False(t, ok)
}

func TestConstraints_SortedByHashIsStableAcrossRuns(t *testing.T) {
	build := func() []string {
		cs := NewConstraints()
		cs.Equals(NewVar(3, NoSpan), NewBool(NoSpan))
		cs.Equals(NewVar(1, NoSpan), NewInt(NoSpan))
		cs.Equals(NewVar(2, NoSpan), NewFloat(NoSpan))
		out := make([]string, 0, 3)
		for _, eq := range cs.SortedByHash() {
			out = append(out, eq.A.String()+"="+eq.B.String())
		}
		return out
	}

	first, second := build(), build()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("SortedByHash order is not deterministic (-first +second):\n%s", diff)
	}
}

func TestConstraints_ForgetKeepsOtherEquationsInACollidingBucket(t *testing.T) {
	// Simulate two structurally-different equations that happen to
	// collide on the same Equation.key() (an XOR of two FNV hashes,
	// not collision-free). Forgetting one (as Pop does) must not also
	// forget the other one sharing that bucket.
	cs := NewConstraints()
	eqA := Equation{A: NewVar(1, NoSpan), B: NewInt(NoSpan)}
	eqB := Equation{A: NewVar(99, NoSpan), B: NewFloat(NoSpan)}
	const collidingKey = uint64(42)
	cs.seen[collidingKey] = []Equation{eqA, eqB}

	cs.forget(eqA)

	bucket, ok := cs.seen[collidingKey]
	assert.True(t, ok, "bucket must survive since eqB is still seen under it")
	assert.Len(t, bucket, 1)
	assert.True(t, equationMatches(bucket[0], eqB))

	cs.forget(eqB)
	_, ok = cs.seen[collidingKey]
	assert.False(t, ok, "bucket should be deleted once empty")
}

func TestConstraints_ApplyRewritesBothSides(t *testing.T) {
	cs := NewConstraints()
	cs.Equals(NewVar(1, NoSpan), NewVar(2, NoSpan))
	sub := Substitution{1: NewInt(NoSpan), 2: NewInt(NoSpan)}

	applied := cs.Apply(sub)
	eq, ok := applied.Pop()
	assert.True(t, ok)
	assert.True(t, eq.A.Equals(NewInt(NoSpan)))
	assert.True(t, eq.B.Equals(NewInt(NoSpan)))
}
