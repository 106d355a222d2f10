package types

import "sort"

// Equation is one `a = b` constraint generated while walking a typed
// program, to be discharged by the unifier (spec.md §4.C).
type Equation struct {
	A Type
	B Type
}

func (e Equation) key() uint64 {
	// Order-independent combination so Equals(a, b) and Equals(b, a)
	// collide to the same dedup key, matching a mathematical equation.
	return e.A.Hash() ^ e.B.Hash()
}

// Constraints is a deduplicated, order-preserving set of equations.
// Conceptually a set (spec.md §3), but the kernel always walks it in
// the order equations were inserted so two runs over the same program
// produce byte-identical diagnostics (spec.md §8 determinism).
type Constraints struct {
	order []Equation
	seen  map[uint64][]Equation
}

// NewConstraints creates an empty constraint set.
func NewConstraints() *Constraints {
	return &Constraints{seen: make(map[uint64][]Equation)}
}

// Equals adds the equation a = b, silently dropping exact duplicates
// (including the symmetric a=b / b=a case).
func (c *Constraints) Equals(a, b Type) {
	eq := Equation{A: a, B: b}
	k := eq.key()
	for _, existing := range c.seen[k] {
		if equationMatches(existing, eq) {
			return
		}
	}
	c.seen[k] = append(c.seen[k], eq)
	c.order = append(c.order, eq)
}

func equationMatches(x, y Equation) bool {
	if x.A.Equals(y.A) && x.B.Equals(y.B) {
		return true
	}
	return x.A.Equals(y.B) && x.B.Equals(y.A)
}

// IsEmpty reports whether the set holds no equations.
func (c *Constraints) IsEmpty() bool { return len(c.order) == 0 }

// Len returns the number of distinct equations.
func (c *Constraints) Len() int { return len(c.order) }

// List returns the equations in canonical (insertion) order.
func (c *Constraints) List() []Equation {
	out := make([]Equation, len(c.order))
	copy(out, c.order)
	return out
}

// Pop removes and returns the first equation in canonical order, used
// by the unifier's one-at-a-time reduction loop (spec.md §4.E).
func (c *Constraints) Pop() (Equation, bool) {
	if len(c.order) == 0 {
		return Equation{}, false
	}
	eq := c.order[0]
	c.order = c.order[1:]
	c.forget(eq)
	return eq, true
}

// forget removes exactly the matching equation from its hash bucket,
// leaving any other equation that happens to collide on the same key
// intact (Equation.key is an XOR of two FNV hashes, not collision-free).
func (c *Constraints) forget(eq Equation) {
	k := eq.key()
	bucket := c.seen[k]
	for i, existing := range bucket {
		if equationMatches(existing, eq) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(c.seen, k)
	} else {
		c.seen[k] = bucket
	}
}

// Apply rewrites every equation's two sides through sub, returning a
// new set in the same canonical order (duplicates introduced by the
// substitution collapse via the usual Equals dedup rule).
func (c *Constraints) Apply(sub Substitution) *Constraints {
	out := NewConstraints()
	for _, eq := range c.order {
		out.Equals(sub.ApplyTy(eq.A), sub.ApplyTy(eq.B))
	}
	return out
}

// SortedByHash is a deterministic alternate traversal order, used only
// where the spec calls for a hash-stable ordering independent of
// insertion sequence (e.g. a//b test fixtures comparing two builds of
// the same constraint set assembled in a different order).
func (c *Constraints) SortedByHash() []Equation {
	out := c.List()
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}
