package types

import "fmt"

// ByteSpan is a byte-offset range into the original source file. It is
// carried by every Type variant purely for diagnostics: it never
// participates in equality or hashing.
type ByteSpan struct {
	Start uint32
	End   uint32
}

// NoSpan is the zero-value span, used when a type is synthesized without
// a source location (e.g. by the catalog).
var NoSpan = ByteSpan{}

func (s ByteSpan) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// NewSpan builds a span from a pair of byte offsets.
func NewSpan(start, end uint32) ByteSpan {
	return ByteSpan{Start: start, End: end}
}
