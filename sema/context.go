// Package sema implements the two-pass semantic analyzer (§4.4): a
// pre-pass that registers every declared symbol, pass 1 which evaluates
// expressions and computes layout top-down while deferring anything that
// references a not-yet-resolvable symbol, and pass 2 which re-evaluates
// only the deferred lines once every symbol's value is known.
package sema

// ExprContext carries the handful of evaluation-site flags the original
// analyzer threads through every expression visit (original_source's
// ExprCtxtFlags bitset, spelled out here as a plain struct since Go has no
// idiomatic bitset-of-bools convention the rest of the pack uses).
type ExprContext struct {
	// AllowRegisters permits Register-kind leaves and the register-
	// carrying operators (`*`, `[]`, ImplicitPlus). False inside e.g. an
	// EQU/EQUAL right-hand side or a record field width.
	AllowRegisters bool

	// AllowForwardReferences permits an identifier leaf to reference a
	// symbol that hasn't been visited yet, deferring to pass 2 instead of
	// raising UNDEFINED_SYMBOL immediately. True for instruction operands
	// and most data initializers; false for e.g. a record field width,
	// which must be known immediately.
	AllowForwardReferences bool

	// InDQDepth1 is true for a Number leaf that is a direct (depth-1)
	// child of a DQ initializer, selecting 64-bit width in ParseNumber
	// instead of the usual 32-bit width (§4.5).
	InDQDepth1 bool

	// InDBDepth1 is true for a StringLiteral leaf that is a direct
	// (depth-1) child of a DB initializer, selecting the byte-array
	// reading instead of the little-endian-packed-integer reading
	// (§4.5).
	InDBDepth1 bool
}

// withRegisters returns a copy of c with AllowRegisters set, used when
// descending into a context that permits them (e.g. inside `[]`).
func (c ExprContext) withRegisters(v bool) ExprContext {
	c.AllowRegisters = v
	return c
}

