// Package span defines the byte-range locations used everywhere in the
// pipeline, and the SourceMap that resolves them back to file/line/column.
package span

// Context is an opaque syntax-context handle, reserved for macro-expansion
// hygiene. It is currently always the zero value; two spans may only be
// merged when their contexts match.
type Context uint32

// RootContext is the context every span carries until macro expansion
// exists.
const RootContext Context = 0

// Span is a half-open byte range [Lo, Hi) into a SourceMap, tagged with a
// syntax context.
type Span struct {
	Lo, Hi uint32
	Ctxt   Context
}

// New builds a Span, panicking if the range is malformed. Lo > Hi is always
// a caller bug, not recoverable input.
func New(lo, hi uint32, ctxt Context) Span {
	if lo > hi {
		panic("span: lo > hi")
	}
	return Span{Lo: lo, Hi: hi, Ctxt: ctxt}
}

// Contains reports whether p falls within the half-open range [Lo, Hi).
func (s Span) Contains(p uint32) bool {
	return s.Lo <= p && p < s.Hi
}

// Len returns the number of bytes the span covers.
func (s Span) Len() uint32 {
	return s.Hi - s.Lo
}

// Merge returns the smallest span covering both s and other. It panics if
// the two spans carry different contexts, since merging across contexts
// would silently discard macro-hygiene information once it exists.
func (s Span) Merge(other Span) Span {
	if s.Ctxt != other.Ctxt {
		panic("span: cannot merge spans with different contexts")
	}
	lo, hi := s.Lo, s.Hi
	if other.Lo < lo {
		lo = other.Lo
	}
	if other.Hi > hi {
		hi = other.Hi
	}
	return Span{Lo: lo, Hi: hi, Ctxt: s.Ctxt}
}
