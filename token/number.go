package token

import "strings"

// suffixBase maps a case-folded numeric base suffix letter to its base, per
// §4.1: "h y b o q d t" for hex, binary (y is an alternate binary suffix in
// this dialect), binary, octal, octal, decimal, decimal.
var suffixBase = map[byte]int{
	'H': 16,
	'Y': 2,
	'B': 2,
	'O': 8,
	'Q': 8,
	'D': 10,
	'T': 10,
}

// SplitNumber separates a number lexeme into its digit run and base. When
// the last character is a recognized suffix letter, it is stripped and its
// base used; otherwise the whole lexeme is decimal digits. ok is false when
// the digit run is empty or contains a character invalid for the resolved
// base — the lexical-validity check behind CONSTANT_PARSE_ERROR.
func SplitNumber(lexeme string) (digits string, base int, ok bool) {
	if lexeme == "" {
		return "", 10, false
	}
	last := lexeme[len(lexeme)-1]
	upperLast := byte(strings.ToUpper(string(last))[0])
	if b, isSuffix := suffixBase[upperLast]; isSuffix && len(lexeme) > 1 {
		digits = lexeme[:len(lexeme)-1]
		base = b
	} else {
		digits = lexeme
		base = 10
	}
	if digits == "" {
		return digits, base, false
	}
	for i := 0; i < len(digits); i++ {
		if !validDigit(digits[i], base) {
			return digits, base, false
		}
	}
	return digits, base, true
}

func validDigit(c byte, base int) bool {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return false
	}
	return v < base
}

// ParseNumber parses a number lexeme into its unsigned value using up to
// bits of width. ok is false if the lexeme is lexically invalid or the
// value does not fit in bits. This is used by the semantic evaluator, not
// the lexer: the lexer only validates lexical shape (SplitNumber), while
// the evaluator additionally enforces the width appropriate to context
// (32-bit normally, 64-bit inside a DQ initializer at depth 1, per §4.5).
func ParseNumber(lexeme string, bits int) (value uint64, ok bool) {
	digits, base, valid := SplitNumber(lexeme)
	if !valid {
		return 0, false
	}
	var maxVal uint64
	if bits >= 64 {
		maxVal = ^uint64(0)
	} else {
		maxVal = (uint64(1) << uint(bits)) - 1
	}
	var result uint64
	baseU := uint64(base)
	for i := 0; i < len(digits); i++ {
		v := digitValue(digits[i])
		// Overflow-safe accumulation: reject before result*base+v can wrap
		// or exceed maxVal.
		if result > (maxVal-v)/baseU {
			return 0, false
		}
		result = result*baseU + v
	}
	return result, true
}

func digitValue(c byte) uint64 {
	switch {
	case c >= '0' && c <= '9':
		return uint64(c - '0')
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return uint64(c-'A') + 10
	default:
		return 0
	}
}
