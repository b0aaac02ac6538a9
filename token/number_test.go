package token

import "testing"

func TestSplitNumber(t *testing.T) {
	cases := []struct {
		lexeme    string
		digits    string
		base      int
		wantValid bool
	}{
		{"1234", "1234", 10, true},
		{"0FFh", "0FF", 16, true},
		{"101y", "101", 2, true},
		{"17o", "17", 8, true},
		{"9d", "9", 10, true},
		{"", "", 10, false},
		{"h", "", 16, false},
		{"2y", "", 2, false}, // 2 is not a valid binary digit
	}
	for _, c := range cases {
		digits, base, ok := SplitNumber(c.lexeme)
		if ok != c.wantValid {
			t.Errorf("SplitNumber(%q) ok = %v, want %v", c.lexeme, ok, c.wantValid)
			continue
		}
		if ok && (digits != c.digits || base != c.base) {
			t.Errorf("SplitNumber(%q) = (%q, %d), want (%q, %d)", c.lexeme, digits, base, c.digits, c.base)
		}
	}
}

func TestParseNumberWidthOverflow(t *testing.T) {
	if _, ok := ParseNumber("0FFFFFFFFh", 32); !ok {
		t.Errorf("ParseNumber(0FFFFFFFFh, 32) should fit exactly in 32 bits")
	}
	if _, ok := ParseNumber("100000000h", 32); ok {
		t.Errorf("ParseNumber(100000000h, 32) should overflow 32 bits")
	}
	if _, ok := ParseNumber("100000000h", 64); !ok {
		t.Errorf("ParseNumber(100000000h, 64) should fit in 64 bits")
	}
}

func TestParseNumberDecimal(t *testing.T) {
	v, ok := ParseNumber("42", 32)
	if !ok || v != 42 {
		t.Errorf("ParseNumber(42, 32) = (%d, %v), want (42, true)", v, ok)
	}
}
