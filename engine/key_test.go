package engine

import "testing"

func TestPackKeyRoundTrip(t *testing.T) {
	cases := []struct{ hi, lo uint32 }{
		{0, 0},
		{1, 0},
		{0, 1},
		{0xffffffff, 0xffffffff},
		{0x12345678, 0x9abcdef0},
	}
	for _, tc := range cases {
		key := packKey(tc.hi, tc.lo)
		hi, lo := unpackKey(key)
		if hi != tc.hi || lo != tc.lo {
			t.Fatalf("packKey(%#x,%#x) round trip gave (%#x,%#x)", tc.hi, tc.lo, hi, lo)
		}
		if lowKey(key) != tc.lo {
			t.Fatalf("lowKey(%#x) = %#x, want %#x", key, lowKey(key), tc.lo)
		}
	}
}
