package validation

import "testing"

func TestSanitizeForFormulaInjection(t *testing.T) {
	cases := []struct{ in, want string }{
		{"=SUM(A1:A10)", "'=SUM(A1:A10)"},
		{"+1234", "'+1234"},
		{"-123.45", "'-123.45"},
		{"@cmd", "'@cmd"},
		{" =1+2", "' =1+2"}, // detection ignores leading spaces, the original value is kept
		{"INV-2025-001", "INV-2025-001"},
		{"Uma Fabrics", "Uma Fabrics"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SanitizeForFormulaInjection(c.in); got != c.want {
			t.Errorf("SanitizeForFormulaInjection(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripUnprintable(t *testing.T) {
	in := "Uma\x00 Fabrics\x07 Pvt\x1b Ltd\t₹\n"
	want := "Uma Fabrics Pvt Ltd\t₹\n"
	if got := StripUnprintable(in); got != want {
		t.Errorf("StripUnprintable: got %q, want %q", got, want)
	}
	if got := StripUnprintable("already clean"); got != "already clean" {
		t.Errorf("clean input changed: got %q", got)
	}
}
