package utils

import "testing"

func TestIntInRange(t *testing.T) {
	cases := []struct {
		s           string
		def, lo, hi int
		want        int
	}{
		{"", 1, 1, 500, 1},
		{"  ", 10, 1, 50, 10},
		{"7", 1, 1, 500, 7},
		{" 42 ", 1, 1, 500, 42},
		{"0", 1, 1, 500, 1},
		{"-3", 10, 1, 50, 1},
		{"600", 1, 1, 500, 500},
		{"abc", 10, 1, 50, 10},
		{"999999999999999999999999", 1, 1, 500, 1},
	}
	for _, tc := range cases {
		if got := IntInRange(tc.s, tc.def, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("IntInRange(%q, %d, %d, %d) = %d; want %d", tc.s, tc.def, tc.lo, tc.hi, got, tc.want)
		}
	}
}
