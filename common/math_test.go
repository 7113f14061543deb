package common

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 0.5, -1, 1, 0.5},
		{"below", -2, -1, 1, -1},
		{"above", 3, -1, 1, 1},
		{"at_low_edge", -1, -1, 1, -1},
		{"at_high_edge", 1, -1, 1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Clamp(c.v, c.lo, c.hi); got != c.want {
				t.Fatalf("Clamp(%g, %g, %g) = %g, want %g", c.v, c.lo, c.hi, got, c.want)
			}
		})
	}
}
