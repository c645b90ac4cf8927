package layerfx

import (
	"math"
	"testing"
)

func TestFalloffScenario(t *testing.T) {
	// radius=1.0, smoothness=0.8: plateau to d=0.2, cutoff at d=1.0.
	tests := []struct {
		d    float64
		want float64 // -1 means strictly inside (0, 1)
	}{
		{0.0, 1},
		{0.2, 1},
		{0.6, -1},
		{1.0, 0},
		{1.5, 0},
	}
	for _, tt := range tests {
		g := Falloff(tt.d, 1.0, 0.8)
		if tt.want == -1 {
			if g <= 0 || g >= 1 {
				t.Errorf("Falloff(%v, 1.0, 0.8) = %v, want in (0, 1)", tt.d, g)
			}
			continue
		}
		if g != tt.want {
			t.Errorf("Falloff(%v, 1.0, 0.8) = %v, want %v", tt.d, g, tt.want)
		}
	}
}

func TestFalloffMonotone(t *testing.T) {
	// For any r, s in [0,1], coverage never increases as distance grows,
	// holds 1 on the inner plateau and 0 at and beyond the radius.
	for _, r := range []float64{0, 0.25, 0.5, 1.0} {
		for _, s := range []float64{0, 0.1, 0.5, 1.0} {
			prev := math.Inf(1)
			for d := 0.0; d <= 2.0; d += 0.01 {
				g := Falloff(d, r, s)
				if g > prev+1e-12 {
					t.Fatalf("Falloff(%v, %v, %v) = %v increased from %v", d, r, s, g, prev)
				}
				if d <= r-s && d < r && g != 1 {
					t.Fatalf("Falloff(%v, %v, %v) = %v, want 1 on plateau", d, r, s, g)
				}
				if d >= r && g != 0 {
					t.Fatalf("Falloff(%v, %v, %v) = %v, want 0 past radius", d, r, s, g)
				}
				prev = g
			}
		}
	}
}

func TestFalloffZeroRadius(t *testing.T) {
	for _, d := range []float64{0, 0.001, 0.5, 1} {
		for _, s := range []float64{0, 0.5, 1} {
			if g := Falloff(d, 0, s); g != 0 {
				t.Errorf("Falloff(%v, 0, %v) = %v, want 0", d, s, g)
			}
		}
	}
}

func TestFalloffNegativeSmoothness(t *testing.T) {
	// A negative smoothness reverses the edge order: coverage rises with
	// distance, 0 at the center and 1 at and beyond radius-smoothness.
	// With a zero radius the shape stays empty at the exact center.
	if g := Falloff(0, 0, -0.5); g != 0 {
		t.Errorf("Falloff(0, 0, -0.5) = %v, want 0", g)
	}
	if g := Falloff(0.25, 0, -0.5); g <= 0 || g >= 1 {
		t.Errorf("Falloff(0.25, 0, -0.5) = %v, want in (0, 1)", g)
	}
	for _, d := range []float64{0.5, 1, 2} {
		if g := Falloff(d, 0, -0.5); g != 1 {
			t.Errorf("Falloff(%v, 0, -0.5) = %v, want 1", d, g)
		}
	}
	// Same orientation with a non-zero radius: empty inside the radius,
	// full past radius-smoothness.
	if g := Falloff(0.1, 0.2, -0.3); g != 0 {
		t.Errorf("Falloff(0.1, 0.2, -0.3) = %v, want 0", g)
	}
	if g := Falloff(0.6, 0.2, -0.3); g != 1 {
		t.Errorf("Falloff(0.6, 0.2, -0.3) = %v, want 1", g)
	}
}

func TestFalloffInvertedBand(t *testing.T) {
	// smoothness > radius is accepted, not clamped. The plateau edge
	// moves below zero so only the cubic region and the cutoff remain.
	g := Falloff(0, 0.3, 0.9)
	if g <= 0 || g >= 1 {
		t.Errorf("Falloff(0, 0.3, 0.9) = %v, want in (0, 1)", g)
	}
	if g := Falloff(0.3, 0.3, 0.9); g != 0 {
		t.Errorf("Falloff(0.3, 0.3, 0.9) = %v, want 0", g)
	}
}

func TestFalloffAt(t *testing.T) {
	// Center of texture space maps to distance zero.
	if g := FalloffAt(0.5, 0.5, 0.5, 0.25); g != 1 {
		t.Errorf("FalloffAt(center) = %v, want 1", g)
	}
	// Corners are at distance sqrt(2), outside any unit radius.
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if g := FalloffAt(c[0], c[1], 1.0, 0.5); g != 0 {
			t.Errorf("FalloffAt(%v, %v) = %v, want 0", c[0], c[1], g)
		}
	}
	// Midpoint of an edge is at distance exactly 1.
	if g := FalloffAt(1.0, 0.5, 1.0, 0.5); g != 0 {
		t.Errorf("FalloffAt(edge midpoint) = %v, want 0", g)
	}
}
