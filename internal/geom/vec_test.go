package geom

import (
	"math"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestVec3_Normalize(t *testing.T) {
	tests := map[string]struct {
		in  Vec3
		exp Vec3
	}{
		"zero stays zero": {in: Vec3{}, exp: Vec3{}},
		"axis aligned":    {in: V(0, 0, -3), exp: V(0, 0, -1)},
		"diagonal":        {in: V(3, 0, 4), exp: V(0.6, 0, 0.8)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.DistanceTo(tt.exp) > 1e-9 {
				t.Errorf("Normalize(%v) = %v, expected %v", tt.in, got, tt.exp)
			}
		})
	}
}

func TestVec3_DistanceTo(t *testing.T) {
	testutil.AssertEqual(t, "distance", V(0, 0, 1).DistanceTo(V(0, 0, -2)), 3.0)
	testutil.AssertEqual(t, "flat distance", V(1, 5, 1).Flat().DistanceTo(V(1, 0, 1)), 0.0)
}

func TestVec3_Clamp(t *testing.T) {
	got := V(7, 2, -9).Clamp(4.7)
	testutil.AssertEqual(t, "x", got.X, 4.7)
	testutil.AssertEqual(t, "y", got.Y, 2.0)
	testutil.AssertEqual(t, "z", got.Z, -4.7)
}

func TestVec3_Length(t *testing.T) {
	if math.Abs(V(1, 2, 2).Length()-3) > 1e-12 {
		t.Errorf("expected length 3, got %v", V(1, 2, 2).Length())
	}
}

func TestVec3_FlatDistanceTo(t *testing.T) {
	got := V(0, 0.25, 1).FlatDistanceTo(V(0, 0.4, -2))
	testutil.AssertEqual(t, "distance", got, 3.0)
}
