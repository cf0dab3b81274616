package physics

import (
	"math"
	"testing"
)

func TestVelocityMatchesConstantAcceleration(t *testing.T) {
	cases := []struct {
		name string
		v0   Vec3
		a    Vec3
		dt   float64
	}{
		{"at rest", Vec3{}, Vec3{0, -40, 0}, 1},
		{"forward throw", Vec3{0, 0, -50}, Vec3{0, -40, 0}, 0.25},
		{"zero dt", Vec3{3, 4, 5}, Vec3{0, -40, 0}, 0},
		{"long flight", Vec3{12, 9, -80}, Vec3{0, -40, 0}, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := VelocityAt(tc.v0, tc.a, tc.dt)
			want := tc.v0.Add(tc.a.Scale(tc.dt))
			if got != want {
				t.Fatalf("VelocityAt = %+v, want %+v", got, want)
			}
		})
	}
}

func TestPositionAtIsDeterministic(t *testing.T) {
	p0 := Vec3{1.5, 2.25, -3.75}
	v0 := Vec3{0.1, 49.9, -2.0}
	a := Vec3{0, -40, 0}

	first := PositionAt(p0, v0, a, 0.73)
	for i := 0; i < 100; i++ {
		if got := PositionAt(p0, v0, a, 0.73); got != first {
			t.Fatalf("re-derived position diverged on call %d: %+v != %+v", i, got, first)
		}
	}
}

func TestPositionAtMatchesScenario(t *testing.T) {
	// speed=50 along -Z with gravity 40 down: after 1s the projectile should
	// sit at roughly (0, -20, -50).
	origin := Vec3{}
	velocity := Vec3{0, 0, -1}.Scale(50)
	gravity := Vec3{0, -40, 0}

	got := PositionAt(origin, velocity, gravity, 1)
	want := Vec3{0, -20, -50}
	if got.DistanceTo(want) > 1e-9 {
		t.Fatalf("PositionAt = %+v, want %+v", got, want)
	}
}

func TestPositionDecomposition(t *testing.T) {
	// Average of start and end velocity times dt must equal displacement for
	// constant acceleration.
	p0 := Vec3{4, 8, 15}
	v0 := Vec3{16, 23, -42}
	a := Vec3{0, -40, 0}
	dt := 1.7

	p := PositionAt(p0, v0, a, dt)
	v := VelocityAt(v0, a, dt)
	displacement := p.Sub(p0)
	avg := v0.Add(v).Scale(0.5 * dt)
	if displacement.DistanceTo(avg) > 1e-9 {
		t.Fatalf("displacement %+v does not match average-velocity form %+v", displacement, avg)
	}
}

func TestNormalize(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Fatalf("normalizing zero vector should stay zero, got %+v", got)
	}
	got := Vec3{3, 0, 4}.Normalize()
	if math.Abs(got.Length()-1) > 1e-12 {
		t.Fatalf("expected unit length, got %v", got.Length())
	}
	if math.Abs(got.X-0.6) > 1e-12 || math.Abs(got.Z-0.8) > 1e-12 {
		t.Fatalf("unexpected direction %+v", got)
	}
}
