// Package physics holds the pure kinematic kernel shared by the projectile
// simulation sweep and server-side hit validation. Both callers must feed the
// same dt domain (seconds, wall-clock-relative) or validation drifts.
package physics

import "math"

// Vec3 is a 3-component vector in world units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Length()
}

// Normalize returns the unit vector, or the zero vector unchanged.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return Vec3{}
	}
	return v.Scale(1 / length)
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// PositionAt integrates position under constant acceleration:
// p0 + v0*dt + 0.5*a*dt².
func PositionAt(p0, v0, a Vec3, dt float64) Vec3 {
	return p0.Add(v0.Scale(dt)).Add(a.Scale(0.5 * dt * dt))
}

// VelocityAt integrates velocity under constant acceleration: v0 + a*dt.
func VelocityAt(v0, a Vec3, dt float64) Vec3 {
	return v0.Add(a.Scale(dt))
}
