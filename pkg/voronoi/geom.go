package voronoi

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the fixed tolerance for every equality and sign test of the sweep.
const Epsilon = 1e-9

// Vertex is a point of the plane: an input site or a point of the diagram.
// The sweep line moves along increasing Y.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vertex) vec() r2.Vec {
	return r2.Vec{X: v.X, Y: v.Y}
}

func vertexOf(p r2.Vec) Vertex {
	return Vertex{X: p.X, Y: p.Y}
}

// sites are sorted by Y, then by X
type verticesByY []Vertex

func (s verticesByY) Len() int      { return len(s) }
func (s verticesByY) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s verticesByY) Less(i, j int) bool {
	if s[i].Y != s[j].Y {
		return s[i].Y < s[j].Y
	}
	return s[i].X < s[j].X
}

// ParabolaY returns the y coordinate at abscissa x of the parabola with focus
// site and directrix y = sweepY.
//
// The parabola degenerates into a vertical ray when sweepY == site.Y, the
// result is then ±Inf or NaN and callers must not rely on it.
func ParabolaY(site Vertex, sweepY, x float64) float64 {
	dx := x - site.X
	return ((sweepY*sweepY - site.Y*site.Y) - dx*dx) / (2 * (sweepY - site.Y))
}

// BreakpointX returns the abscissa where the arc of left meets the arc of right
// (left and right in beach line order) for the directrix y = sweepY.
//
// Equating both parabolas gives a·x² + b·x + c = 0 with a = right.Y - left.Y.
// Sites of equal height meet on their bisector whatever the sweep position.
// Otherwise the root (-b/2 - √D)/a is taken, always the same branch, which keeps
// the position continuous while the sweep advances. NaN is returned when the
// discriminant is negative, which a correctly ordered beach line never produces.
func BreakpointX(left, right Vertex, sweepY float64) float64 {
	x1, y1 := left.X, left.Y
	x2, y2 := right.X, right.Y

	a := y2 - y1
	if a == 0 {
		return (x1 + x2) / 2
	}

	// a site on the directrix has degenerated into a vertical ray
	switch sweepY {
	case y1:
		return x1
	case y2:
		return x2
	}

	halfB := (sweepY-y2)*x1 - (sweepY-y1)*x2
	c := (y1-y2)*sweepY*sweepY +
		(y2*y2-y1*y1+x2*x2-x1*x1)*sweepY +
		y2*x1*x1 - y1*x2*x2 + y1*y1*y2 - y2*y2*y1

	d := halfB*halfB - a*c
	if d < 0 {
		// rounding around a tangency
		if -d > Epsilon*math.Max(1, halfB*halfB) {
			return math.NaN()
		}
		d = 0
	}
	return (-halfB - math.Sqrt(d)) / a
}

// Circumcenter returns the point equidistant from the three sites. The
// perpendicular bisectors of (s1, s2) and (s1, s3) are solved with Cramer's
// rule; ok is false for collinear sites.
func Circumcenter(s1, s2, s3 Vertex) (c Vertex, ok bool) {
	b := r2.Sub(s2.vec(), s1.vec())
	d := r2.Sub(s3.vec(), s1.vec())

	det := 2 * r2.Cross(b, d)
	if math.Abs(det) < Epsilon {
		return Vertex{}, false
	}

	hb := r2.Norm2(b)
	hd := r2.Norm2(d)
	return Vertex{
		X: s1.X + (d.Y*hb-b.Y*hd)/det,
		Y: s1.Y + (b.X*hd-d.X*hb)/det,
	}, true
}

// CircleEventY returns the sweep coordinate at which the sweep line touches
// the bottom of the circle through the three sites.
func CircleEventY(s1, s2, s3 Vertex) (float64, bool) {
	c, ok := Circumcenter(s1, s2, s3)
	if !ok {
		return 0, false
	}
	return c.Y + r2.Norm(r2.Sub(s1.vec(), c.vec())), true
}

// Converging reports whether the two breakpoints bounding the arc of b, with a
// on its left and c on its right, move towards each other.
func Converging(a, b, c Vertex) bool {
	return r2.Cross(r2.Sub(a.vec(), b.vec()), r2.Sub(c.vec(), b.vec())) < 0
}

// RayStart is the point where the edge traced by the breakpoint (left, right)
// begins when it is born from a site event: the lower site's vertical ray hits
// the arc of the higher one. Sites of equal height trace their whole bisector,
// which starts at negative infinity.
func RayStart(left, right Vertex) Vertex {
	if left.Y == right.Y {
		return Vertex{X: (left.X + right.X) / 2, Y: math.Inf(-1)}
	}

	lower, higher := left, right
	if right.Y > left.Y {
		lower, higher = right, left
	}
	return Vertex{X: lower.X, Y: ParabolaY(higher, lower.Y, lower.X)}
}

// RayDirection is the direction along which the breakpoint (left, right) moves
// as the sweep advances.
func RayDirection(left, right Vertex) Vertex {
	return vertexOf(r2.Vec{X: -(right.Y - left.Y), Y: right.X - left.X})
}

func equalWithEpsilon(a, b float64) bool {
	return scalar.EqualWithinAbs(a, b, Epsilon)
}

// tolerance scaled by the magnitude of the compared values
func withinTolerance(a, b, scale float64) bool {
	return scalar.EqualWithinAbs(a, b, Epsilon*math.Max(1, scale))
}

func sameVertex(a, b Vertex) bool {
	return withinTolerance(a.X, b.X, math.Abs(a.X)) && withinTolerance(a.Y, b.Y, math.Abs(a.Y))
}
