package voronoi

import "math"

// Bounding Box
type BoundingBox struct {
	Xl, Xr, Yt, Yb float64
}

// Create new Bounding Box
func NewBoundingBox(xl, xr, yt, yb float64) BoundingBox {
	return BoundingBox{xl, xr, yt, yb}
}

func (b BoundingBox) Contains(v Vertex) bool {
	return v.X >= b.Xl && v.X <= b.Xr && v.Y >= b.Yt && v.Y <= b.Yb
}

// Segment is a finite piece of an edge.
type Segment struct {
	A Vertex `json:"a"`
	B Vertex `json:"b"`
}

// Clip cuts the ray to the box. It reports false when nothing of the ray lies
// inside or the visible part degenerates to a point.
func (r Ray) Clip(bbox BoundingBox) (Segment, bool) {
	origin := r.Start
	t0, t1 := 0.0, math.Inf(1)

	var d Vertex
	switch {
	case math.IsInf(origin.Y, -1):
		// vertical bisector coming from the top of the plane
		origin = Vertex{X: origin.X, Y: bbox.Yt}
		if r.Bounded {
			if r.End.Y < bbox.Yt {
				return Segment{}, false
			}
			d = Vertex{X: 0, Y: r.End.Y - origin.Y}
			t1 = 1
		} else {
			if r.Direction.Y <= 0 {
				return Segment{}, false
			}
			d = Vertex{X: 0, Y: r.Direction.Y}
		}
	case r.Bounded:
		d = Vertex{X: r.End.X - origin.X, Y: r.End.Y - origin.Y}
		t1 = 1
	default:
		d = r.Direction
	}

	// Liang-Barsky: one (p, q) pair per side, left right top bottom
	sides := [4][2]float64{
		{-d.X, origin.X - bbox.Xl},
		{d.X, bbox.Xr - origin.X},
		{-d.Y, origin.Y - bbox.Yt},
		{d.Y, bbox.Yb - origin.Y},
	}
	for _, side := range sides {
		p, q := side[0], side[1]
		if p == 0 {
			if q < 0 {
				return Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return Segment{}, false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return Segment{}, false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	if math.IsInf(t1, 1) {
		return Segment{}, false
	}

	seg := Segment{
		A: Vertex{X: origin.X + t0*d.X, Y: origin.Y + t0*d.Y},
		B: Vertex{X: origin.X + t1*d.X, Y: origin.Y + t1*d.Y},
	}
	if equalWithEpsilon(seg.A.X, seg.B.X) && equalWithEpsilon(seg.A.Y, seg.B.Y) {
		return Segment{}, false
	}
	return seg, true
}

// ClipRays clips every ray and drops the invisible ones.
func ClipRays(rays []Ray, bbox BoundingBox) []Segment {
	out := make([]Segment, 0, len(rays))
	for _, r := range rays {
		if seg, ok := r.Clip(bbox); ok {
			out = append(out, seg)
		}
	}
	return out
}
