package voronoi

import "math"

// Edge groups the breakpoints created together: the pair born from a site
// event, or the single breakpoint of a circle event or of the initial chain.
type Edge struct {
	Rays []BreakpointID `json:"rays"`
}

// Diagram is the append-only output of the sweep.
type Diagram struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`

	// vertices emitted at the current sweep coordinate, to merge cocircular events
	bandY float64
	band  []Vertex
}

// addVertex appends v unless it coincides with a vertex already emitted at the
// same sweep coordinate y. Cocircular sites make several circle events meet there.
func (d *Diagram) addVertex(y float64, v Vertex) bool {
	if len(d.band) == 0 || !withinTolerance(y, d.bandY, math.Abs(y)) {
		d.bandY = y
		d.band = d.band[:0]
	}
	for _, seen := range d.band {
		if sameVertex(seen, v) {
			return false
		}
	}
	d.band = append(d.band, v)
	d.Vertices = append(d.Vertices, v)
	return true
}

func (d *Diagram) addEdge(rays ...BreakpointID) {
	d.Edges = append(d.Edges, Edge{Rays: rays})
}

func (d *Diagram) clone() Diagram {
	out := Diagram{
		Vertices: make([]Vertex, len(d.Vertices)),
		Edges:    make([]Edge, len(d.Edges)),
	}
	copy(out.Vertices, d.Vertices)
	for i, e := range d.Edges {
		out.Edges[i] = Edge{Rays: append([]BreakpointID(nil), e.Rays...)}
	}
	return out
}

// Ray is the geometric trace of one breakpoint: a half-line from Start along
// Direction, or a segment from Start to End once Bounded.
type Ray struct {
	Breakpoint BreakpointID `json:"breakpoint"`
	Start      Vertex       `json:"start"`
	Direction  Vertex       `json:"direction"`
	End        Vertex       `json:"end"`
	Bounded    bool         `json:"bounded"`
}

func rayOf(bp *Breakpoint) Ray {
	r := Ray{
		Breakpoint: bp.ID,
		Start:      bp.RayStart,
		Direction:  bp.Direction(),
	}
	if bp.SegmentEnd != nil {
		r.End = *bp.SegmentEnd
		r.Bounded = true
	}
	return r
}
