package voronoi

// BreakpointID is a stable handle of a breakpoint inside one sweep.
type BreakpointID int

// NoBreakpoint is the zero handle used by events that do not reference breakpoints.
const NoBreakpoint BreakpointID = -1

// Breakpoint is the boundary between two adjacent arcs of the beach line.
// Left and Right are the sites of those arcs in beach line order.
type Breakpoint struct {
	ID    BreakpointID `json:"id"`
	Left  Vertex       `json:"left"`
	Right Vertex       `json:"right"`

	// RayStart is where the traced edge begins.
	RayStart Vertex `json:"rayStart"`
	// SegmentEnd is set once, by the circle event that consumes the breakpoint.
	// A breakpoint without it is an unbounded ray.
	SegmentEnd *Vertex `json:"segmentEnd,omitempty"`
}

// X returns the breakpoint position for the directrix y = sweepY.
func (bp *Breakpoint) X(sweepY float64) float64 {
	return BreakpointX(bp.Left, bp.Right, sweepY)
}

func (bp *Breakpoint) Direction() Vertex {
	return RayDirection(bp.Left, bp.Right)
}

func (bp *Breakpoint) Bounded() bool {
	return bp.SegmentEnd != nil
}

// arena owns every breakpoint of a sweep. Breakpoints are never freed, the
// diagram keeps referring to them after they leave the beach line.
type arena struct {
	items []*Breakpoint
}

func (a *arena) alloc(left, right, rayStart Vertex) *Breakpoint {
	bp := &Breakpoint{
		ID:       BreakpointID(len(a.items)),
		Left:     left,
		Right:    right,
		RayStart: rayStart,
	}
	a.items = append(a.items, bp)
	return bp
}

func (a *arena) get(id BreakpointID) *Breakpoint {
	if id < 0 || int(id) >= len(a.items) {
		return nil
	}
	return a.items[id]
}

func (a *arena) len() int {
	return len(a.items)
}
