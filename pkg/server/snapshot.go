package server

import (
	"math"
	"strconv"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

// number encodes infinite and NaN values as null, which JSON cannot carry.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

type point struct {
	X number `json:"x"`
	Y number `json:"y"`
}

func pointOf(v voronoi.Vertex) point {
	return point{X: number(v.X), Y: number(v.Y)}
}

type eventState struct {
	Y      number `json:"y"`
	Kind   string `json:"kind"`
	Site   *point `json:"site,omitempty"`
	Left   *int   `json:"left,omitempty"`
	Right  *int   `json:"right,omitempty"`
	Center *point `json:"center,omitempty"`
}

type breakpointState struct {
	ID         int    `json:"id"`
	Left       point  `json:"left"`
	Right      point  `json:"right"`
	X          number `json:"x"`
	RayStart   point  `json:"rayStart"`
	SegmentEnd *point `json:"segmentEnd,omitempty"`
}

type rayState struct {
	Breakpoint int    `json:"breakpoint"`
	Start      point  `json:"start"`
	Direction  point  `json:"direction"`
	End        *point `json:"end,omitempty"`
}

// Snapshot is the JSON view of a sweep between two steps.
type Snapshot struct {
	SweepY    number            `json:"sweepY"`
	Done      bool              `json:"done"`
	Steps     int               `json:"steps"`
	Next      *number           `json:"next,omitempty"`
	Queue     []eventState      `json:"queue"`
	BeachLine []breakpointState `json:"beachLine"`
	Vertices  []point           `json:"vertices"`
	Edges     [][]rayState      `json:"edges"`
	Error     string            `json:"error,omitempty"`
}

func snapshotOf(sw *voronoi.Sweep) Snapshot {
	s := Snapshot{
		SweepY:    number(sw.SweepY()),
		Done:      sw.Done(),
		Steps:     sw.Steps(),
		Queue:     []eventState{},
		BeachLine: []breakpointState{},
		Vertices:  []point{},
		Edges:     [][]rayState{},
	}
	if y, ok := sw.NextEventY(); ok {
		n := number(y)
		s.Next = &n
	}
	if err := sw.Err(); err != nil {
		s.Error = err.Error()
	}

	for _, ev := range sw.Queue() {
		s.Queue = append(s.Queue, eventStateOf(ev))
	}
	for _, bp := range sw.BeachLine() {
		s.BeachLine = append(s.BeachLine, breakpointState{
			ID:         int(bp.ID),
			Left:       pointOf(bp.Left),
			Right:      pointOf(bp.Right),
			X:          number(bp.X(sw.SweepY())),
			RayStart:   pointOf(bp.RayStart),
			SegmentEnd: optionalPoint(bp.SegmentEnd),
		})
	}

	d := sw.Diagram()
	for _, v := range d.Vertices {
		s.Vertices = append(s.Vertices, pointOf(v))
	}
	for _, edge := range d.Edges {
		rays := make([]rayState, 0, len(edge.Rays))
		for _, id := range edge.Rays {
			bp, ok := sw.Breakpoint(id)
			if !ok {
				continue
			}
			rays = append(rays, rayState{
				Breakpoint: int(bp.ID),
				Start:      pointOf(bp.RayStart),
				Direction:  pointOf(bp.Direction()),
				End:        optionalPoint(bp.SegmentEnd),
			})
		}
		s.Edges = append(s.Edges, rays)
	}
	return s
}

func eventStateOf(ev voronoi.Event) eventState {
	out := eventState{Y: number(ev.Y), Kind: ev.Kind.String()}
	if ev.Kind == voronoi.SiteEvent {
		site := pointOf(ev.Site)
		out.Site = &site
		return out
	}
	left, right := int(ev.Left), int(ev.Right)
	center := pointOf(ev.Center)
	out.Left, out.Right, out.Center = &left, &right, &center
	return out
}

func optionalPoint(v *voronoi.Vertex) *point {
	if v == nil {
		return nil
	}
	p := pointOf(*v)
	return &p
}
