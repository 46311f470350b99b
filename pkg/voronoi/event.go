package voronoi

import "fmt"

type EventKind uint8

const (
	SiteEvent EventKind = iota
	CircleEvent
)

func (k EventKind) String() string {
	switch k {
	case SiteEvent:
		return "site"
	case CircleEvent:
		return "circle"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is a pending step of the sweep, fired when the sweep line reaches Y.
type Event struct {
	Y    float64   `json:"y"`
	Kind EventKind `json:"kind"`

	// Site is the site inserted by a site event.
	Site Vertex `json:"site"`

	// Left and Right are the adjacent breakpoints merged by a circle event,
	// Center is their meeting point.
	Left   BreakpointID `json:"left"`
	Right  BreakpointID `json:"right"`
	Center Vertex       `json:"center"`

	seq uint64
}

func newSiteEvent(site Vertex) Event {
	return Event{Y: site.Y, Kind: SiteEvent, Site: site, Left: NoBreakpoint, Right: NoBreakpoint}
}

func newCircleEvent(y float64, left, right BreakpointID, center Vertex) Event {
	return Event{Y: y, Kind: CircleEvent, Left: left, Right: right, Center: center}
}

func (e Event) x() float64 {
	if e.Kind == CircleEvent {
		return e.Center.X
	}
	return e.Site.X
}

// less orders events by Y, then X, circle events first, then by insertion.
func (e Event) less(o Event) bool {
	if e.Y != o.Y {
		return e.Y < o.Y
	}
	if ex, ox := e.x(), o.x(); ex != ox {
		return ex < ox
	}
	if e.Kind != o.Kind {
		return e.Kind == CircleEvent
	}
	return e.seq < o.seq
}

func (e Event) String() string {
	if e.Kind == CircleEvent {
		return fmt.Sprintf("circle{y=%g bp=%d..%d center=(%g, %g)}", e.Y, e.Left, e.Right, e.Center.X, e.Center.Y)
	}
	return fmt.Sprintf("site{y=%g site=(%g, %g)}", e.Y, e.Site.X, e.Site.Y)
}
