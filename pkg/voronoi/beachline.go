package voronoi

import (
	"math"
	"slices"
	"sort"
)

// BeachLine is the ordered front of breakpoints. Positions are not stored, they
// are derived from the sweep coordinate, so breakpoints are only ever inserted,
// removed or replaced where they stand.
type BeachLine struct {
	arena *arena
	ids   []BreakpointID
}

// Arc is the visible part of one site's parabola between two breakpoints.
type Arc struct {
	Site Vertex  `json:"site"`
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

func newBeachLine(a *arena) BeachLine {
	return BeachLine{arena: a}
}

func (b *BeachLine) Len() int {
	return len(b.ids)
}

func (b *BeachLine) At(i int) *Breakpoint {
	return b.arena.get(b.ids[i])
}

// Locate returns the first index whose breakpoint lies at or right of x for the
// directrix y = sweepY, or Len() when there is none. The new site splits the arc
// ending at that index.
func (b *BeachLine) Locate(x, sweepY float64) (int, error) {
	broken := -1
	idx := sort.Search(len(b.ids), func(i int) bool {
		bx := b.At(i).X(sweepY)
		if math.IsNaN(bx) {
			broken = i
			return false
		}
		return bx >= x
	})
	if broken >= 0 {
		return 0, &InvariantError{
			Reason: "breakpoint position is undefined",
			Event:  Event{Y: sweepY, Kind: SiteEvent, Site: Vertex{X: x, Y: sweepY}, Left: b.ids[broken], Right: NoBreakpoint},
		}
	}
	return idx, nil
}

// SplitSite returns the site of the arc a new site located at idx falls into.
func (b *BeachLine) SplitSite(idx int) (Vertex, bool) {
	switch {
	case len(b.ids) == 0:
		return Vertex{}, false
	case idx < len(b.ids):
		return b.At(idx).Left, true
	default:
		return b.At(len(b.ids) - 1).Right, true
	}
}

// InsertPair splits the arc at idx with the two breakpoints of a new site.
func (b *BeachLine) InsertPair(idx int, left, right BreakpointID) {
	b.ids = slices.Insert(b.ids, idx, left, right)
}

// Replace merges the breakpoints at idx and idx+1 into id.
func (b *BeachLine) Replace(idx int, id BreakpointID) {
	b.ids = slices.Replace(b.ids, idx, idx+2, id)
}

func (b *BeachLine) append(id BreakpointID) {
	b.ids = append(b.ids, id)
}

// IndexOf returns the position of id, or -1.
func (b *BeachLine) IndexOf(id BreakpointID) int {
	return slices.Index(b.ids, id)
}

func (b *BeachLine) Predecessor(idx int) (*Breakpoint, bool) {
	if idx <= 0 || idx > len(b.ids) {
		return nil, false
	}
	return b.At(idx - 1), true
}

func (b *BeachLine) Successor(idx int) (*Breakpoint, bool) {
	if idx < -1 || idx+1 >= len(b.ids) {
		return nil, false
	}
	return b.At(idx + 1), true
}

// Breakpoints returns a copy of the beach line in order.
func (b *BeachLine) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, 0, len(b.ids))
	for i := range b.ids {
		out = append(out, *b.At(i))
	}
	return out
}

// Arcs returns the arcs of the beach line with their x extent for the directrix
// y = sweepY. The outermost arcs are unbounded.
func (b *BeachLine) Arcs(sweepY float64) []Arc {
	if len(b.ids) == 0 {
		return nil
	}

	arcs := make([]Arc, 0, len(b.ids)+1)
	from := math.Inf(-1)
	for i := range b.ids {
		bp := b.At(i)
		to := bp.X(sweepY)
		arcs = append(arcs, Arc{Site: bp.Left, From: from, To: to})
		from = to
	}
	arcs = append(arcs, Arc{Site: b.At(len(b.ids) - 1).Right, From: from, To: math.Inf(1)})
	return arcs
}
