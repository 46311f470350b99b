package voronoi

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/0x0FACED/fortune-sweep/pkg/logger"
)

// Sweep is one run of Fortune's algorithm over a fixed set of sites. It owns
// its queue, beach line and diagram; sweeps over different inputs share nothing.
// A Sweep is not safe for concurrent use.
type Sweep struct {
	sites []Vertex

	arena   arena
	beach   BeachLine
	queue   EventQueue
	diagram Diagram

	sweepY  float64
	steps   int
	failure error

	log *logger.ZapLogger
}

type Option func(*Sweep)

func WithLogger(l *logger.ZapLogger) Option {
	return func(s *Sweep) {
		if l != nil {
			s.log = l
		}
	}
}

// Initialize sorts the sites along the sweep, builds the initial beach line
// and queues a site event for every remaining site.
//
// Sites sharing the lowest Y all start on the beach line as a chain of
// vertical bisectors. Otherwise the second site splits the arc of the first.
// Coincident sites are kept once.
func Initialize(sites []Vertex, opts ...Option) (*Sweep, error) {
	s := &Sweep{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.beach = newBeachLine(&s.arena)

	s.log.Info("[sweep] Fortune sweep started", zap.Int("sites", len(sites)))

	sorted := make([]Vertex, 0, len(sites))
	for i, site := range sites {
		if math.IsNaN(site.X) || math.IsNaN(site.Y) || math.IsInf(site.X, 0) || math.IsInf(site.Y, 0) {
			return nil, fmt.Errorf("%w: site %d is (%g, %g)", ErrInvalidSite, i, site.X, site.Y)
		}
		sorted = append(sorted, site)
	}
	sort.Sort(verticesByY(sorted))

	unique := sorted[:0]
	for _, site := range sorted {
		if len(unique) > 0 && unique[len(unique)-1] == site {
			s.log.Warn("[sweep] Duplicate site dropped", zap.Any("site", site))
			continue
		}
		unique = append(unique, site)
	}
	if len(unique) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientInput, len(unique))
	}
	s.sites = unique

	rest := s.initBeachLine(unique)
	for _, site := range rest {
		s.queue.Push(newSiteEvent(site))
	}

	s.log.Debug("[sweep] Initial beach line",
		zap.Int("breakpoints", s.beach.Len()),
		zap.Int("queued", s.queue.Len()),
		zap.Float64("sweepY", s.sweepY))
	return s, nil
}

// Compute runs a sweep to completion.
func Compute(sites []Vertex, opts ...Option) (*Sweep, error) {
	s, err := Initialize(sites, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Sweep) initBeachLine(sites []Vertex) []Vertex {
	s.sweepY = sites[0].Y

	if sites[1].Y != sites[0].Y {
		left := s.arena.alloc(sites[0], sites[1], RayStart(sites[0], sites[1]))
		right := s.arena.alloc(sites[1], sites[0], RayStart(sites[1], sites[0]))
		s.beach.InsertPair(0, left.ID, right.ID)
		s.diagram.addEdge(left.ID, right.ID)
		s.sweepY = sites[1].Y
		return sites[2:]
	}

	tied := 1
	for tied < len(sites) && sites[tied].Y == sites[0].Y {
		tied++
	}
	for i := 0; i+1 < tied; i++ {
		bp := s.arena.alloc(sites[i], sites[i+1], RayStart(sites[i], sites[i+1]))
		s.beach.append(bp.ID)
		s.diagram.addEdge(bp.ID)
	}
	return sites[tied:]
}

// Step processes exactly one event. It returns ErrSweepDone when nothing is
// left, and an *InvariantError when the state is found corrupted; after that
// every call returns the same error.
func (s *Sweep) Step() error {
	if s.failure != nil {
		return s.failure
	}

	ev, ok := s.queue.Pop()
	if !ok {
		return ErrSweepDone
	}
	s.sweepY = ev.Y
	s.steps++

	var err error
	switch ev.Kind {
	case SiteEvent:
		err = s.siteEvent(ev)
	case CircleEvent:
		err = s.circleEvent(ev)
	default:
		err = &InvariantError{Event: ev, Reason: "unknown event kind"}
	}
	if err != nil {
		s.failure = err
		s.log.Error("[sweep] Sweep aborted", zap.Error(err))
	}
	return err
}

// Run steps until the queue is empty.
func (s *Sweep) Run() error {
	if s.failure != nil {
		return s.failure
	}
	for !s.Done() {
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.log.Info("[sweep] Sweep finished",
		zap.Int("steps", s.steps),
		zap.Int("vertices", len(s.diagram.Vertices)),
		zap.Int("edges", len(s.diagram.Edges)))
	return nil
}

// Advance processes every event firing before y, the way an animated scan line
// catches up with the queue. It returns the number of steps taken.
func (s *Sweep) Advance(y float64) (int, error) {
	n := 0
	for {
		next, ok := s.queue.Peek()
		if !ok || next.Y >= y {
			return n, nil
		}
		if err := s.Step(); err != nil {
			return n, err
		}
		n++
	}
}

func (s *Sweep) siteEvent(ev Event) error {
	site := ev.Site

	idx, err := s.beach.Locate(site.X, ev.Y)
	if err != nil {
		return err
	}
	split, ok := s.beach.SplitSite(idx)
	if !ok {
		return &InvariantError{Event: ev, Reason: "beach line is empty"}
	}

	// the arc being split separated these two, they no longer meet
	if prev, ok := s.beach.Predecessor(idx); ok && idx < s.beach.Len() {
		s.cancelCircle(prev, s.beach.At(idx))
	}

	left := s.arena.alloc(split, site, RayStart(split, site))
	right := s.arena.alloc(site, split, RayStart(site, split))
	s.beach.InsertPair(idx, left.ID, right.ID)

	if prev, ok := s.beach.Predecessor(idx); ok {
		s.scheduleCircle(prev, left)
	}
	if next, ok := s.beach.Successor(idx + 1); ok {
		s.scheduleCircle(right, next)
	}

	s.diagram.addEdge(left.ID, right.ID)

	s.log.Debug("[sweep-site] Arc split",
		zap.Any("site", site),
		zap.Any("split", split),
		zap.Int("index", idx),
		zap.Int("beachLine", s.beach.Len()))
	return nil
}

func (s *Sweep) circleEvent(ev Event) error {
	idx := s.beach.IndexOf(ev.Right)
	if idx < 0 {
		return &InvariantError{Event: ev, Reason: "breakpoint is not on the beach line"}
	}
	left, ok := s.beach.Predecessor(idx)
	if !ok || left.ID != ev.Left {
		return &InvariantError{Event: ev, Reason: "breakpoints are not adjacent"}
	}
	right := s.beach.At(idx)
	if left.Bounded() || right.Bounded() {
		return &InvariantError{Event: ev, Reason: "edge already closed"}
	}

	if prev, ok := s.beach.Predecessor(idx - 1); ok {
		s.cancelCircle(prev, left)
	}
	if next, ok := s.beach.Successor(idx); ok {
		s.cancelCircle(right, next)
	}

	merged := s.arena.alloc(left.Left, right.Right, ev.Center)
	pos := idx - 1
	s.beach.Replace(pos, merged.ID)

	if prev, ok := s.beach.Predecessor(pos); ok {
		s.scheduleCircle(prev, merged)
	}
	if next, ok := s.beach.Successor(pos); ok {
		s.scheduleCircle(merged, next)
	}

	leftEnd, rightEnd := ev.Center, ev.Center
	left.SegmentEnd = &leftEnd
	right.SegmentEnd = &rightEnd

	added := s.diagram.addVertex(ev.Y, ev.Center)
	s.diagram.addEdge(merged.ID)

	s.log.Debug("[sweep-circle] Breakpoints merged",
		zap.Any("center", ev.Center),
		zap.Int("left", int(left.ID)),
		zap.Int("right", int(right.ID)),
		zap.Bool("newVertex", added))
	return nil
}

// scheduleCircle queues the event where a and b meet, if they ever do.
func (s *Sweep) scheduleCircle(a, b *Breakpoint) {
	l, m, r := a.Left, a.Right, b.Right

	center, ok := Circumcenter(l, m, r)
	if !ok {
		s.log.Debug("[sweep-circle] Collinear sites", zap.Any("sites", []Vertex{l, m, r}))
		return
	}
	if !Converging(l, m, r) {
		return
	}

	y, _ := CircleEventY(l, m, r)
	if y < s.sweepY && !withinTolerance(y, s.sweepY, math.Abs(y)) {
		return
	}

	scale := math.Max(math.Abs(center.X), math.Abs(y))
	if !withinTolerance(center.X, a.X(y), scale) || !withinTolerance(center.X, b.X(y), scale) {
		s.log.Debug("[sweep-circle] Breakpoints miss the circumcenter", zap.Any("center", center), zap.Float64("y", y))
		return
	}

	s.queue.Push(newCircleEvent(y, a.ID, b.ID, center))
	s.log.Debug("[sweep-circle] Circle event queued", zap.Float64("y", y), zap.Any("center", center))
}

// cancelCircle drops the event scheduled for the pair (a, b), if any.
func (s *Sweep) cancelCircle(a, b *Breakpoint) {
	y, ok := CircleEventY(a.Left, a.Right, b.Right)
	if !ok {
		return
	}
	cancelled := s.queue.Cancel(y, func(e Event) bool {
		return e.Kind == CircleEvent && e.Left == a.ID && e.Right == b.ID
	})
	if cancelled {
		s.log.Debug("[sweep-circle] Circle event cancelled", zap.Float64("y", y), zap.Int("left", int(a.ID)), zap.Int("right", int(b.ID)))
	}
}

// Done reports whether the queue is drained.
func (s *Sweep) Done() bool {
	return s.queue.Len() == 0
}

// Err returns the invariant violation that stopped the sweep, if any.
func (s *Sweep) Err() error {
	return s.failure
}

// SweepY is the coordinate of the last processed event.
func (s *Sweep) SweepY() float64 {
	return s.sweepY
}

func (s *Sweep) Steps() int {
	return s.steps
}

// NextEventY returns where the next event fires.
func (s *Sweep) NextEventY() (float64, bool) {
	ev, ok := s.queue.Peek()
	return ev.Y, ok
}

// NextEvent is the event the following Step processes.
func (s *Sweep) NextEvent() (Event, bool) {
	return s.queue.Peek()
}

// Sites returns the distinct sites in sweep order.
func (s *Sweep) Sites() []Vertex {
	return append([]Vertex(nil), s.sites...)
}

func (s *Sweep) Queue() []Event {
	return s.queue.Events()
}

func (s *Sweep) BeachLine() []Breakpoint {
	return s.beach.Breakpoints()
}

func (s *Sweep) Arcs(sweepY float64) []Arc {
	return s.beach.Arcs(sweepY)
}

// Diagram returns a copy of the accumulated vertices and edges.
func (s *Sweep) Diagram() Diagram {
	return s.diagram.clone()
}

func (s *Sweep) Breakpoint(id BreakpointID) (Breakpoint, bool) {
	bp := s.arena.get(id)
	if bp == nil {
		return Breakpoint{}, false
	}
	return *bp, true
}

// Rays resolves every edge of the diagram into rays, in edge order.
func (s *Sweep) Rays() []Ray {
	rays := make([]Ray, 0, s.arena.len())
	for _, edge := range s.diagram.Edges {
		for _, id := range edge.Rays {
			rays = append(rays, rayOf(s.arena.get(id)))
		}
	}
	return rays
}
