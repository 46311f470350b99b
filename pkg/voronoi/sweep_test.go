package voronoi

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"

	"github.com/0x0FACED/fortune-sweep/pkg/logger"
)

// SweepSuite walks small inputs through the sweep one event at a time.
type SweepSuite struct {
	suite.Suite
}

func TestSweepSuite(t *testing.T) {
	suite.Run(t, new(SweepSuite))
}

// stepAll steps to completion, checking the beach line after every event.
func (s *SweepSuite) stepAll(sw *Sweep) int {
	n := 0
	for !sw.Done() {
		require.NoError(s.T(), sw.Step())
		requireConsistent(s.T(), sw)
		n++
	}
	return n
}

func (s *SweepSuite) TestTwoSitesDistinctHeights() {
	sw, err := Initialize([]Vertex{{10, 1}, {0, 0}})
	require.NoError(s.T(), err)

	assert.True(s.T(), sw.Done(), "both sites are on the beach line")
	assert.Equal(s.T(), 1.0, sw.SweepY())

	bl := sw.BeachLine()
	require.Len(s.T(), bl, 2)
	assert.Equal(s.T(), Vertex{0, 0}, bl[0].Left)
	assert.Equal(s.T(), Vertex{10, 1}, bl[0].Right)
	assert.Equal(s.T(), Vertex{10, -49.5}, bl[0].RayStart)
	assert.Equal(s.T(), bl[0].RayStart, bl[1].RayStart)

	d := sw.Diagram()
	assert.Empty(s.T(), d.Vertices)
	require.Len(s.T(), d.Edges, 1)
	assert.Equal(s.T(), []BreakpointID{bl[0].ID, bl[1].ID}, d.Edges[0].Rays)

	require.ErrorIs(s.T(), sw.Step(), ErrSweepDone)
	require.NoError(s.T(), sw.Run())
}

func (s *SweepSuite) TestTwoSitesEqualHeights() {
	sw, err := Initialize([]Vertex{{10, 0}, {0, 0}})
	require.NoError(s.T(), err)

	bl := sw.BeachLine()
	require.Len(s.T(), bl, 1)
	assert.Equal(s.T(), Vertex{0, 0}, bl[0].Left)
	assert.Equal(s.T(), Vertex{10, 0}, bl[0].Right)
	assert.Equal(s.T(), 5.0, bl[0].RayStart.X)
	assert.True(s.T(), math.IsInf(bl[0].RayStart.Y, -1))

	rays := sw.Rays()
	require.Len(s.T(), rays, 1)
	assert.False(s.T(), rays[0].Bounded)
	assert.Equal(s.T(), Vertex{0, 10}, rays[0].Direction)
	assert.True(s.T(), sw.Done())
}

func (s *SweepSuite) TestThreeSites() {
	a, b, c := Vertex{0, 0}, Vertex{10, 0}, Vertex{5, 10}
	sw, err := Initialize([]Vertex{c, b, a})
	require.NoError(s.T(), err)

	require.Len(s.T(), sw.BeachLine(), 1)
	queue := sw.Queue()
	require.Len(s.T(), queue, 1)
	assert.Equal(s.T(), SiteEvent, queue[0].Kind)
	assert.Equal(s.T(), c, queue[0].Site)

	require.NoError(s.T(), sw.Step())
	queue = sw.Queue()
	require.Len(s.T(), queue, 1, "one circle event for the only vertex")
	assert.Equal(s.T(), CircleEvent, queue[0].Kind)
	assert.InDelta(s.T(), 10.0, queue[0].Y, 1e-9)
	assert.InDelta(s.T(), 5.0, queue[0].Center.X, 1e-9)
	assert.InDelta(s.T(), 3.75, queue[0].Center.Y, 1e-9)

	next, ok := sw.NextEventY()
	require.True(s.T(), ok)
	assert.Equal(s.T(), queue[0].Y, next)

	require.NoError(s.T(), sw.Step())
	assert.True(s.T(), sw.Done())
	assert.Equal(s.T(), 2, sw.Steps())

	d := sw.Diagram()
	require.Len(s.T(), d.Vertices, 1)
	assert.InDelta(s.T(), 5.0, d.Vertices[0].X, 1e-9)
	assert.InDelta(s.T(), 3.75, d.Vertices[0].Y, 1e-9)
	assert.Len(s.T(), d.Edges, 3)

	bp, ok := sw.Breakpoint(0)
	require.True(s.T(), ok)
	assert.Equal(s.T(), a, bp.Left)
	assert.Equal(s.T(), b, bp.Right)
	assert.True(s.T(), math.IsInf(bp.RayStart.Y, -1))
	require.True(s.T(), bp.Bounded())
	assert.InDelta(s.T(), 3.75, bp.SegmentEnd.Y, 1e-9)

	_, ok = sw.Breakpoint(42)
	assert.False(s.T(), ok)

	rays := sw.Rays()
	require.Len(s.T(), rays, 4)
	bounded := 0
	for _, r := range rays {
		if r.Bounded {
			bounded++
		}
	}
	assert.Equal(s.T(), 2, bounded)

	// the edge born at the circle event starts at the vertex and leaves downwards
	last := rays[3]
	assert.False(s.T(), last.Bounded)
	assert.InDelta(s.T(), 5.0, last.Start.X, 1e-9)
	assert.InDelta(s.T(), 3.75, last.Start.Y, 1e-9)
	assert.Equal(s.T(), Vertex{10, 5}, last.Direction)
}

func (s *SweepSuite) TestCircleEventCancelled() {
	sw, err := Initialize([]Vertex{{3, 0}, {7, 1}, {0, 2}, {3, 3}})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1.0, sw.SweepY())

	require.NoError(s.T(), sw.Step())
	var circles []Event
	for _, ev := range sw.Queue() {
		if ev.Kind == CircleEvent {
			circles = append(circles, ev)
		}
	}
	require.Len(s.T(), circles, 1)
	doomed := circles[0]
	assert.InDelta(s.T(), 9.45995364582469, doomed.Y, 1e-9)
	assert.InDelta(s.T(), 87.0/22, doomed.Center.X, 1e-9)
	assert.InDelta(s.T(), 103.0/22, doomed.Center.Y, 1e-9)

	// the site at (3, 3) separates the two breakpoints before they meet
	require.NoError(s.T(), sw.Step())
	queue := sw.Queue()
	require.Len(s.T(), queue, 2)
	for _, ev := range queue {
		require.Equal(s.T(), CircleEvent, ev.Kind)
		assert.False(s.T(), ev.Left == doomed.Left && ev.Right == doomed.Right, "cancelled event still queued")
	}
	assert.InDelta(s.T(), 3.40029237516523, queue[0].Y, 1e-9)
	assert.InDelta(s.T(), 3.8048861143232218, queue[1].Y, 1e-9)

	s.stepAll(sw)

	want := []Vertex{{11.0 / 6, 1.5}, {4.75, 1.5}}
	d := sw.Diagram()
	if diff := cmp.Diff(want, d.Vertices, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		s.T().Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Len(s.T(), d.Edges, 5)
	assert.Len(s.T(), sw.BeachLine(), 4)
}

func (s *SweepSuite) TestTiedChain() {
	sw, err := Initialize([]Vertex{{10, 10}, {20, 0}, {0, 0}, {10, 0}})
	require.NoError(s.T(), err)
	require.Len(s.T(), sw.BeachLine(), 2)
	assert.Len(s.T(), sw.Diagram().Edges, 2)

	s.stepAll(sw)

	want := []Vertex{{5, 5}, {15, 5}}
	got := sw.Diagram().Vertices
	sort.Sort(verticesByY(got))
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		s.T().Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Len(s.T(), sw.Diagram().Edges, 5)
}

func (s *SweepSuite) TestCocircularSitesShareOneVertex() {
	sw, err := Initialize([]Vertex{{0, 0}, {10, 0}, {0, 10}, {10, 10}})
	require.NoError(s.T(), err)

	s.stepAll(sw)

	// both circle events of the square fire at its center
	assert.Equal(s.T(), 4, sw.Steps())
	if diff := cmp.Diff([]Vertex{{5, 5}}, sw.Diagram().Vertices, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		s.T().Errorf("vertices mismatch (-want +got):\n%s", diff)
	}
	assert.Len(s.T(), sw.Diagram().Edges, 5)
	assert.Len(s.T(), sw.BeachLine(), 3)
}

func (s *SweepSuite) TestAdvance() {
	sw, err := Initialize([]Vertex{{3, 0}, {7, 1}, {0, 2}, {3, 3}})
	require.NoError(s.T(), err)

	n, err := sw.Advance(3)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, n, "the site at y=3 fires at the line, not before")
	assert.Equal(s.T(), 2.0, sw.SweepY())

	n, err = sw.Advance(3.5)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, n)

	n, err = sw.Advance(math.Inf(1))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, n)
	assert.True(s.T(), sw.Done())

	n, err = sw.Advance(math.Inf(1))
	require.NoError(s.T(), err)
	assert.Zero(s.T(), n)
}

func (s *SweepSuite) TestInvariantViolationIsSticky() {
	sw, err := Initialize([]Vertex{{0, 0}, {10, 1}})
	require.NoError(s.T(), err)

	// a circle event whose breakpoints are not neighbours in that order
	sw.queue.Push(newCircleEvent(5, 1, 0, Vertex{5, 0}))

	err = sw.Step()
	require.Error(s.T(), err)
	require.ErrorIs(s.T(), err, ErrInvariantViolation)

	var inv *InvariantError
	require.True(s.T(), errors.As(err, &inv))
	assert.Equal(s.T(), CircleEvent, inv.Event.Kind)
	assert.Equal(s.T(), BreakpointID(1), inv.Event.Left)

	assert.Equal(s.T(), err, sw.Step(), "the failure is reported again")
	assert.Equal(s.T(), err, sw.Err())
	assert.Equal(s.T(), err, sw.Run())

	// nothing was merged
	assert.Len(s.T(), sw.BeachLine(), 2)
	assert.Empty(s.T(), sw.Diagram().Vertices)
}

func TestInitializeRejectsInput(t *testing.T) {
	tests := []struct {
		name  string
		sites []Vertex
		want  error
	}{
		{"no sites", nil, ErrInsufficientInput},
		{"one site", []Vertex{{1, 1}}, ErrInsufficientInput},
		{"coincident sites", []Vertex{{1, 1}, {1, 1}}, ErrInsufficientInput},
		{"nan", []Vertex{{0, 0}, {math.NaN(), 1}}, ErrInvalidSite},
		{"inf", []Vertex{{0, 0}, {1, math.Inf(1)}}, ErrInvalidSite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw, err := Initialize(tt.sites)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, sw)

			_, err = Compute(tt.sites)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInitializeDropsDuplicates(t *testing.T) {
	log := logger.New(logger.Options{Level: zapcore.DebugLevel, Capture: true})

	sw, err := Compute([]Vertex{{1, 1}, {4, 2}, {1, 1}}, WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, []Vertex{{1, 1}, {4, 2}}, sw.Sites())
	assert.Contains(t, log.HTML(), "Duplicate site dropped")
	assert.Contains(t, log.HTML(), "Sweep finished")
}

func TestSweepMatchesEmptyCircles(t *testing.T) {
	for seed := int64(1); seed <= 60; seed++ {
		rng := rand.New(rand.NewSource(seed))
		scale := []float64{1, 100, 1e4}[seed%3]
		n := 3 + rng.Intn(28)

		sites := make([]Vertex, n)
		for i := range sites {
			sites[i] = Vertex{rng.Float64() * scale, rng.Float64() * scale}
		}

		sw, err := Initialize(sites)
		require.NoError(t, err, "seed %d", seed)
		for !sw.Done() {
			require.NoError(t, sw.Step(), "seed %d", seed)
			requireConsistent(t, sw)
		}

		got := sw.Diagram().Vertices
		want := emptyCircleVertices(sites, scale)
		assert.LessOrEqual(t, len(got), 2*n-5, "seed %d", seed)
		assert.Truef(t, sameVertexSet(got, want, 1e-6*scale),
			"seed %d: sweep found %d vertices, expected %d", seed, len(got), len(want))
	}
}

func TestSweepLogsEvents(t *testing.T) {
	log := logger.New(logger.Options{Level: zapcore.DebugLevel, Capture: true})
	_, err := Compute([]Vertex{{0, 0}, {10, 0}, {5, 10}}, WithLogger(log))
	require.NoError(t, err)

	out := log.HTML()
	for _, msg := range []string{"Fortune sweep started", "Arc split", "Circle event queued", "Breakpoints merged"} {
		assert.True(t, strings.Contains(out, msg), "missing %q", msg)
	}
}

// requireConsistent checks that the beach line is ordered and that every
// queued circle event still refers to two adjacent breakpoints.
func requireConsistent(t *testing.T, sw *Sweep) {
	t.Helper()

	bl := sw.BeachLine()
	for i := 1; i < len(bl); i++ {
		prev := bl[i-1].X(sw.SweepY())
		cur := bl[i].X(sw.SweepY())
		require.False(t, math.IsNaN(cur))
		require.LessOrEqual(t, prev, cur+1e-6*math.Max(1, math.Abs(cur)), "beach line out of order at %d", i)
	}

	for _, ev := range sw.Queue() {
		if ev.Kind != CircleEvent {
			continue
		}
		idx := sw.beach.IndexOf(ev.Right)
		require.Greater(t, idx, 0, "stale circle event %s", ev)
		require.Equal(t, ev.Left, sw.beach.At(idx-1).ID, "stale circle event %s", ev)
	}
}

// emptyCircleVertices finds the diagram vertices by brute force: circumcenters
// of triples whose circle holds no other site.
func emptyCircleVertices(sites []Vertex, scale float64) []Vertex {
	var out []Vertex
	for i := 0; i < len(sites); i++ {
		for j := i + 1; j < len(sites); j++ {
			for k := j + 1; k < len(sites); k++ {
				c, ok := Circumcenter(sites[i], sites[j], sites[k])
				if !ok {
					continue
				}
				r := math.Hypot(sites[i].X-c.X, sites[i].Y-c.Y)
				empty := true
				for _, p := range sites {
					if math.Hypot(p.X-c.X, p.Y-c.Y) < r-1e-9*scale {
						empty = false
						break
					}
				}
				if empty {
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func sameVertexSet(got, want []Vertex, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	rest := append([]Vertex(nil), want...)
	for _, g := range got {
		found := false
		for i, w := range rest {
			if math.Abs(g.X-w.X) < tol && math.Abs(g.Y-w.Y) < tol {
				rest = append(rest[:i], rest[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
