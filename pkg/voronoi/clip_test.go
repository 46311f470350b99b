package voronoi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayClip(t *testing.T) {
	bbox := NewBoundingBox(0, 10, 0, 10)
	negInf := math.Inf(-1)

	tests := []struct {
		name string
		ray  Ray
		want Segment
		ok   bool
	}{
		{
			name: "half-line from inside",
			ray:  Ray{Start: Vertex{5, 5}, Direction: Vertex{1, 0}},
			want: Segment{A: Vertex{5, 5}, B: Vertex{10, 5}},
			ok:   true,
		},
		{
			name: "half-line entering the box",
			ray:  Ray{Start: Vertex{-5, 5}, Direction: Vertex{1, 0}},
			want: Segment{A: Vertex{0, 5}, B: Vertex{10, 5}},
			ok:   true,
		},
		{
			name: "segment crossing the box",
			ray:  Ray{Start: Vertex{-5, 5}, End: Vertex{15, 5}, Bounded: true},
			want: Segment{A: Vertex{0, 5}, B: Vertex{10, 5}},
			ok:   true,
		},
		{
			name: "segment inside",
			ray:  Ray{Start: Vertex{1, 2}, End: Vertex{3, 4}, Bounded: true},
			want: Segment{A: Vertex{1, 2}, B: Vertex{3, 4}},
			ok:   true,
		},
		{
			name: "bisector from negative infinity",
			ray:  Ray{Start: Vertex{5, negInf}, Direction: Vertex{0, 10}},
			want: Segment{A: Vertex{5, 0}, B: Vertex{5, 10}},
			ok:   true,
		},
		{
			name: "bisector from negative infinity ending at a vertex",
			ray:  Ray{Start: Vertex{5, negInf}, End: Vertex{5, 3.75}, Bounded: true},
			want: Segment{A: Vertex{5, 0}, B: Vertex{5, 3.75}},
			ok:   true,
		},
		{
			name: "bisector ending above the box",
			ray:  Ray{Start: Vertex{5, negInf}, End: Vertex{5, -3}, Bounded: true},
		},
		{
			name: "half-line leaving the box",
			ray:  Ray{Start: Vertex{20, 20}, Direction: Vertex{1, 1}},
		},
		{
			name: "half-line touching a corner",
			ray:  Ray{Start: Vertex{10, 10}, Direction: Vertex{1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.Clip(bbox)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.want.A.X, got.A.X, 1e-12)
			assert.InDelta(t, tt.want.A.Y, got.A.Y, 1e-12)
			assert.InDelta(t, tt.want.B.X, got.B.X, 1e-12)
			assert.InDelta(t, tt.want.B.Y, got.B.Y, 1e-12)
		})
	}
}

func TestClipRaysOfDiagram(t *testing.T) {
	sw, err := Compute([]Vertex{{0, 0}, {10, 0}, {5, 10}})
	require.NoError(t, err)

	bbox := NewBoundingBox(-20, 30, -20, 30)
	segments := ClipRays(sw.Rays(), bbox)
	// the third site lands on a breakpoint, one of its rays has zero length
	require.Len(t, segments, 3)

	for _, seg := range segments {
		assert.True(t, bbox.Contains(seg.A), "%v", seg)
		assert.True(t, bbox.Contains(seg.B), "%v", seg)
	}

	// nothing of the diagram reaches a box far away
	assert.Empty(t, ClipRays(sw.Rays(), NewBoundingBox(-200, -100, -200, -100)))
}

func TestBoundingBoxContains(t *testing.T) {
	b := NewBoundingBox(0, 10, 0, 5)
	assert.True(t, b.Contains(Vertex{0, 0}))
	assert.True(t, b.Contains(Vertex{10, 5}))
	assert.False(t, b.Contains(Vertex{10, 5.1}))
	assert.False(t, b.Contains(Vertex{-1, 2}))
}
