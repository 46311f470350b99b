package sitegen

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

func TestGrid(t *testing.T) {
	sites := Grid(5, 1000, 1000)
	// two rows of three cells, the last one empty
	want := []voronoi.Vertex{
		{X: 1000.0 / 6, Y: 250},
		{X: 500, Y: 250},
		{X: 5000.0 / 6, Y: 250},
		{X: 1000.0 / 6, Y: 750},
		{X: 500, Y: 750},
	}
	require.Len(t, sites, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, sites[i].X, 1e-9)
		assert.InDelta(t, want[i].Y, sites[i].Y, 1e-9)
	}

	assert.Nil(t, Grid(0, 10, 10))
	assert.Len(t, Grid(1, 10, 10), 1)
	assert.Len(t, Grid(100, 10, 10), 100)
}

func TestRandom(t *testing.T) {
	a := Random(50, 200, 100, rand.New(rand.NewSource(3)))
	b := Random(50, 200, 100, rand.New(rand.NewSource(3)))
	require.Len(t, a, 50)
	assert.Equal(t, a, b, "same seed, same sites")

	bbox := voronoi.NewBoundingBox(0, 200, 0, 100)
	for _, s := range a {
		assert.True(t, bbox.Contains(s), "%v", s)
		assert.Equal(t, float64(int(s.X)), s.X)
	}

	assert.Len(t, Random(3, 0, 0, rand.New(rand.NewSource(1))), 3)
}

func TestGenerate(t *testing.T) {
	assert.Equal(t, Grid(7, 10, 10), Generate("grid", 7, 10, 10, 99))
	assert.Equal(t, Random(7, 10, 10, rand.New(rand.NewSource(99))), Generate("random", 7, 10, 10, 99))
}

// Grids are full of cocircular sites, every cell corner is met by four
// circle events that must leave a single vertex.
func TestGridDiagrams(t *testing.T) {
	tests := []struct {
		n        int
		vertices int
	}{
		{4, 1},
		{5, 2},
		{7, 3},
		{12, 6},
		{20, 12},
		{30, 20},
		{100, 81},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			sw, err := voronoi.Compute(Grid(tt.n, 1000, 1000))
			require.NoError(t, err)
			assert.Len(t, sw.Diagram().Vertices, tt.vertices)
		})
	}
}

func TestRandomDiagrams(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		sites := Random(3+rng.Intn(60), 1000, 1000, rng)
		sw, err := voronoi.Initialize(sites)
		if err != nil {
			require.ErrorIs(t, err, voronoi.ErrInsufficientInput)
			continue
		}
		require.NoError(t, sw.Run())
		n := len(sw.Sites())
		if n >= 3 {
			assert.LessOrEqual(t, len(sw.Diagram().Vertices), 2*n-5)
		}
	}
}
