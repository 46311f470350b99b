// Package sitegen places demo sites inside a viewport.
package sitegen

import (
	"math"
	"math/rand"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

// Grid centres n sites in the cells of a near-square grid, row by row. The last
// row is left partly empty when n does not fill it.
func Grid(n int, width, height float64) []voronoi.Vertex {
	if n <= 0 {
		return nil
	}
	sites := make([]voronoi.Vertex, 0, n)

	rows := int(math.Sqrt(float64(n)))
	cols := (n + rows - 1) / rows

	xStep := width / float64(cols)
	yStep := height / float64(rows)

	for i := 0; i < rows && len(sites) < n; i++ {
		for j := 0; j < cols && len(sites) < n; j++ {
			sites = append(sites, voronoi.Vertex{
				X: xStep/2 + float64(j)*xStep,
				Y: yStep/2 + float64(i)*yStep,
			})
		}
	}
	return sites
}

// Random draws n sites with integer coordinates in [0, width) x [0, height).
// Duplicates are possible, the sweep drops them.
func Random(n int, width, height float64, rng *rand.Rand) []voronoi.Vertex {
	if n <= 0 {
		return nil
	}
	w := max(1, int(width))
	h := max(1, int(height))

	sites := make([]voronoi.Vertex, n)
	for i := range sites {
		sites[i] = voronoi.Vertex{
			X: float64(rng.Intn(w)),
			Y: float64(rng.Intn(h)),
		}
	}
	return sites
}

// Generate dispatches on a generator mode name, grid unless random.
func Generate(mode string, n int, width, height float64, seed int64) []voronoi.Vertex {
	if mode == "random" {
		return Random(n, width, height, rand.New(rand.NewSource(seed)))
	}
	return Grid(n, width, height)
}
