// Package render draws the state of a sweep as an echarts page or a PNG.
package render

import (
	"fmt"
	"math"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

// arcSamples is the number of points per drawn arc.
const arcSamples = 48

// Frame is everything drawn for one moment of a sweep.
type Frame struct {
	Title    string
	BBox     voronoi.BoundingBox
	Sites    []voronoi.Vertex
	Vertices []voronoi.Vertex
	Segments []voronoi.Segment

	// Beach line of an unfinished sweep, with the scan line at ScanY.
	Arcs  [][]voronoi.Vertex
	ScanY float64
	Done  bool
}

// FromSweep captures the sweep clipped to bbox.
func FromSweep(sw *voronoi.Sweep, bbox voronoi.BoundingBox) Frame {
	d := sw.Diagram()
	f := Frame{
		Title:    fmt.Sprintf("Voronoi diagram, %d sites", len(sw.Sites())),
		BBox:     bbox,
		Sites:    sw.Sites(),
		Segments: voronoi.ClipRays(sw.Rays(), bbox),
		ScanY:    sw.SweepY(),
		Done:     sw.Done(),
	}
	for _, v := range d.Vertices {
		if bbox.Contains(v) {
			f.Vertices = append(f.Vertices, v)
		}
	}
	if !f.Done {
		f.Title = fmt.Sprintf("Voronoi diagram, step %d at y=%.2f", sw.Steps(), f.ScanY)
		f.Arcs = arcPaths(sw.Arcs(f.ScanY), f.ScanY, bbox)
	}
	return f
}

// arcPaths samples every visible arc of the beach line.
func arcPaths(arcs []voronoi.Arc, sweepY float64, bbox voronoi.BoundingBox) [][]voronoi.Vertex {
	var out [][]voronoi.Vertex
	for _, arc := range arcs {
		// a site on the scan line has no area yet
		if arc.Site.Y == sweepY {
			continue
		}
		from := math.Max(arc.From, bbox.Xl)
		to := math.Min(arc.To, bbox.Xr)
		if math.IsNaN(from) || math.IsNaN(to) || from >= to {
			continue
		}

		path := make([]voronoi.Vertex, 0, arcSamples+1)
		for i := 0; i <= arcSamples; i++ {
			x := from + (to-from)*float64(i)/arcSamples
			y := voronoi.ParabolaY(arc.Site, sweepY, x)
			if y < bbox.Yt || y > bbox.Yb {
				continue
			}
			path = append(path, voronoi.Vertex{X: x, Y: y})
		}
		if len(path) > 1 {
			out = append(out, path)
		}
	}
	return out
}
