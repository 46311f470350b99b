package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

var (
	siteColor   = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	vertexColor = color.RGBA{R: 255, G: 140, A: 255}
	edgeColor   = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	beachColor  = color.RGBA{G: 150, B: 255, A: 255}
	sweepColor  = color.RGBA{R: 220, G: 30, B: 30, A: 255}
)

func xys(points []voronoi.Vertex) plotter.XYs {
	out := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		out = append(out, plotter.XY{X: p.X, Y: p.Y})
	}
	return out
}

// Plot builds a gonum plot of the frame. The Y axis grows downwards like the sweep.
func Plot(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.X.Label.Text = "Width"
	p.Y.Label.Text = "Height"
	p.X.Min, p.X.Max = f.BBox.Xl, f.BBox.Xr
	p.Y.Min, p.Y.Max = f.BBox.Yt, f.BBox.Yb
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}

	for _, seg := range f.Segments {
		line, err := plotter.NewLine(xys([]voronoi.Vertex{seg.A, seg.B}))
		if err != nil {
			return nil, fmt.Errorf("edge %v: %w", seg, err)
		}
		line.Color = edgeColor
		line.Width = vg.Points(1)
		p.Add(line)
	}

	if !f.Done {
		for _, arc := range f.Arcs {
			line, err := plotter.NewLine(xys(arc))
			if err != nil {
				return nil, fmt.Errorf("beach line: %w", err)
			}
			line.Color = beachColor
			line.Width = vg.Points(0.75)
			p.Add(line)
		}

		scan, err := plotter.NewLine(xys([]voronoi.Vertex{{X: f.BBox.Xl, Y: f.ScanY}, {X: f.BBox.Xr, Y: f.ScanY}}))
		if err != nil {
			return nil, fmt.Errorf("sweep line: %w", err)
		}
		scan.Color = sweepColor
		scan.Width = vg.Points(0.75)
		scan.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(scan)
		p.Legend.Add("sweep line", scan)
	}

	if len(f.Sites) > 0 {
		sites, err := plotter.NewScatter(xys(f.Sites))
		if err != nil {
			return nil, fmt.Errorf("sites: %w", err)
		}
		sites.GlyphStyle.Color = siteColor
		sites.GlyphStyle.Radius = vg.Points(2.5)
		sites.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sites)
		p.Legend.Add("sites", sites)
	}

	if len(f.Vertices) > 0 {
		vertices, err := plotter.NewScatter(xys(f.Vertices))
		if err != nil {
			return nil, fmt.Errorf("vertices: %w", err)
		}
		vertices.GlyphStyle.Color = vertexColor
		vertices.GlyphStyle.Radius = vg.Points(1.5)
		vertices.GlyphStyle.Shape = draw.BoxGlyph{}
		p.Add(vertices)
		p.Legend.Add("vertices", vertices)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePNG draws the frame as a width x height PNG.
func WritePNG(w io.Writer, f Frame, width, height vg.Length) error {
	p, err := Plot(f)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
