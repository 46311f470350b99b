package render

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

func prepareScatter(scatter *charts.Scatter, f Frame) {
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Fortune sweep",
			Height:    "580px",
			Width:     "1020px",
		}),
		charts.WithLegendOpts(opts.Legend{
			TextStyle: &opts.TextStyle{
				Color: "white",
			},
			Right: "10%",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:                f.Title,
			TitleBackgroundColor: "white",
			Left:                 "10%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Width",
			Min:  f.BBox.Xl,
			Max:  f.BBox.Xr,
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Height",
			Min:  f.BBox.Yt,
			Max:  f.BBox.Yb,
			AxisLabel: &opts.AxisLabel{
				Color: "white",
			},
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(false),
			},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "horizontal",
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			FilterMode: "none",
			Orient:     "vertical",
		}),
	)
}

func scatterData(points []voronoi.Vertex) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []float64{p.X, p.Y}})
	}
	return data
}

func polyline(name string, points []voronoi.Vertex, color string, width float32) *charts.Line {
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.LineData{Value: []float64{p.X, p.Y}})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(true)}),
	)
	line.AddSeries(name, data).
		SetSeriesOptions(
			charts.WithLineStyleOpts(opts.LineStyle{
				Color: color,
				Width: width,
			}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	return line
}

// ECharts builds the chart of a frame: sites and vertices as scatter series,
// every edge segment, beach line arc and the scan line as overlapped lines.
func ECharts(f Frame) *charts.Scatter {
	scatter := charts.NewScatter()
	prepareScatter(scatter, f)

	scatter.AddSeries("Sites", scatterData(f.Sites)).
		SetSeriesOptions(
			charts.WithItemStyleOpts(opts.ItemStyle{
				Color: "lightgreen",
			}),
		)
	if len(f.Vertices) > 0 {
		scatter.AddSeries("Vertices", scatterData(f.Vertices)).
			SetSeriesOptions(
				charts.WithItemStyleOpts(opts.ItemStyle{
					Color: "orange",
				}),
				charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}),
			)
	}

	for _, seg := range f.Segments {
		scatter.Overlap(polyline("Edges", []voronoi.Vertex{seg.A, seg.B}, "", 2))
	}

	if !f.Done {
		for _, arc := range f.Arcs {
			scatter.Overlap(polyline("Beach line", arc, "deepskyblue", 1))
		}
		scan := []voronoi.Vertex{{X: f.BBox.Xl, Y: f.ScanY}, {X: f.BBox.Xr, Y: f.ScanY}}
		scatter.Overlap(polyline("Sweep line", scan, "red", 1))
	}
	return scatter
}

// WriteHTML renders the frame as a standalone echarts page fragment.
func WriteHTML(w io.Writer, f Frame) error {
	return ECharts(f).Render(w)
}
