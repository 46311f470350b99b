package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	siteStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	circleStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

var traceHeaders = []string{"Step", "Event", "Y", "At", "Beach line", "Queue", "Vertices"}

func newTraceCmd(g *globalOpts) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the events of a sweep as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			sites, err := sitesOf(cfg)
			if err != nil {
				return err
			}
			sw, err := voronoi.Initialize(sites, voronoi.WithLogger(log))
			if err != nil {
				return err
			}
			rows, err := traceRows(cmd.Context(), sw, limit)
			fmt.Fprintln(cmd.OutOrStdout(), traceTable(rows))
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many events, zero runs to the end")
	return cmd
}

// traceRows steps the sweep and describes every processed event. The rows
// gathered before a failing step are returned along with its error.
func traceRows(ctx context.Context, sw *voronoi.Sweep, limit int) ([][]string, error) {
	var rows [][]string
	for !sw.Done() && (limit <= 0 || len(rows) < limit) {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		ev, _ := sw.NextEvent()
		if err := sw.Step(); err != nil {
			return rows, err
		}

		at := ev.Site
		if ev.Kind == voronoi.CircleEvent {
			at = ev.Center
		}
		rows = append(rows, []string{
			strconv.Itoa(sw.Steps()),
			ev.Kind.String(),
			strconv.FormatFloat(ev.Y, 'g', 6, 64),
			fmt.Sprintf("(%.4g, %.4g)", at.X, at.Y),
			strconv.Itoa(len(sw.BeachLine())),
			strconv.Itoa(len(sw.Queue())),
			strconv.Itoa(len(sw.Diagram().Vertices)),
		})
	}
	return rows, nil
}

func traceTable(rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(traceHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col != 1 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			if rows[row][1] == voronoi.CircleEvent.String() {
				return circleStyle
			}
			return siteStyle
		}).
		Render()
}
