package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/0x0FACED/fortune-sweep/pkg/config"
	"github.com/0x0FACED/fortune-sweep/pkg/logger"
	"github.com/0x0FACED/fortune-sweep/pkg/render"
	"github.com/0x0FACED/fortune-sweep/pkg/sitegen"
	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

const (
	formatHTML = "html"
	formatPNG  = "png"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output string  // output file, "-" or empty writes to stdout
	format string  // html or png, guessed from the output extension when empty
	count  int     // generated sites
	random bool    // random instead of grid sites
	seed   int64   // random generator seed
	steps  int     // stop after this many events, zero runs to the end
	size   float64 // PNG side in inches
}

func newRenderCmd(g *globalOpts) *cobra.Command {
	opts := renderOpts{size: 8}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw a diagram to an HTML chart or a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			flags := cmd.Flags()
			if flags.Changed("count") {
				cfg.Generator.Count = opts.count
			}
			if flags.Changed("random") {
				cfg.Generator.Mode = config.GeneratorGrid
				if opts.random {
					cfg.Generator.Mode = config.GeneratorRandom
				}
			}
			if flags.Changed("seed") {
				cfg.Generator.Seed = opts.seed
			}
			if opts.format == "" {
				opts.format = formatFromPath(opts.output)
			}
			return runRender(cmd.Context(), cfg, &opts, log)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: html (default), png")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "number of generated sites (overrides the config)")
	cmd.Flags().BoolVar(&opts.random, "random", false, "generate random sites instead of a grid")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed of the random generator")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "stop after this many events and draw the beach line")
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "PNG width and height in inches")
	return cmd
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return formatPNG
	}
	return formatHTML
}

// sitesOf prefers the explicit sites of the config over the generator.
func sitesOf(cfg config.Config) ([]voronoi.Vertex, error) {
	if sites := cfg.Points(); len(sites) > 0 {
		return sites, nil
	}
	if err := cfg.Generator.Validate(); err != nil {
		return nil, err
	}
	return sitegen.Generate(cfg.Generator.Mode, cfg.Generator.Count, cfg.Viewport.Width, cfg.Viewport.Height, cfg.Generator.Seed), nil
}

// sweepTo runs the sweep to the end, or for the given number of steps.
func sweepTo(ctx context.Context, sw *voronoi.Sweep, steps int) error {
	for i := 0; !sw.Done() && (steps <= 0 || i < steps); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sw.Step(); err != nil {
			return err
		}
	}
	return nil
}

// writeAndClose closes wc after writing. A failed close is reported unless the
// write already failed.
func writeAndClose(wc io.WriteCloser, write func(io.Writer) error) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return write(wc)
}

func runRender(ctx context.Context, cfg config.Config, opts *renderOpts, log *logger.ZapLogger) error {
	if opts.format != formatHTML && opts.format != formatPNG {
		return fmt.Errorf("unknown format %q, want %s or %s", opts.format, formatHTML, formatPNG)
	}

	sites, err := sitesOf(cfg)
	if err != nil {
		return err
	}
	sw, err := voronoi.Initialize(sites, voronoi.WithLogger(log))
	if err != nil {
		return err
	}
	if err := sweepTo(ctx, sw, opts.steps); err != nil {
		return err
	}
	frame := render.FromSweep(sw, cfg.BoundingBox())

	write := func(w io.Writer) error {
		var err error
		switch opts.format {
		case formatPNG:
			side := vg.Length(opts.size) * vg.Inch
			err = render.WritePNG(w, frame, side, side)
		default:
			err = render.WriteHTML(w, frame)
		}
		if err != nil {
			return fmt.Errorf("render %s: %w", opts.format, err)
		}
		return nil
	}

	if opts.output == "" || opts.output == "-" {
		err = write(os.Stdout)
	} else {
		var f *os.File
		if f, err = os.Create(opts.output); err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		err = writeAndClose(f, write)
	}
	if err != nil {
		return err
	}

	log.Info("[render] Diagram written",
		zap.String("format", opts.format),
		zap.String("output", opts.output),
		zap.Int("vertices", len(frame.Vertices)),
		zap.Int("segments", len(frame.Segments)))
	return nil
}
