package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/0x0FACED/fortune-sweep/pkg/config"
	"github.com/0x0FACED/fortune-sweep/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	configPath string
	logLevel   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalOpts

	root := &cobra.Command{
		Use:          "fortune",
		Short:        "Voronoi diagrams with Fortune's sweep line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides the config)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newServeCmd(&g))
	root.AddCommand(newRenderCmd(&g))
	root.AddCommand(newTraceCmd(&g))
	return root
}

// setup loads the config and builds the console logger the flags ask for.
func (g *globalOpts) setup() (config.Config, *logger.ZapLogger, error) {
	cfg := config.Default()
	if g.configPath != "" {
		var err error
		if cfg, err = config.Load(g.configPath); err != nil {
			return config.Config{}, nil, err
		}
	}

	levelName := cfg.Log.Level
	if g.logLevel != "" {
		levelName = g.logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	if g.verbose {
		level = zapcore.DebugLevel
	}
	return cfg, logger.New(logger.Options{Level: level, Console: os.Stderr}), nil
}
