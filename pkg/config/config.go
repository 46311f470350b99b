package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"

	"github.com/0x0FACED/fortune-sweep/pkg/logger"
	"github.com/0x0FACED/fortune-sweep/pkg/voronoi"
)

const (
	GeneratorGrid   = "grid"
	GeneratorRandom = "random"
)

// Config is the TOML file shared by the serve and render commands.
type Config struct {
	Server    Server    `toml:"server"`
	Log       Log       `toml:"log"`
	Viewport  Viewport  `toml:"viewport"`
	Generator Generator `toml:"generator"`
	// Sites, when given, replace the generator.
	Sites []Site `toml:"sites"`
}

type Server struct {
	Addr        string `toml:"addr"`
	MaxSessions int    `toml:"max_sessions"`
	// MaxSites bounds every sweep the server builds, given or generated.
	MaxSites int `toml:"max_sites"`
	// SessionTTL expires sessions left unused this long, zero keeps them until evicted.
	SessionTTL time.Duration `toml:"session_ttl"`
}

type Log struct {
	Level string `toml:"level"`
}

// Viewport is the drawn area, sites are expected inside [0, Width] x [0, Height].
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type Generator struct {
	Mode  string `toml:"mode"`
	Count int    `toml:"count"`
	Seed  int64  `toml:"seed"`
}

type Site struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

// Default mirrors the demo page: twelve grid sites on a 1000x1000 viewport.
func Default() Config {
	return Config{
		Server:    Server{Addr: ":8080", MaxSessions: 64, MaxSites: 5000, SessionTTL: 30 * time.Minute},
		Log:       Log{Level: "info"},
		Viewport:  Viewport{Width: 1000, Height: 1000},
		Generator: Generator{Mode: GeneratorGrid, Count: 12, Seed: 1},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".toml" {
		return Config{}, fmt.Errorf("config file must have .toml extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults. Unknown keys are rejected.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var err error
	if c.Server.Addr == "" {
		err = multierr.Append(err, errors.New("server.addr must not be empty"))
	}
	if c.Server.MaxSessions < 1 {
		err = multierr.Append(err, fmt.Errorf("server.max_sessions must be positive, got %d", c.Server.MaxSessions))
	}
	if c.Server.MaxSites < 2 {
		err = multierr.Append(err, fmt.Errorf("server.max_sites must be at least 2, got %d", c.Server.MaxSites))
	}
	if c.Server.SessionTTL < 0 {
		err = multierr.Append(err, fmt.Errorf("server.session_ttl must not be negative, got %s", c.Server.SessionTTL))
	}
	if _, lerr := logger.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log.level: %w", lerr))
	}
	if !(c.Viewport.Width > 0) || math.IsInf(c.Viewport.Width, 0) {
		err = multierr.Append(err, fmt.Errorf("viewport.width must be positive, got %g", c.Viewport.Width))
	}
	if !(c.Viewport.Height > 0) || math.IsInf(c.Viewport.Height, 0) {
		err = multierr.Append(err, fmt.Errorf("viewport.height must be positive, got %g", c.Viewport.Height))
	}
	err = multierr.Append(err, c.Generator.Validate())
	if c.Server.MaxSites >= 2 && c.Generator.Count > c.Server.MaxSites {
		err = multierr.Append(err, fmt.Errorf("generator.count %d exceeds server.max_sites %d", c.Generator.Count, c.Server.MaxSites))
	}
	for i, s := range c.Sites {
		if math.IsNaN(s.X) || math.IsNaN(s.Y) || math.IsInf(s.X, 0) || math.IsInf(s.Y, 0) {
			err = multierr.Append(err, fmt.Errorf("sites[%d] must be finite, got (%g, %g)", i, s.X, s.Y))
		}
	}
	return err
}

func (g Generator) Validate() error {
	var err error
	if g.Mode != GeneratorGrid && g.Mode != GeneratorRandom {
		err = multierr.Append(err, fmt.Errorf("generator.mode must be %q or %q, got %q", GeneratorGrid, GeneratorRandom, g.Mode))
	}
	if g.Count < 2 {
		err = multierr.Append(err, fmt.Errorf("generator.count must be at least 2, got %d", g.Count))
	}
	return err
}

// Points converts the explicit sites of the file.
func (c Config) Points() []voronoi.Vertex {
	if len(c.Sites) == 0 {
		return nil
	}
	out := make([]voronoi.Vertex, len(c.Sites))
	for i, s := range c.Sites {
		out[i] = voronoi.Vertex{X: s.X, Y: s.Y}
	}
	return out
}

// BoundingBox is the viewport as a clipping box.
func (c Config) BoundingBox() voronoi.BoundingBox {
	return voronoi.NewBoundingBox(0, c.Viewport.Width, 0, c.Viewport.Height)
}
