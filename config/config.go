// Package config loads kspaint settings from TOML.
//
// Every field has a default, so a config file only needs the keys it
// changes:
//
//	[canvas]
//	width = 1920
//	height = 1080
//	depth = 8
//
//	[brush]
//	size = 12
//	smoothing = 0.6
//	kernel = "reference"
//
//	[storage]
//	save_dir = "~/Pictures/kspaint"
//	compression = "zstd"
//	format = "ksp"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/painter"
	"github.com/gogpu/painter/ksp"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the complete kspaint configuration.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Brush   Brush   `toml:"brush"`
	Storage Storage `toml:"storage"`
}

// Canvas holds the defaults for new documents.
type Canvas struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
	Depth  int `toml:"depth"` // bits per channel: 8 or 16
}

// Brush holds the stroke settings.
type Brush struct {
	Size      int     `toml:"size"`
	Smoothing float64 `toml:"smoothing"` // fraction of the channel max, 1 disables smoothing
	Kernel    string  `toml:"kernel"`    // "reference", "wide" or "" for the build default
}

// Storage holds where and how documents are written.
type Storage struct {
	SaveDir     string `toml:"save_dir"`
	Compression string `toml:"compression"` // "none", "zlib" or "zstd"
	Format      string `toml:"format"`      // "ksp" or "png"
}

// Default returns the built-in configuration: an 800x600 16-bit canvas, a
// 6 pixel unsmoothed brush and zlib-compressed KSP files in ./FILES.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 800, Height: 600, Depth: 16},
		Brush:  Brush{Size: 6, Smoothing: 1},
		Storage: Storage{
			SaveDir:     "FILES",
			Compression: ksp.Zlib.String(),
			Format:      "ksp",
		},
	}
}

// Load reads the configuration at path, which may start with ~. An empty
// path returns Default.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", p, err)
	}
	painter.Logger().Debug("config: loaded", "path", p)
	return c, nil
}

// Decode reads TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: %s: %w", strict.String(), ErrInvalid)
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Encode writes c to w as TOML.
func Encode(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate reports every invalid field, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(field string, v any) {
		errs = append(errs, fmt.Errorf("config: %s = %v: %w", field, v, ErrInvalid))
	}
	if c.Canvas.Width <= 0 {
		bad("canvas.width", c.Canvas.Width)
	}
	if c.Canvas.Height <= 0 {
		bad("canvas.height", c.Canvas.Height)
	}
	if _, err := c.Depth(); err != nil {
		bad("canvas.depth", c.Canvas.Depth)
	}
	if c.Brush.Size < 0 {
		bad("brush.size", c.Brush.Size)
	}
	if c.Brush.Smoothing < 0 || c.Brush.Smoothing > 1 {
		bad("brush.smoothing", c.Brush.Smoothing)
	}
	if _, err := painter.KernelByName(c.Brush.Kernel); err != nil {
		bad("brush.kernel", c.Brush.Kernel)
	}
	if _, err := c.Compression(); err != nil {
		bad("storage.compression", c.Storage.Compression)
	}
	if c.Storage.Format != "ksp" && c.Storage.Format != "png" {
		bad("storage.format", c.Storage.Format)
	}
	return errors.Join(errs...)
}

// Depth returns the canvas depth.
func (c Config) Depth() (painter.Depth, error) {
	return painter.DepthForBits(c.Canvas.Depth)
}

// Compression returns the KSP payload compression.
func (c Config) Compression() (ksp.Compression, error) {
	return ksp.ParseCompression(c.Storage.Compression)
}

// LayerOptions returns the layer options for the configured kernel and
// smoothing.
func (c Config) LayerOptions() ([]painter.LayerOption, error) {
	k, err := painter.KernelByName(c.Brush.Kernel)
	if err != nil {
		return nil, err
	}
	return []painter.LayerOption{
		painter.WithKernel(k),
		painter.WithSmoothing(c.Brush.Smoothing),
	}, nil
}

// SaveDir returns the save directory with ~ expanded.
func (c Config) SaveDir() (string, error) {
	return homedir.Expand(c.Storage.SaveDir)
}
