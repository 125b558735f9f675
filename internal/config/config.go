// Package config loads defaults for the kittyimg command from a TOML file.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

const appName = "kittyimg"

type Config struct {
	ImageID  uint32 `koanf:"image_id"`
	Columns  int    `koanf:"columns"` // 0 derives columns from width and the cell size
	Rows     int    `koanf:"rows"`    // 0 derives rows from height and the cell size
	Width    int    `koanf:"width"`   // raster width in pixels
	Height   int    `koanf:"height"`  // raster height in pixels
	Color    string `koanf:"color"`   // "#rrggbb" or a CSS color name
	Protocol string `koanf:"protocol"`
	Tmux     bool   `koanf:"tmux"` // force tmux passthrough
}

// Default returns the built-in configuration: a 50x50 red square in a 10x5 cell grid
func Default() *Config {
	return &Config{
		ImageID:  999,
		Columns:  10,
		Rows:     5,
		Width:    50,
		Height:   50,
		Color:    "#ff0000",
		Protocol: "auto",
	}
}

// Path returns the user config file location under XDG_CONFIG_HOME
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// Load reads the user config file, if any, on top of the defaults
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path on top of the defaults. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// RGB resolves Color to 8-bit components
func (c *Config) RGB() (r, g, b int, err error) {
	return ParseColor(c.Color)
}

// ParseColor accepts "#rgb", "#rrggbb" or a CSS color name such as "rebeccapurple"
func ParseColor(s string) (r, g, b int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, 0, fmt.Errorf("empty color")
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return rgbInts(named)
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r8, g8, b8 := c.RGB255()
	return int(r8), int(g8), int(b8), nil
}

func rgbInts(c color.RGBA) (r, g, b int, err error) {
	return int(c.R), int(c.G), int(c.B), nil
}
