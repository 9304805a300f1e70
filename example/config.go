package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	grok "github.com/vangroan/grok-glow"
)

// Config is the example's settings file.
type Config struct {
	Window struct {
		Title  string `yaml:"title"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		VSync  bool   `yaml:"vsync"`
	} `yaml:"window"`

	Atlas struct {
		Size    uint32 `yaml:"size"`
		Padding uint32 `yaml:"padding"`
	} `yaml:"atlas"`

	Sprites struct {
		Columns int      `yaml:"columns"`
		Rows    int      `yaml:"rows"`
		Size    uint32   `yaml:"size"`
		Images  []string `yaml:"images"`
	} `yaml:"sprites"`

	Log struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir"`
	} `yaml:"log"`

	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	var c Config
	c.Window.Title = "grok-glow"
	c.Window.Width = 800
	c.Window.Height = 600
	c.Window.VSync = true
	c.Atlas.Size = grok.DefaultDim
	c.Atlas.Padding = grok.DefaultPadding
	c.Sprites.Columns = 16
	c.Sprites.Rows = 12
	c.Sprites.Size = 32
	c.Log.Level = "info"
	return c
}

// LoadConfig reads a YAML file over the defaults. Missing keys keep their
// default value.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects settings that cannot produce a window or an atlas.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Atlas.Size == 0 || c.Atlas.Size > grok.DefaultDim {
		errs = append(errs, fmt.Errorf("atlas size %d must be in 1..%d", c.Atlas.Size, grok.DefaultDim))
	}
	if c.Sprites.Columns <= 0 || c.Sprites.Rows <= 0 {
		errs = append(errs, fmt.Errorf("sprite grid %dx%d must be positive", c.Sprites.Columns, c.Sprites.Rows))
	}
	if c.Sprites.Size == 0 || c.Sprites.Size+2*c.Atlas.Padding > c.Atlas.Size {
		errs = append(errs, fmt.Errorf("sprite size %d does not fit a %d atlas", c.Sprites.Size, c.Atlas.Size))
	}
	return errors.Join(errs...)
}

// parseFlags loads the config named by -config and applies flag
// overrides on top of it.
func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("example", flag.ContinueOnError)
	path := fs.String("config", "", "YAML settings file")
	width := fs.Int("width", 0, "window width")
	height := fs.Int("height", 0, "window height")
	level := fs.String("log-level", "", "log level (debug, info, warn, error)")
	debug := fs.Bool("debug", false, "panic on GL errors while drawing")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	c, err := LoadConfig(*path)
	if err != nil {
		return c, err
	}
	if *width > 0 {
		c.Window.Width = *width
	}
	if *height > 0 {
		c.Window.Height = *height
	}
	if *level != "" {
		c.Log.Level = *level
	}
	if *debug {
		c.Debug = true
	}
	c.Sprites.Images = append(c.Sprites.Images, fs.Args()...)
	return c, c.Validate()
}
