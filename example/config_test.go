package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("expected defaults to be valid: %v", err)
	}
	if c.Window.Width != 800 || c.Atlas.Size != 1024 || c.Log.Level != "info" {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "window:\n  width: 1280\natlas:\n  padding: 2\nsprites:\n  images: [a.png]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Window.Width != 1280 || c.Window.Height != 600 {
		t.Errorf("expected width overridden and height kept, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Atlas.Padding != 2 || c.Atlas.Size != 1024 {
		t.Errorf("unexpected atlas settings %+v", c.Atlas)
	}
	if len(c.Sprites.Images) != 1 || c.Sprites.Images[0] != "a.png" {
		t.Errorf("unexpected images %v", c.Sprites.Images)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("window: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected malformed YAML to fail")
	}
}

func TestValidate(t *testing.T) {
	c := DefaultConfig()
	c.Window.Width = 0
	c.Atlas.Size = 4096
	c.Sprites.Size = 0

	err := c.Validate()
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
	for _, want := range []string{"window size", "atlas size", "sprite size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestParseFlags(t *testing.T) {
	c, err := parseFlags([]string{"-width", "320", "-log-level", "debug", "-debug", "x.png", "y.bmp"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Window.Width != 320 || c.Log.Level != "debug" || !c.Debug {
		t.Errorf("flags not applied: %+v", c)
	}
	if len(c.Sprites.Images) != 2 {
		t.Errorf("expected positional images, got %v", c.Sprites.Images)
	}
}
