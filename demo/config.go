package demo

import (
	"fmt"
	"os"

	"github.com/bloeys/nbatch/batcher"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int32 `yaml:"width"`
	Height int32 `yaml:"height"`
	VSync  bool  `yaml:"vsync"`
}

type GridConfig struct {
	Cols       int     `yaml:"cols"`
	Rows       int     `yaml:"rows"`
	SpriteSize float32 `yaml:"sprite_size"`
	Spacing    float32 `yaml:"spacing"`
	// Effects is how many different sprite effects the grid cycles through
	Effects int `yaml:"effects"`
}

type Config struct {
	Batcher batcher.Options `yaml:"batcher"`
	Window  WindowConfig    `yaml:"window"`
	Grid    GridConfig      `yaml:"grid"`
	// Meshes is the number of spinning meshes drawn with their own model matrix
	Meshes int `yaml:"meshes"`
	// Masked adds a stencil clipped group of sprites
	Masked bool `yaml:"masked"`
	// Frames is the number of frames a headless run draws
	Frames int  `yaml:"frames"`
	Debug  bool `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Batcher: batcher.DefaultOptions(),
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Grid: GridConfig{
			Cols:       32,
			Rows:       18,
			SpriteSize: 30,
			Spacing:    40,
			Effects:    2,
		},
		Meshes: 4,
		Masked: true,
		Frames: 3,
	}
}

func (c *Config) validate() error {

	if c.Grid.Cols < 0 || c.Grid.Rows < 0 {
		return fmt.Errorf("grid size must not be negative, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}

	if c.Grid.Effects < 1 {
		return fmt.Errorf("grid needs at least 1 effect, got %d", c.Grid.Effects)
	}

	if c.Meshes < 0 {
		return fmt.Errorf("mesh count must not be negative, got %d", c.Meshes)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	return nil
}

// ParseConfig reads a yaml config. Missing keys keep their default value.
func ParseConfig(data []byte) (Config, error) {

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing demo config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid demo config: %w", err)
	}

	return cfg, nil
}

func LoadConfig(path string) (Config, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading demo config: %w", err)
	}

	return ParseConfig(data)
}
