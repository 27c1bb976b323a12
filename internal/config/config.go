package config

import (
	"fmt"
	"os"

	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth    = 1280
	DefaultHeight   = 720
	DefaultFPS      = 60
	DefaultStars    = 5000
	DefaultDt       = 1.0 / 60
	DefaultDuration = 60.0
	DefaultFOV      = 75.0
)

type Config struct {
	Theme   string             `yaml:"theme"`
	Paused  bool               `yaml:"paused"`
	Speeds  map[string]float64 `yaml:"speeds,omitempty"`
	Window  WindowConfig       `yaml:"window"`
	Camera  CameraConfig       `yaml:"camera"`
	Stars   int                `yaml:"stars"`
	Run     RunConfig          `yaml:"run"`
	DataDir string             `yaml:"data_dir"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
}

type CameraConfig struct {
	FOV      float64    `yaml:"fov"`
	Position [3]float64 `yaml:"position,flow"`
	Target   [3]float64 `yaml:"target,flow"`
}

// RunConfig drives headless runs. RealtimeFPS > 0 paces ticks to wall time.
type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	RealtimeFPS int     `yaml:"realtime_fps"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: string(orrery.ThemeDark),
		Window: WindowConfig{
			Title:  "orrery",
			Width:  DefaultWidth,
			Height: DefaultHeight,
			FPS:    DefaultFPS,
		},
		Camera: CameraConfig{
			FOV:      DefaultFOV,
			Position: [3]float64{0, 30, 60},
		},
		Stars: DefaultStars,
		Run: RunConfig{
			Dt:       DefaultDt,
			Duration: DefaultDuration,
		},
		DataDir: ".orrery",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := orrery.ParseTheme(c.Theme); err != nil {
		return err
	}
	known := make(map[string]bool)
	for _, id := range orrery.BodyIDs() {
		known[id] = true
	}
	for id := range c.Speeds {
		if !known[id] {
			return fmt.Errorf("speeds: %w: %q", orrery.ErrUnknownBody, id)
		}
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.FPS <= 0 {
		return fmt.Errorf("window fps must be positive, got %d", c.Window.FPS)
	}
	if c.Stars < 0 {
		return fmt.Errorf("stars must not be negative, got %d", c.Stars)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera fov must be in (0, 180), got %f", c.Camera.FOV)
	}
	if c.Run.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Run.Dt)
	}
	if c.Run.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Run.Duration)
	}
	return nil
}

// CameraPose builds the starting camera for the configured window.
func (c *Config) CameraPose() geom.Camera {
	cam := geom.NewCamera()
	cam.FOV = c.Camera.FOV
	cam.Position = geom.V(c.Camera.Position[0], c.Camera.Position[1], c.Camera.Position[2])
	cam.Target = geom.V(c.Camera.Target[0], c.Camera.Target[1], c.Camera.Target[2])
	return cam
}

// ControllerOptions turns camera and window settings into controller options.
func (c *Config) ControllerOptions() []orrery.Option {
	return []orrery.Option{
		orrery.WithCamera(c.CameraPose()),
		orrery.WithViewport(c.Window.Width, c.Window.Height),
	}
}

// Apply pushes theme, pause flag and speed multipliers into ctrl.
func (c *Config) Apply(ctrl *orrery.Controller) error {
	theme, err := orrery.ParseTheme(c.Theme)
	if err != nil {
		return err
	}
	ctrl.SetTheme(theme)
	if ctrl.Paused() != c.Paused {
		ctrl.TogglePause()
	}
	for id, v := range c.Speeds {
		if err := ctrl.SetSpeedMultiplier(id, v); err != nil {
			return err
		}
	}
	return nil
}

// Frames is the number of fixed steps in a headless run.
func (r RunConfig) Frames() int {
	return int(r.Duration/r.Dt + 0.5)
}
