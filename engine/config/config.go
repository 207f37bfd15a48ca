package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/weights"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// MeshSourceIcosphere selects the generated sphere instead of a glTF file.
const MeshSourceIcosphere = "icosphere"

type ApplicationConfig struct {
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// Update ticks per second.
	TickRate float64 `toml:"tick_rate"`
	// Stop after this many ticks; 0 runs until cancelled.
	MaxTicks uint64 `toml:"max_ticks"`
}

type AssetsConfig struct {
	BasePath string `toml:"base_path"`
	// Watch the asset directory for changes.
	Watch bool `toml:"watch"`
}

type JobsConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// MaterialConfig lists, per texture channel, one image path per layer.
type MaterialConfig struct {
	Layers              int      `toml:"layers"`
	BaseColor           []string `toml:"base_color"`
	Occlusion           []string `toml:"occlusion"`
	NormalMap           []string `toml:"normal_map"`
	MetalRough          []string `toml:"metal_rough"`
	Metallic            float32  `toml:"metallic"`
	PerceptualRoughness float32  `toml:"perceptual_roughness"`
	UVScale             float32  `toml:"uv_scale"`
	Projection          string   `toml:"projection"`
}

type MeshConfig struct {
	// "icosphere" or a path to a .gltf/.glb file relative to the asset base path.
	Source       string  `toml:"source"`
	Radius       float32 `toml:"radius"`
	Subdivisions int     `toml:"subdivisions"`
}

type WeightsConfig struct {
	Axis      [3]float32 `toml:"axis"`
	Sharpness float32    `toml:"sharpness"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Assets      AssetsConfig      `toml:"assets"`
	Jobs        JobsConfig        `toml:"jobs"`
	Material    MaterialConfig    `toml:"material"`
	Mesh        MeshConfig        `toml:"mesh"`
	Weights     WeightsConfig     `toml:"weights"`
}

// Default returns the configuration of the reference scene: a radius 5
// icosphere blended along +X with sharpness 10.
func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:     "Triplanar Splatting",
			LogLevel: "info",
			TickRate: 60,
		},
		Assets: AssetsConfig{
			BasePath: "assets",
		},
		Jobs: JobsConfig{
			Workers:   2,
			QueueSize: 64,
		},
		Material: MaterialConfig{
			Layers:              1,
			Metallic:            0.05,
			PerceptualRoughness: 0.9,
			UVScale:             1.0,
			Projection:          metadata.ProjectionTriplanar.String(),
		},
		Mesh: MeshConfig{
			Source:       MeshSourceIcosphere,
			Radius:       5.0,
			Subdivisions: 6,
		},
		Weights: WeightsConfig{
			Axis:      [3]float32{1, 0, 0},
			Sharpness: 10,
		},
	}
}

// Load reads and validates a TOML file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: line %d column %d: %s", ErrInvalidConfig, row, col, derr.Error())
		}
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the config back to TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func (c *Config) Validate() error {
	if c.Application.TickRate <= 0 {
		return fmt.Errorf("%w: application.tick_rate must be > 0", ErrInvalidConfig)
	}
	if c.Jobs.Workers <= 0 {
		return fmt.Errorf("%w: jobs.workers must be > 0", ErrInvalidConfig)
	}
	if c.Jobs.QueueSize < 0 {
		return fmt.Errorf("%w: jobs.queue_size must be >= 0", ErrInvalidConfig)
	}
	if c.Material.Layers < 1 || c.Material.Layers > weights.LaneCount {
		return fmt.Errorf("%w: material.layers must be in [1, %d]", ErrInvalidConfig, weights.LaneCount)
	}
	for name, paths := range c.Channels() {
		if len(paths) != c.Material.Layers {
			return fmt.Errorf("%w: material.%s has %d paths, expected %d", ErrInvalidConfig, name, len(paths), c.Material.Layers)
		}
		for i, p := range paths {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: material.%s[%d] is empty", ErrInvalidConfig, name, i)
			}
		}
	}
	if _, err := c.Projection(); err != nil {
		return err
	}
	if c.Weights.Sharpness <= 0 {
		return fmt.Errorf("%w: weights.sharpness must be > 0", ErrInvalidConfig)
	}
	if c.Axis().Len() == 0 {
		return fmt.Errorf("%w: weights.axis must not be zero", ErrInvalidConfig)
	}
	if c.Mesh.Source == "" {
		return fmt.Errorf("%w: mesh.source must be set", ErrInvalidConfig)
	}
	if c.Mesh.Source == MeshSourceIcosphere && c.Mesh.Radius <= 0 {
		return fmt.Errorf("%w: mesh.radius must be > 0", ErrInvalidConfig)
	}
	return nil
}

// Channels returns the layer paths keyed by their TOML name.
func (c *Config) Channels() map[string][]string {
	return map[string][]string{
		"base_color":  c.Material.BaseColor,
		"occlusion":   c.Material.Occlusion,
		"normal_map":  c.Material.NormalMap,
		"metal_rough": c.Material.MetalRough,
	}
}

func (c *Config) Projection() (metadata.Projection, error) {
	switch strings.ToLower(c.Material.Projection) {
	case "", metadata.ProjectionTriplanar.String():
		return metadata.ProjectionTriplanar, nil
	case metadata.ProjectionBiplanar.String():
		return metadata.ProjectionBiplanar, nil
	default:
		return 0, fmt.Errorf("%w: unknown material.projection %q", ErrInvalidConfig, c.Material.Projection)
	}
}

// Axis returns the normalized reference axis the blend weights are measured against.
func (c *Config) Axis() mgl32.Vec3 {
	a := mgl32.Vec3(c.Weights.Axis)
	if a.Len() == 0 {
		return a
	}
	return a.Normalize()
}
