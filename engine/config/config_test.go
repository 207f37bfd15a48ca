package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoLayers = `
[application]
name = "splat test"
log_level = "debug"
tick_rate = 30.0
max_ticks = 10

[assets]
base_path = "testdata"

[material]
layers = 2
base_color = ["brick/albedo.png", "sand/albedo.png"]
occlusion = ["brick/ao.png", "sand/ao.png"]
normal_map = ["brick/normal.png", "sand/normal.png"]
metal_rough = ["brick/mr.png", "sand/mr.png"]
projection = "biplanar"

[weights]
axis = [0.0, 2.0, 0.0]
sharpness = 4.0
`

func TestDefaultMatchesReferenceScene(t *testing.T) {
	cfg := Default()
	assert.Equal(t, MeshSourceIcosphere, cfg.Mesh.Source)
	assert.Equal(t, float32(5), cfg.Mesh.Radius)
	assert.Equal(t, 6, cfg.Mesh.Subdivisions)
	assert.Equal(t, float32(10), cfg.Weights.Sharpness)
	assert.Equal(t, float32(0.05), cfg.Material.Metallic)
	assert.Equal(t, float32(0.9), cfg.Material.PerceptualRoughness)
	assert.Equal(t, float32(1.0), cfg.Material.UVScale)
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(twoLayers))
	require.NoError(t, err)

	assert.Equal(t, "splat test", cfg.Application.Name)
	assert.Equal(t, 30.0, cfg.Application.TickRate)
	assert.Equal(t, uint64(10), cfg.Application.MaxTicks)
	assert.Equal(t, 2, cfg.Material.Layers)
	assert.Equal(t, []string{"sand/ao.png"}, cfg.Material.Occlusion[1:])
	// untouched sections keep their defaults
	assert.Equal(t, 2, cfg.Jobs.Workers)
	assert.Equal(t, float32(5), cfg.Mesh.Radius)

	proj, err := cfg.Projection()
	require.NoError(t, err)
	assert.Equal(t, metadata.ProjectionBiplanar, proj)

	axis := cfg.Axis()
	assert.InDelta(t, 1.0, axis.Y(), 1e-6)
	assert.InDelta(t, 1.0, axis.Len(), 1e-6)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[material]\nlayerz = 3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseRejectsMalformedToml(t *testing.T) {
	_, err := Parse([]byte("[material\nlayers = 1"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero layers", func(c *Config) { c.Material.Layers = 0 }},
		{"path count mismatch", func(c *Config) { c.Material.BaseColor = c.Material.BaseColor[:1] }},
		{"empty path", func(c *Config) { c.Material.NormalMap[1] = " " }},
		{"unknown projection", func(c *Config) { c.Material.Projection = "quadplanar" }},
		{"zero axis", func(c *Config) { c.Weights.Axis = [3]float32{} }},
		{"zero sharpness", func(c *Config) { c.Weights.Sharpness = 0 }},
		{"no workers", func(c *Config) { c.Jobs.Workers = 0 }},
		{"negative radius", func(c *Config) { c.Mesh.Radius = -1 }},
		{"stopped clock", func(c *Config) { c.Application.TickRate = 0 }},
		{"more layers than weight lanes", func(c *Config) {
			c.Material.Layers = 5
			for _, ch := range []*[]string{&c.Material.BaseColor, &c.Material.Occlusion, &c.Material.NormalMap, &c.Material.MetalRough} {
				*ch = []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(twoLayers))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadAndMarshalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splat.toml")
	require.NoError(t, os.WriteFile(path, []byte(twoLayers), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	data, err := cfg.Marshal()
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "assets", "splat.toml"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Material.Layers)
	assert.True(t, cfg.Assets.Watch)
	for name, paths := range cfg.Channels() {
		assert.Len(t, paths, 2, name)
	}

	// both hemispheres of the sample scene must reach a sampled layer
	for i, n := range []mgl32.Vec3{cfg.Axis(), cfg.Axis().Mul(-1)} {
		perLayer := weights.Unpack(weights.BlendWeight(n, cfg.Axis(), cfg.Weights.Sharpness)).LayerWeights(cfg.Material.Layers)
		assert.Equal(t, uint32(weights.MaxLane), perLayer[i], "normal %v", n)
	}
}
