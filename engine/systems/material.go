package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var ErrMaterialNotFound = errors.New("material not found")

type MaterialSystemConfig struct {
	MaxMaterialCount uint32
}

// MaterialSystem validates and stores splat material instances.
type MaterialSystem struct {
	Config    *MaterialSystemConfig
	materials map[uuid.UUID]*metadata.TriplanarMaterial
	// sub systems
	shaderSystem  *ShaderSystem
	textureSystem *TextureSystem
}

func NewMaterialSystem(config *MaterialSystemConfig, ss *ShaderSystem, ts *TextureSystem) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError("%s", err.Error())
		return nil, err
	}
	return &MaterialSystem{
		Config:        config,
		materials:     make(map[uuid.UUID]*metadata.TriplanarMaterial),
		shaderSystem:  ss,
		textureSystem: ts,
	}, nil
}

func (ms *MaterialSystem) Shutdown() error {
	ms.materials = make(map[uuid.UUID]*metadata.TriplanarMaterial)
	return nil
}

// Add checks the material against the registered schema and stores it.
func (ms *MaterialSystem) Add(material *metadata.TriplanarMaterial) (metadata.MaterialHandle, error) {
	if uint32(len(ms.materials)) >= ms.Config.MaxMaterialCount {
		return metadata.MaterialHandle{}, fmt.Errorf("material limit of %d reached", ms.Config.MaxMaterialCount)
	}
	schema, err := ms.shaderSystem.GetMaterialSchema(metadata.TriplanarMaterialName)
	if err != nil {
		return metadata.MaterialHandle{}, err
	}
	if _, ok := schema.Pipelines[material.Projection]; !ok {
		return metadata.MaterialHandle{}, fmt.Errorf("%w: no %s pipeline", ErrPipelineNotFound, material.Projection)
	}
	if material.LayerCount == 0 {
		return metadata.MaterialHandle{}, fmt.Errorf("material has no layers")
	}
	for _, tm := range material.Textures() {
		img, err := ms.textureSystem.Resolve(tm.Texture.ID())
		if err != nil {
			return metadata.MaterialHandle{}, fmt.Errorf("%s texture: %w", tm.Use, err)
		}
		if tm.LayerCount != material.LayerCount || img.Height%tm.LayerCount != 0 {
			return metadata.MaterialHandle{}, fmt.Errorf("%s texture of height %d does not hold %d layers", tm.Use, img.Height, material.LayerCount)
		}
	}

	h := metadata.MaterialHandle{ID: core.NewID()}
	ms.materials[h.ID] = material
	core.LogDebug("material %s added (%s, %d layers)", h.ID, material.Projection, material.LayerCount)
	return h, nil
}

func (ms *MaterialSystem) Get(h metadata.MaterialHandle) (*metadata.TriplanarMaterial, error) {
	m, ok := ms.materials[h.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMaterialNotFound, h.ID)
	}
	return m, nil
}
