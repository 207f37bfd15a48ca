package renderer

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/renderer/vulkan"
)

// TextureRecord holds the vulkan create-infos a texture would be created with.
type TextureRecord struct {
	Image   vk.ImageCreateInfo
	Sampler vk.SamplerCreateInfo
}

// HeadlessBackend translates resources into vulkan descriptions without a device.
type HeadlessBackend struct {
	appName  string
	textures map[uuid.UUID]TextureRecord
	shaders  map[uint32]*metadata.Shader
}

func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		textures: make(map[uuid.UUID]TextureRecord),
		shaders:  make(map[uint32]*metadata.Shader),
	}
}

func (hb *HeadlessBackend) Initialize(appName string) error {
	hb.appName = appName
	core.LogInfo("headless renderer backend initialized for '%s'", appName)
	return nil
}

func (hb *HeadlessBackend) Shutdown() error {
	hb.textures = make(map[uuid.UUID]TextureRecord)
	hb.shaders = make(map[uint32]*metadata.Shader)
	return nil
}

func (hb *HeadlessBackend) TextureCreate(id uuid.UUID, image *metadata.ImageData) error {
	info, err := vulkan.ImageCreateInfo(image)
	if err != nil {
		return fmt.Errorf("texture %s: %w", id, err)
	}
	if len(image.Pixels) != image.ExpectedSize() {
		return fmt.Errorf("texture %s: %d bytes for %s", id, len(image.Pixels), image.Descriptor())
	}
	hb.textures[id] = TextureRecord{
		Image:   info,
		Sampler: vulkan.SamplerCreateInfo(image.Sampler),
	}
	core.LogInfo("texture %s -> %s %dx%d", image.Name, vulkan.FormatName(info.Format), info.Extent.Width, info.Extent.Height)
	return nil
}

func (hb *HeadlessBackend) TextureDestroy(id uuid.UUID) {
	delete(hb.textures, id)
}

func (hb *HeadlessBackend) Texture(id uuid.UUID) (TextureRecord, bool) {
	r, ok := hb.textures[id]
	return r, ok
}

func (hb *HeadlessBackend) ShaderCreate(shader *metadata.Shader) error {
	if len(shader.SPIRV) == 0 {
		return fmt.Errorf("shader %s has no SPIR-V", shader.Name)
	}
	hb.shaders[shader.ID] = shader
	return nil
}

func (hb *HeadlessBackend) ShaderDestroy(shader *metadata.Shader) {
	delete(hb.shaders, shader.ID)
}
