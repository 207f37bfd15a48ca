package renderer

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// RendererBackend receives the GPU side of the scene.
type RendererBackend interface {
	Initialize(appName string) error
	Shutdown() error
	TextureCreate(id uuid.UUID, image *metadata.ImageData) error
	TextureDestroy(id uuid.UUID)
	ShaderCreate(shader *metadata.Shader) error
	ShaderDestroy(shader *metadata.Shader)
}
