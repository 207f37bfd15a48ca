package renderer

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// TextureSource resolves image ids, usually the texture system.
type TextureSource interface {
	Resolve(id uuid.UUID) (*metadata.ImageData, error)
}

type Renderer struct {
	backend  RendererBackend
	uploaded map[uuid.UUID]struct{}
}

func NewRenderer(backend RendererBackend) *Renderer {
	return &Renderer{
		backend:  backend,
		uploaded: make(map[uuid.UUID]struct{}),
	}
}

func (r *Renderer) Initialize(appName string) error {
	return r.backend.Initialize(appName)
}

func (r *Renderer) Shutdown() error {
	for id := range r.uploaded {
		r.backend.TextureDestroy(id)
	}
	r.uploaded = make(map[uuid.UUID]struct{})
	return r.backend.Shutdown()
}

func (r *Renderer) ShaderCreate(shader *metadata.Shader) error {
	return r.backend.ShaderCreate(shader)
}

// UploadMaterial creates every texture the material binds. Textures already
// uploaded are skipped.
func (r *Renderer) UploadMaterial(source TextureSource, material *metadata.TriplanarMaterial) error {
	for _, tm := range material.Textures() {
		id := tm.Texture.ID()
		if _, ok := r.uploaded[id]; ok {
			continue
		}
		img, err := source.Resolve(id)
		if err != nil {
			return fmt.Errorf("%s texture: %w", tm.Use, err)
		}
		if err := r.backend.TextureCreate(id, img); err != nil {
			core.LogError("%s", err.Error())
			return err
		}
		r.uploaded[id] = struct{}{}
	}
	return nil
}

func (r *Renderer) TextureCount() int {
	return len(r.uploaded)
}
