package splat

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// AssetStore is the slice of the host asset subsystem the splat core needs.
// Loads are asynchronous: RequestLoad returns at once and completion is
// reported later through the asset event stream.
type AssetStore interface {
	RequestLoad(path string) metadata.ImageHandle
	// Resolve returns the stored image. The pointer is owned by the store;
	// changes made through it are visible to every holder of the handle.
	Resolve(id uuid.UUID) (*metadata.ImageData, error)
	Store(img *metadata.ImageData) metadata.ImageHandle
}

// SceneBuilder creates the renderable side of the scene.
type SceneBuilder interface {
	AddMesh(mesh *metadata.Mesh) (metadata.MeshHandle, error)
	AddMaterial(material *metadata.TriplanarMaterial) (metadata.MaterialHandle, error)
	Spawn(mesh metadata.MeshHandle, material metadata.MaterialHandle) (metadata.EntityID, error)
}
