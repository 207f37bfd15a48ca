package splat

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

// memStore is an AssetStore whose loads complete when the test says so.
type memStore struct {
	requests []string
	pending  map[uuid.UUID]string
	images   map[uuid.UUID]*metadata.ImageData
	stored   []metadata.ImageHandle
}

func newMemStore() *memStore {
	return &memStore{
		pending: make(map[uuid.UUID]string),
		images:  make(map[uuid.UUID]*metadata.ImageData),
	}
}

func (s *memStore) RequestLoad(path string) metadata.ImageHandle {
	s.requests = append(s.requests, path)
	id := core.PathID(path)
	if _, ok := s.images[id]; !ok {
		s.pending[id] = path
	}
	return metadata.NewImageHandle(id)
}

func (s *memStore) Resolve(id uuid.UUID) (*metadata.ImageData, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvableHandle, id)
	}
	return img, nil
}

func (s *memStore) Store(img *metadata.ImageData) metadata.ImageHandle {
	h := metadata.NewImageHandle(core.NewID())
	s.images[h.ID()] = img
	s.stored = append(s.stored, h)
	return h
}

// complete finishes the load of path and returns the event the host would emit.
func (s *memStore) complete(path string, img *metadata.ImageData) core.AssetEvent {
	id := core.PathID(path)
	delete(s.pending, id)
	s.images[id] = img
	return core.AssetEvent{Kind: core.AssetEventLoadedWithDependencies, ID: id}
}

type fakeScene struct {
	meshes    []*metadata.Mesh
	materials []*metadata.TriplanarMaterial
	entities  []metadata.EntityID
	spawnErr  error
}

func (f *fakeScene) AddMesh(mesh *metadata.Mesh) (metadata.MeshHandle, error) {
	f.meshes = append(f.meshes, mesh)
	return metadata.MeshHandle{ID: core.NewID()}, nil
}

func (f *fakeScene) AddMaterial(m *metadata.TriplanarMaterial) (metadata.MaterialHandle, error) {
	f.materials = append(f.materials, m)
	return metadata.MaterialHandle{ID: core.NewID()}, nil
}

func (f *fakeScene) Spawn(metadata.MeshHandle, metadata.MaterialHandle) (metadata.EntityID, error) {
	if f.spawnErr != nil {
		return metadata.EntityID{}, f.spawnErr
	}
	e := metadata.EntityID{ID: core.NewID()}
	f.entities = append(f.entities, e)
	return e, nil
}

// solidImage is a w x h RGBA8 image where every byte is fill.
func solidImage(name string, w, h uint32, fill uint8) *metadata.ImageData {
	img := &metadata.ImageData{
		Name:       name,
		Width:      w,
		Height:     h,
		LayerCount: 1,
		Format:     metadata.PixelFormatRGBA8Unorm,
		Usage:      metadata.AssetUsageDefault,
	}
	img.Pixels = make([]uint8, img.ExpectedSize())
	for i := range img.Pixels {
		img.Pixels[i] = fill
	}
	return img
}
