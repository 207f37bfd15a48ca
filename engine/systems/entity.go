package systems

import (
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/splat"
)

// Entity is one renderable instance.
type Entity struct {
	ID       metadata.EntityID
	Mesh     metadata.MeshHandle
	Material metadata.MaterialHandle
}

// EntitySystem is the scene the splat material is spawned into.
type EntitySystem struct {
	entities []*Entity
	// sub systems
	meshSystem     *MeshSystem
	materialSystem *MaterialSystem
}

func NewEntitySystem(mls *MeshSystem, ms *MaterialSystem) (*EntitySystem, error) {
	return &EntitySystem{
		meshSystem:     mls,
		materialSystem: ms,
	}, nil
}

func (es *EntitySystem) Shutdown() error {
	es.entities = nil
	return nil
}

func (es *EntitySystem) AddMesh(mesh *metadata.Mesh) (metadata.MeshHandle, error) {
	return es.meshSystem.Add(mesh)
}

func (es *EntitySystem) AddMaterial(material *metadata.TriplanarMaterial) (metadata.MaterialHandle, error) {
	return es.materialSystem.Add(material)
}

func (es *EntitySystem) Spawn(mesh metadata.MeshHandle, material metadata.MaterialHandle) (metadata.EntityID, error) {
	if _, err := es.meshSystem.Get(mesh); err != nil {
		return metadata.EntityID{}, err
	}
	if _, err := es.materialSystem.Get(material); err != nil {
		return metadata.EntityID{}, err
	}
	e := &Entity{
		ID:       metadata.EntityID{ID: core.NewID()},
		Mesh:     mesh,
		Material: material,
	}
	es.entities = append(es.entities, e)
	return e.ID, nil
}

func (es *EntitySystem) Entities() []*Entity {
	return es.entities
}

var _ splat.SceneBuilder = (*EntitySystem)(nil)
