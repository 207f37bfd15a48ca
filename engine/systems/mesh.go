package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/math"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var (
	ErrMeshNotFound = errors.New("mesh not found")
	ErrInvalidMesh  = errors.New("invalid mesh")
)

type MeshSystem struct {
	meshes map[uuid.UUID]*metadata.Mesh
	// sub systems
	shaderSystem *ShaderSystem
}

func NewMeshSystem(ss *ShaderSystem) (*MeshSystem, error) {
	return &MeshSystem{
		meshes:       make(map[uuid.UUID]*metadata.Mesh),
		shaderSystem: ss,
	}, nil
}

func (mls *MeshSystem) Shutdown() error {
	mls.meshes = make(map[uuid.UUID]*metadata.Mesh)
	return nil
}

// Add validates the geometry and its custom attributes and stores the mesh.
func (mls *MeshSystem) Add(mesh *metadata.Mesh) (metadata.MeshHandle, error) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 || len(mesh.Indices)%3 != 0 {
		return metadata.MeshHandle{}, fmt.Errorf("%w: %d vertices, %d indices", ErrInvalidMesh, len(mesh.Vertices), len(mesh.Indices))
	}
	for _, i := range mesh.Indices {
		if int(i) >= len(mesh.Vertices) {
			return metadata.MeshHandle{}, fmt.Errorf("%w: index %d out of range", ErrInvalidMesh, i)
		}
	}
	for name, values := range mesh.Uint32Attributes {
		if _, ok := mls.shaderSystem.VertexAttribute(name); !ok {
			return metadata.MeshHandle{}, fmt.Errorf("%w: %s", ErrAttributeNotFound, name)
		}
		if len(values) != len(mesh.Vertices) {
			return metadata.MeshHandle{}, fmt.Errorf("%w: %s", metadata.ErrAttributeLength, name)
		}
	}

	h := metadata.MeshHandle{ID: core.NewID()}
	mls.meshes[h.ID] = mesh
	ext := math.GeometryExtents(mesh.Vertices)
	core.LogDebug("mesh '%s' added: %d vertices, extents %v..%v", mesh.Name, mesh.VertexCount(), ext.Min, ext.Max)
	return h, nil
}

func (mls *MeshSystem) Get(h metadata.MeshHandle) (*metadata.Mesh, error) {
	m, ok := mls.meshes[h.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMeshNotFound, h.ID)
	}
	return m, nil
}
