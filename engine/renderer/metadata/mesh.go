package metadata

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/triplanar/engine/math"
)

/** @brief The data type of one vertex attribute element. */
type VertexFormat int

const (
	VertexFormatFloat32x2 VertexFormat = iota
	VertexFormatFloat32x3
	VertexFormatUint32
)

func (f VertexFormat) Size() uint32 {
	switch f {
	case VertexFormatFloat32x2:
		return 8
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatUint32:
		return 4
	default:
		return 0
	}
}

/**
 * @brief Describes a custom per-vertex attribute a pipeline consumes.
 */
type VertexAttribute struct {
	/** @brief Unique attribute name used in shader layouts. */
	Name string
	/** @brief Stable numeric id, mirrors the name for backends that key by number. */
	ID uint64
	/** @brief The element type. */
	Format VertexFormat
	/** @brief The shader location the attribute is bound to. */
	Location uint32
}

/**
 * @brief CPU side geometry plus any custom attributes attached to it.
 */
type Mesh struct {
	Name     string
	Vertices []math.Vertex3D
	Indices  []uint32
	// Custom uint32 attributes keyed by attribute name.
	Uint32Attributes map[string][]uint32
}

func NewMesh(name string, vertices []math.Vertex3D, indices []uint32) *Mesh {
	return &Mesh{
		Name:             name,
		Vertices:         vertices,
		Indices:          indices,
		Uint32Attributes: make(map[string][]uint32),
	}
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// InsertUint32Attribute attaches values under attr; there must be exactly one per vertex.
func (m *Mesh) InsertUint32Attribute(attr VertexAttribute, values []uint32) error {
	if attr.Format != VertexFormatUint32 {
		return fmt.Errorf("attribute %q is not a uint32 attribute", attr.Name)
	}
	if len(values) != len(m.Vertices) {
		return fmt.Errorf("%w: attribute %q has %d values for %d vertices", ErrAttributeLength, attr.Name, len(values), len(m.Vertices))
	}
	if m.Uint32Attributes == nil {
		m.Uint32Attributes = make(map[string][]uint32)
	}
	m.Uint32Attributes[attr.Name] = values
	return nil
}

func (m *Mesh) Uint32Attribute(attr VertexAttribute) ([]uint32, bool) {
	v, ok := m.Uint32Attributes[attr.Name]
	return v, ok
}

type MeshHandle struct {
	ID uuid.UUID
}

type EntityID struct {
	ID uuid.UUID
}

func (e EntityID) String() string {
	return e.ID.String()
}
