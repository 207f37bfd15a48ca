package loaders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/triplanar/engine/math"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
)

var ErrNoGeometry = errors.New("model contains no triangle geometry")

// MeshLoader reads the triangle primitives of a .gltf or .glb file and
// flattens them into a single mesh.
type MeshLoader struct{}

func (ml *MeshLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	mesh, err := MeshFromDocument(name, doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		Type:     metadata.ResourceTypeMesh,
		DataSize: uint64(len(mesh.Vertices)),
		Data:     mesh,
	}, nil
}

func (ml *MeshLoader) Unload(res *metadata.Resource) error {
	if res != nil {
		res.Data = nil
	}
	return nil
}

// MeshFromDocument merges every triangle primitive of doc. Primitives without
// normals get smooth generated ones.
func MeshFromDocument(name string, doc *gltf.Document) (*metadata.Mesh, error) {
	var vertices []math.Vertex3D
	var indices []uint32

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			v, idx, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			base := uint32(len(vertices))
			vertices = append(vertices, v...)
			for _, i := range idx {
				indices = append(indices, base+i)
			}
		}
	}

	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrNoGeometry
	}
	return metadata.NewMesh(name, vertices, indices), nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]math.Vertex3D, []uint32, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, nil, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, nil, fmt.Errorf("index %d out of range (%d vertices)", i, len(positions))
		}
	}

	vertices := make([]math.Vertex3D, len(positions))
	for i, p := range positions {
		vertices[i].Position = mgl32.Vec3(p)
		if i < len(uvs) {
			vertices[i].Texcoord = mgl32.Vec2(uvs[i])
		}
	}
	if len(normals) == len(positions) {
		for i, n := range normals {
			vertices[i].Normal = mgl32.Vec3(n)
		}
	} else {
		math.GeometryGenerateNormals(vertices, indices)
	}
	return vertices, indices, nil
}
