package splat

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/triplanar/engine/core"
	"github.com/spaghettifunk/triplanar/engine/math"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/weights"
)

// ATTRIBUTE_MATERIAL_WEIGHTS carries one packed weights.Lanes value per vertex.
var ATTRIBUTE_MATERIAL_WEIGHTS = metadata.VertexAttribute{
	Name:     "MaterialWeights",
	ID:       988540917,
	Format:   metadata.VertexFormatUint32,
	Location: 3,
}

// MeshFactory produces the base geometry. Every vertex must carry a normal.
type MeshFactory func() (*metadata.Mesh, error)

// IcosphereMesh builds a sphere mesh of the given radius and subdivision level.
func IcosphereMesh(radius float32, subdivisions int) MeshFactory {
	return func() (*metadata.Mesh, error) {
		vertices, indices, err := math.GenerateIcosphere(radius, subdivisions)
		if err != nil {
			return nil, err
		}
		return metadata.NewMesh(fmt.Sprintf("icosphere_r%g_s%d", radius, subdivisions), vertices, indices), nil
	}
}

// Assembly describes the scene built once every texture layer is merged.
type Assembly struct {
	Mesh MeshFactory
	// The blend weights measure each normal against Axis.
	Axis      mgl32.Vec3
	Sharpness float32
	// Template for the spawned material. Its textures are replaced by the merged ones.
	Material metadata.TriplanarMaterial
}

// DefaultAssembly is a radius 5 icosphere blended along +X with sharpness 10.
func DefaultAssembly() Assembly {
	mat := *metadata.DefaultTriplanarMaterial()
	mat.Metallic = 0.05
	mat.PerceptualRoughness = 0.9
	mat.UVScale = 1.0
	return Assembly{
		Mesh:      IcosphereMesh(5.0, 6),
		Axis:      mgl32.Vec3{1, 0, 0},
		Sharpness: 10.0,
		Material:  mat,
	}
}

// MergedTextures are the stacked textures of the four material channels.
type MergedTextures struct {
	BaseColor  metadata.ImageHandle
	Occlusion  metadata.ImageHandle
	NormalMap  metadata.ImageHandle
	MetalRough metadata.ImageHandle
}

// BuildMesh creates the base mesh and attaches the per-vertex blend weights.
func (a Assembly) BuildMesh() (*metadata.Mesh, error) {
	if a.Mesh == nil {
		return nil, fmt.Errorf("assembly has no mesh factory")
	}
	mesh, err := a.Mesh()
	if err != nil {
		return nil, fmt.Errorf("build mesh: %w", err)
	}
	normals := make([]mgl32.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		normals[i] = v.Normal
	}
	if err := mesh.InsertUint32Attribute(ATTRIBUTE_MATERIAL_WEIGHTS, weights.BlendWeights(normals, a.Axis, a.Sharpness)); err != nil {
		return nil, err
	}
	return mesh, nil
}

// BuildMaterial copies the template and binds the merged textures.
func (a Assembly) BuildMaterial(tex MergedTextures, layers uint32) *metadata.TriplanarMaterial {
	mat := a.Material
	mat.LayerCount = layers
	mat.BaseColorTexture = &metadata.TextureMap{Texture: tex.BaseColor, Use: metadata.TextureUseBaseColor, LayerCount: layers}
	mat.OcclusionTexture = &metadata.TextureMap{Texture: tex.Occlusion, Use: metadata.TextureUseOcclusion, LayerCount: layers}
	mat.NormalMapTexture = &metadata.TextureMap{Texture: tex.NormalMap, Use: metadata.TextureUseNormalMap, LayerCount: layers}
	mat.MetallicRoughnessTexture = &metadata.TextureMap{Texture: tex.MetalRough, Use: metadata.TextureUseMetallicRoughness, LayerCount: layers}
	mat.EmissiveTexture = nil
	return &mat
}

// Assemble adds the weighted mesh and the material to the scene and spawns one entity.
func (a Assembly) Assemble(scene SceneBuilder, tex MergedTextures, layers uint32) (metadata.EntityID, error) {
	mesh, err := a.BuildMesh()
	if err != nil {
		return metadata.EntityID{}, err
	}
	meshHandle, err := scene.AddMesh(mesh)
	if err != nil {
		return metadata.EntityID{}, fmt.Errorf("add mesh: %w", err)
	}
	matHandle, err := scene.AddMaterial(a.BuildMaterial(tex, layers))
	if err != nil {
		return metadata.EntityID{}, fmt.Errorf("add material: %w", err)
	}
	entity, err := scene.Spawn(meshHandle, matHandle)
	if err != nil {
		return metadata.EntityID{}, fmt.Errorf("spawn: %w", err)
	}
	core.LogDebug("spawned splat entity %s with %d vertices", entity, mesh.VertexCount())
	return entity, nil
}
