package splat

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/triplanar/engine/math"
	"github.com/spaghettifunk/triplanar/engine/renderer/metadata"
	"github.com/spaghettifunk/triplanar/engine/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAssemblyReferenceSphere(t *testing.T) {
	a := DefaultAssembly()
	mesh, err := a.BuildMesh()
	require.NoError(t, err)

	// 10 * (6+1)^2 + 2
	assert.Equal(t, 492, mesh.VertexCount())
	w, ok := mesh.Uint32Attribute(ATTRIBUTE_MATERIAL_WEIGHTS)
	require.True(t, ok)
	assert.Len(t, w, mesh.VertexCount())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, a.Axis)
	assert.Equal(t, float32(10), a.Sharpness)
}

func TestBuildMeshWeightsFollowNormals(t *testing.T) {
	a := smallAssembly()
	mesh, err := a.BuildMesh()
	require.NoError(t, err)
	values, _ := mesh.Uint32Attribute(ATTRIBUTE_MATERIAL_WEIGHTS)

	for i, v := range mesh.Vertices {
		lanes := weights.Unpack(values[i])
		assert.Equal(t, uint8(0), lanes[1])
		assert.Equal(t, uint8(0), lanes[3])
		assert.Equal(t, 255, int(lanes[0])+int(lanes[2]))
		if v.Normal.X() > 0.9 {
			assert.GreaterOrEqual(t, lanes[0], uint8(250))
		}
		if v.Normal.X() < -0.9 {
			assert.LessOrEqual(t, lanes[0], uint8(5))
		}
	}
}

func TestBuildMeshFactoryError(t *testing.T) {
	a := smallAssembly()
	a.Mesh = IcosphereMesh(1, math.MaxIcosphereSubdivisions+1)
	_, err := a.BuildMesh()
	assert.ErrorIs(t, err, math.ErrTooManyVertices)

	a.Mesh = nil
	_, err = a.BuildMesh()
	assert.Error(t, err)
}

func TestAssembleWithCustomMesh(t *testing.T) {
	tri := []math.Vertex3D{
		{Position: mgl32.Vec3{0, 0, 0}},
		{Position: mgl32.Vec3{0, 1, 0}},
		{Position: mgl32.Vec3{0, 0, 1}},
	}
	math.GeometryGenerateNormals(tri, []uint32{0, 1, 2})

	a := smallAssembly()
	a.Mesh = func() (*metadata.Mesh, error) {
		return metadata.NewMesh("tri", tri, []uint32{0, 1, 2}), nil
	}
	scene := &fakeScene{}
	entity, err := a.Assemble(scene, MergedTextures{}, 1)
	require.NoError(t, err)
	assert.Equal(t, scene.entities[0], entity)

	values, _ := scene.meshes[0].Uint32Attribute(ATTRIBUTE_MATERIAL_WEIGHTS)
	// the triangle faces +X
	assert.Equal(t, weights.BlendWeight(mgl32.Vec3{1, 0, 0}, a.Axis, a.Sharpness), values[0])
}

func TestAssembleSpawnError(t *testing.T) {
	boom := errors.New("boom")
	_, err := smallAssembly().Assemble(&fakeScene{spawnErr: boom}, MergedTextures{}, 1)
	assert.ErrorIs(t, err, boom)
}
