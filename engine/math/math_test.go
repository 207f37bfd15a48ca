package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 255))
	assert.Equal(t, 255, Clamp(300, 0, 255))
	assert.Equal(t, 12, Clamp(12, 0, 255))
	assert.Equal(t, float32(1), Saturate(float32(1.5)))
	assert.Equal(t, 0.0, Saturate(-0.25))
}

func TestIcosphereVertexCount(t *testing.T) {
	for _, s := range []int{0, 1, 2, 6} {
		vertices, indices, err := GenerateIcosphere(5, s)
		require.NoError(t, err)

		n := s + 1
		assert.Len(t, vertices, 10*n*n+2, "subdivisions=%d", s)
		assert.Len(t, indices, 20*n*n*3, "subdivisions=%d", s)
		for _, idx := range indices {
			require.Less(t, int(idx), len(vertices))
		}
	}
}

func TestIcosphereNormalsAreUnitAndOutward(t *testing.T) {
	vertices, _, err := GenerateIcosphere(5, 3)
	require.NoError(t, err)

	for _, v := range vertices {
		assert.InDelta(t, 1.0, v.Normal.Len(), 1e-5)
		assert.InDelta(t, 5.0, v.Position.Len(), 1e-4)
		assert.Greater(t, v.Normal.Dot(v.Position), float32(0))
	}
}

func TestIcosphereLimitFitsSixteenBitIndices(t *testing.T) {
	n := MaxIcosphereSubdivisions + 1
	assert.LessOrEqual(t, 10*n*n+2, 65535)
	n++
	assert.Greater(t, 10*n*n+2, 65535, "the limit is the largest that fits")
}

func TestIcosphereRejectsTooManySubdivisions(t *testing.T) {
	_, _, err := GenerateIcosphere(1, MaxIcosphereSubdivisions+1)
	assert.ErrorIs(t, err, ErrTooManyVertices)

	_, _, err = GenerateIcosphere(1, -1)
	assert.Error(t, err)
}

func TestGenerateNormalsOnSphereMatchesPositions(t *testing.T) {
	vertices, indices, err := GenerateIcosphere(2, 4)
	require.NoError(t, err)

	GeometryGenerateNormals(vertices, indices)
	for _, v := range vertices {
		expected := v.Position.Normalize()
		assert.Greater(t, v.Normal.Dot(expected), float32(0.99))
	}
}

func TestGeometryExtents(t *testing.T) {
	ext := GeometryExtents([]Vertex3D{
		{Position: mgl32.Vec3{1, -2, 3}},
		{Position: mgl32.Vec3{-1, 4, 0}},
	})
	assert.Equal(t, mgl32.Vec3{-1, -2, 0}, ext.Min)
	assert.Equal(t, mgl32.Vec3{1, 4, 3}, ext.Max)
}
