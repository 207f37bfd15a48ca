package math

import (
	"errors"
	"fmt"
	m "math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxIcosphereSubdivisions keeps the vertex count addressable by 16 bit indices
// (10*80^2+2 = 64002 vertices).
const MaxIcosphereSubdivisions = 79

var ErrTooManyVertices = errors.New("icosphere has too many vertices")

var icosahedronFaces = [20][3]int{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

func icosahedronVertices() [12]mgl32.Vec3 {
	t := float32((1.0 + m.Sqrt(5.0)) / 2.0)
	return [12]mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
}

// latticeKey identifies a subdivision point by the base vertices it is
// interpolated from, so points on shared edges are emitted once.
type latticeKey [3][2]int

func newLatticeKey(idx [3]int, weights [3]int) latticeKey {
	var k latticeKey
	for i := 0; i < 3; i++ {
		if weights[i] == 0 {
			k[i] = [2]int{-1, 0}
		} else {
			k[i] = [2]int{idx[i], weights[i]}
		}
	}
	sort.Slice(k[:], func(a, b int) bool {
		if k[a][0] != k[b][0] {
			return k[a][0] < k[b][0]
		}
		return k[a][1] < k[b][1]
	})
	return k
}

// GenerateIcosphere builds a sphere by splitting every icosahedron edge into
// subdivisions+1 segments and projecting the points onto the sphere. The result
// has 10*(subdivisions+1)^2+2 vertices with unit normals.
func GenerateIcosphere(radius float32, subdivisions int) ([]Vertex3D, []uint32, error) {
	if subdivisions < 0 {
		return nil, nil, fmt.Errorf("icosphere subdivisions must be >= 0, got %d", subdivisions)
	}
	if subdivisions > MaxIcosphereSubdivisions {
		return nil, nil, fmt.Errorf("%w: %d subdivisions (max %d)", ErrTooManyVertices, subdivisions, MaxIcosphereSubdivisions)
	}

	n := subdivisions + 1
	base := icosahedronVertices()
	vertexCount := 10*n*n + 2

	vertices := make([]Vertex3D, 0, vertexCount)
	indices := make([]uint32, 0, 20*n*n*3)
	lookup := make(map[latticeKey]uint32, vertexCount)

	for _, face := range icosahedronFaces {
		a, b, c := base[face[0]], base[face[1]], base[face[2]]

		// row-major grid of vertex ids for this face; row i has n-i+1 points
		grid := make([][]uint32, n+1)
		for i := 0; i <= n; i++ {
			grid[i] = make([]uint32, n-i+1)
			for j := 0; j <= n-i; j++ {
				weights := [3]int{n - i - j, i, j}
				key := newLatticeKey(face, weights)
				if id, ok := lookup[key]; ok {
					grid[i][j] = id
					continue
				}
				p := a.Mul(float32(weights[0])).
					Add(b.Mul(float32(weights[1]))).
					Add(c.Mul(float32(weights[2]))).
					Mul(1 / float32(n))
				normal := p.Normalize()
				id := uint32(len(vertices))
				vertices = append(vertices, Vertex3D{
					Position: normal.Mul(radius),
					Normal:   normal,
					Texcoord: sphericalUV(normal),
				})
				lookup[key] = id
				grid[i][j] = id
			}
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n-i; j++ {
				indices = append(indices, grid[i][j], grid[i+1][j], grid[i][j+1])
				if j+1 < n-i {
					indices = append(indices, grid[i+1][j], grid[i+1][j+1], grid[i][j+1])
				}
			}
		}
	}

	return vertices, indices, nil
}

func sphericalUV(n mgl32.Vec3) mgl32.Vec2 {
	u := float32(m.Atan2(float64(n.Z()), float64(n.X())))/(2*m.Pi) + 0.5
	v := float32(m.Asin(float64(Clamp(n.Y(), -1, 1))))/m.Pi + 0.5
	return mgl32.Vec2{u, v}
}
