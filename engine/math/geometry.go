package math

import "github.com/go-gl/mathgl/mgl32"

// GeometryGenerateNormals writes smooth per-vertex normals by accumulating the
// area-weighted face normals of every triangle a vertex belongs to.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := range vertices {
		vertices[i].Normal = mgl32.Vec3{}
	}
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		// NOTE: the cross product is not normalized so larger faces weigh more.
		c := edge1.Cross(edge2)
		vertices[i0].Normal = vertices[i0].Normal.Add(c)
		vertices[i1].Normal = vertices[i1].Normal.Add(c)
		vertices[i2].Normal = vertices[i2].Normal.Add(c)
	}
	for i := range vertices {
		if vertices[i].Normal.Len() > K_FLOAT_EPSILON {
			vertices[i].Normal = vertices[i].Normal.Normalize()
		}
	}
}

// GeometryExtents returns the axis aligned bounds of the vertex positions.
func GeometryExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for a := 0; a < 3; a++ {
			if v.Position[a] < ext.Min[a] {
				ext.Min[a] = v.Position[a]
			}
			if v.Position[a] > ext.Max[a] {
				ext.Max[a] = v.Position[a]
			}
		}
	}
	return ext
}
