package scene

// CreateCube returns a box of the given size centered on the origin,
// 8 vertices and 12 outward facing triangles.
func CreateCube(x, y, z float64) *Mesh {
	hx, hy, hz := x/2, y/2, z/2
	m := NewMesh()
	m.AddVertex(-hx, -hy, hz)
	m.AddVertex(-hx, hy, hz)
	m.AddVertex(-hx, -hy, -hz)
	m.AddVertex(-hx, hy, -hz)
	m.AddVertex(hx, -hy, hz)
	m.AddVertex(hx, hy, hz)
	m.AddVertex(hx, -hy, -hz)
	m.AddVertex(hx, hy, -hz)

	faces := []Face{
		{0, 4, 5}, {0, 5, 1},
		{2, 0, 1}, {2, 1, 3},
		{4, 6, 7}, {4, 7, 5},
		{2, 3, 7}, {2, 7, 6},
		{1, 5, 7}, {1, 7, 3},
		{2, 6, 4}, {2, 4, 0},
	}
	m.Faces = append(m.Faces, faces...)
	return m
}
