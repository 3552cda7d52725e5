package scene

import (
	"errors"
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

var ErrFaceIndex = errors.New("face index out of range")

// Face is a triangle, indices into Mesh.Vertices
type Face [3]int

// Mesh is an indexed triangle mesh
type Mesh struct {
	Vertices []vec3.T
	Faces    []Face
}

func NewMesh() *Mesh {
	return &Mesh{
		Vertices: make([]vec3.T, 0),
		Faces:    make([]Face, 0),
	}
}

func (m Mesh) String() string {
	return fmt.Sprintf("Mesh: (vertices:%d, faces:%d)", len(m.Vertices), len(m.Faces))
}

// AddVertex appends a vertex and returns its index
func (m *Mesh) AddVertex(x, y, z float64) int {
	m.Vertices = append(m.Vertices, vec3.T{x, y, z})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle. The face is not stored if any index is out of range.
func (m *Mesh) AddFace(v1, v2, v3 int) error {
	f := Face{v1, v2, v3}
	if err := m.checkFace(f); err != nil {
		return err
	}
	m.Faces = append(m.Faces, f)
	return nil
}

func (m *Mesh) checkFace(f Face) error {
	for _, idx := range f {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("%w: %d (vertices: %d)", ErrFaceIndex, idx, len(m.Vertices))
		}
	}
	return nil
}

// Validate checks that every face references an existing vertex
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		if err := m.checkFace(f); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
	}
	return nil
}

func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]vec3.T, len(m.Vertices)),
		Faces:    make([]Face, len(m.Faces)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Faces, m.Faces)
	return c
}

// Compact returns a new mesh holding only the given faces and the vertices
// they reference. Vertex order follows first use.
func (m *Mesh) Compact(faces []Face) (*Mesh, error) {
	out := NewMesh()
	remap := make(map[int]int)
	for _, f := range faces {
		if err := m.checkFace(f); err != nil {
			return nil, err
		}
		var nf Face
		for i, idx := range f {
			n, ok := remap[idx]
			if !ok {
				n = len(out.Vertices)
				out.Vertices = append(out.Vertices, m.Vertices[idx])
				remap[idx] = n
			}
			nf[i] = n
		}
		out.Faces = append(out.Faces, nf)
	}
	return out, nil
}

// SurfaceArea is the sum of the triangle areas
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, f := range m.Faces {
		a := vec3.Sub(&m.Vertices[f[1]], &m.Vertices[f[0]])
		b := vec3.Sub(&m.Vertices[f[2]], &m.Vertices[f[0]])
		cross := vec3.Cross(&a, &b)
		total += cross.Length() / 2
	}
	return total
}

// Bounds returns the axis aligned bounding box of the vertices
func (m *Mesh) Bounds() (bbox BoundingBox) {
	for i := range m.Vertices {
		bbox.Add(&m.Vertices[i])
	}
	return
}
