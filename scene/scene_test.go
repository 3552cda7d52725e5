package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestNewHasChildren(t *testing.T) {
	o := New()
	assert.NotNil(t, o.Children)
	assert.Empty(t, o.Children)
	assert.Nil(t, o.Mesh)
	assert.Equal(t, NoMaterial, o.MaterialIndex)
	assert.NotEqual(t, New().ID, o.ID)
}

func TestAddFaceRejectsOutOfRange(t *testing.T) {
	m := NewMesh()
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(0, 1, 0)

	require.NoError(t, m.AddFace(0, 1, 2))
	err := m.AddFace(0, 1, 3)
	assert.True(t, errors.Is(err, ErrFaceIndex))
	err = m.AddFace(-1, 1, 2)
	assert.True(t, errors.Is(err, ErrFaceIndex))
	assert.Len(t, m.Faces, 1)
}

func TestValidate(t *testing.T) {
	m := CreateCube(10, 5, 2)
	require.NoError(t, m.Validate())

	m.Faces = append(m.Faces, Face{0, 1, 8})
	assert.ErrorIs(t, m.Validate(), ErrFaceIndex)
}

func TestCube(t *testing.T) {
	m := CreateCube(10, 5, 2)
	assert.Len(t, m.Vertices, 8)
	assert.Len(t, m.Faces, 12)

	bbox := m.Bounds()
	assert.Equal(t, vec3.T{-5, -2.5, -1}, bbox.Min)
	assert.Equal(t, vec3.T{5, 2.5, 1}, bbox.Max)
	assert.Equal(t, vec3.T{10, 5, 2}, bbox.Size())
	assert.InDelta(t, 2*(10*5+10*2+5*2), m.SurfaceArea(), 1e-9)
}

func TestCloneDoesNotShareMesh(t *testing.T) {
	root := New()
	child := NewWithMesh(CreateCube(1, 1, 1))
	child.Name = "cube"
	root.Add(child)

	c := root.Clone()
	require.Len(t, c.Children, 1)
	assert.Equal(t, child.ID, c.Children[0].ID)
	assert.Equal(t, "cube", c.Children[0].Name)

	c.Children[0].Mesh.Vertices[0] = vec3.T{42, 42, 42}
	assert.NotEqual(t, vec3.T{42, 42, 42}, child.Mesh.Vertices[0])
}

func TestMeshNodesOrder(t *testing.T) {
	root := New()
	a := NewWithMesh(CreateCube(1, 1, 1))
	group := New()
	b := NewWithMesh(CreateCube(2, 2, 2))
	c := NewWithMesh(CreateCube(3, 3, 3))
	group.Add(b, c)
	root.Add(a, group)

	assert.Equal(t, []*Object3D{a, b, c}, root.MeshNodes())

	bbox := root.Bounds()
	assert.Equal(t, vec3.T{-1.5, -1.5, -1.5}, bbox.Min)
	assert.Equal(t, vec3.T{1.5, 1.5, 1.5}, bbox.Max)
}

func TestWalkPrune(t *testing.T) {
	root := New()
	group := New()
	group.Add(NewWithMesh(CreateCube(1, 1, 1)))
	root.Add(group, New())

	visited := 0
	root.Walk(func(o *Object3D) bool {
		visited++
		return o != group
	})
	assert.Equal(t, 3, visited)
}

func TestCompact(t *testing.T) {
	m := CreateCube(2, 2, 2)
	sub, err := m.Compact([]Face{{4, 6, 7}, {4, 7, 5}})
	require.NoError(t, err)
	assert.Len(t, sub.Vertices, 4)
	assert.Equal(t, []Face{{0, 1, 2}, {0, 2, 3}}, sub.Faces)
	assert.Equal(t, m.Vertices[4], sub.Vertices[0])
	assert.Equal(t, m.Vertices[5], sub.Vertices[3])

	_, err = m.Compact([]Face{{0, 1, 9}})
	assert.ErrorIs(t, err, ErrFaceIndex)
}

func TestEmptyBounds(t *testing.T) {
	var bbox BoundingBox
	assert.True(t, bbox.Empty())
	assert.Equal(t, vec3.T{}, bbox.Size())
	assert.True(t, New().Bounds().Empty())
}
