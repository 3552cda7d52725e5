package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// NoMaterial marks a node that doesn't reference a material
const NoMaterial = -1

// Object3D is a node in the scene graph
type Object3D struct {
	ID            uuid.UUID
	Name          string
	MaterialIndex int
	Mesh          *Mesh
	Children      []*Object3D
}

// New returns an empty node with a fresh id
func New() *Object3D {
	return &Object3D{
		ID:            uuid.New(),
		MaterialIndex: NoMaterial,
		Children:      make([]*Object3D, 0),
	}
}

// NewWithMesh returns a node owning m
func NewWithMesh(m *Mesh) *Object3D {
	o := New()
	o.Mesh = m
	return o
}

func (o *Object3D) String() string {
	var name string
	if o.Name != "" {
		name = o.Name
	} else {
		name = o.ID.String()
	}
	if o.Mesh == nil {
		return fmt.Sprintf("Object3D: %s, children:%d", name, len(o.Children))
	}
	return fmt.Sprintf("Object3D: %s, children:%d, %v", name, len(o.Children), o.Mesh)
}

func (o *Object3D) Add(children ...*Object3D) {
	o.Children = append(o.Children, children...)
}

// Walk visits o and its descendants depth first.
// Returning false from fn skips the children of that node.
func (o *Object3D) Walk(fn func(*Object3D) bool) {
	if !fn(o) {
		return
	}
	for _, c := range o.Children {
		c.Walk(fn)
	}
}

// MeshNodes returns every node that owns a mesh, depth first
func (o *Object3D) MeshNodes() (nodes []*Object3D) {
	o.Walk(func(n *Object3D) bool {
		if n.Mesh != nil {
			nodes = append(nodes, n)
		}
		return true
	})
	return
}

// Clone deep copies the subtree. Ids are kept.
func (o *Object3D) Clone() *Object3D {
	c := &Object3D{
		ID:            o.ID,
		Name:          o.Name,
		MaterialIndex: o.MaterialIndex,
		Children:      make([]*Object3D, 0, len(o.Children)),
	}
	if o.Mesh != nil {
		c.Mesh = o.Mesh.Clone()
	}
	for _, child := range o.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}
