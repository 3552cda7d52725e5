package scene

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// BoundingBox is an axis aligned box. The zero value is empty and ready to use.
type BoundingBox struct {
	Min, Max    vec3.T
	initialized bool
}

// Add grows the box to contain p
func (b *BoundingBox) Add(p *vec3.T) *BoundingBox {
	if !b.initialized {
		b.Min = *p
		b.Max = *p
		b.initialized = true
		return b
	}
	for i, val := range p {
		if val > b.Max[i] {
			b.Max[i] = val
		}
		if val < b.Min[i] {
			b.Min[i] = val
		}
	}
	return b
}

// Union grows the box to contain o
func (b *BoundingBox) Union(o BoundingBox) *BoundingBox {
	if !o.initialized {
		return b
	}
	b.Add(&o.Min)
	return b.Add(&o.Max)
}

func (b BoundingBox) Empty() bool {
	return !b.initialized
}

// Size is the extent along each axis
func (b BoundingBox) Size() vec3.T {
	if !b.initialized {
		return vec3.T{}
	}
	return vec3.Sub(&b.Max, &b.Min)
}

func (b BoundingBox) String() string {
	if !b.initialized {
		return "BoundingBox: (empty)"
	}
	return fmt.Sprintf("BoundingBox: (min: %v, max: %v)", b.Min, b.Max)
}

// Bounds of every mesh in the subtree
func (o *Object3D) Bounds() (bbox BoundingBox) {
	for _, n := range o.MeshNodes() {
		bbox.Union(n.Mesh.Bounds())
	}
	return
}
