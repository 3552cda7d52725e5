package amf

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ddvk/scenedoc/scene"
	log "github.com/sirupsen/logrus"
)

type extractor struct {
	d     *elementDecoder
	ids   *IDMap
	scale float64
}

type volume struct {
	name     string
	material int
	faces    []scene.Face
}

func (e *extractor) extractObject(start xml.StartElement) (*scene.Object3D, error) {
	obj := scene.New()
	if id, ok := attr(start, "id"); ok {
		if e.ids.Has(id) {
			return nil, e.d.syntaxErrorf("duplicate object id %q", id)
		}
		e.ids.Add(obj.ID, id)
	}

	hasMesh := false
	err := e.d.children(start, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "metadata":
			return e.extractMetadata(se, &obj.Name)
		case "mesh":
			if hasMesh {
				return e.d.syntaxErrorf("more than one <mesh>")
			}
			hasMesh = true
			return e.extractMesh(se, obj)
		case "color":
			return e.d.skip(se)
		}
		return e.d.unexpected(se)
	})
	if err != nil {
		return nil, err
	}
	if !hasMesh {
		log.Debugf("amf: object %s has no mesh", obj.ID)
	}
	return obj, nil
}

// extractMetadata sets name from <metadata type="name">, other metadata is dropped
func (e *extractor) extractMetadata(start xml.StartElement, name *string) error {
	text, err := e.d.GetText(start)
	if err != nil {
		return err
	}
	if kind, _ := attr(start, "type"); kind == "name" {
		*name = text
	}
	return nil
}

func (e *extractor) extractMesh(start xml.StartElement, obj *scene.Object3D) error {
	mesh := scene.NewMesh()
	hasVertices := false
	var volumes []volume

	err := e.d.children(start, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "vertices":
			if hasVertices {
				return e.d.syntaxErrorf("more than one <vertices>")
			}
			hasVertices = true
			return e.extractVertices(se, mesh)
		case "volume":
			if !hasVertices {
				return e.d.syntaxErrorf("<volume> before <vertices>")
			}
			v, err := e.extractVolume(se, len(mesh.Vertices))
			if err != nil {
				return err
			}
			volumes = append(volumes, v)
			return nil
		}
		return e.d.unexpected(se)
	})
	if err != nil {
		return err
	}
	if !hasVertices {
		return e.d.syntaxErrorf("<mesh> without <vertices>")
	}

	switch len(volumes) {
	case 0:
		obj.Mesh = mesh
	case 1:
		mesh.Faces = volumes[0].faces
		obj.Mesh = mesh
		obj.MaterialIndex = volumes[0].material
	default:
		// every volume becomes its own part
		for _, v := range volumes {
			part, err := mesh.Compact(v.faces)
			if err != nil {
				return e.d.syntaxError(err)
			}
			child := scene.NewWithMesh(part)
			child.Name = v.name
			child.MaterialIndex = v.material
			obj.Add(child)
		}
	}
	log.Tracef("amf: mesh vertices:%d volumes:%d", len(mesh.Vertices), len(volumes))
	return nil
}

func (e *extractor) extractVertices(start xml.StartElement, mesh *scene.Mesh) error {
	return e.d.children(start, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "vertex":
			return e.extractVertex(se, mesh)
		case "edges", "edge":
			return e.d.skip(se)
		}
		return e.d.unexpected(se)
	})
}

func (e *extractor) extractVertex(start xml.StartElement, mesh *scene.Mesh) error {
	hasCoordinates := false
	err := e.d.children(start, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "coordinates":
			if hasCoordinates {
				return e.d.syntaxErrorf("more than one <coordinates>")
			}
			hasCoordinates = true
			x, y, z, err := e.extractCoordinates(se)
			if err != nil {
				return err
			}
			mesh.AddVertex(x*e.scale, y*e.scale, z*e.scale)
			return nil
		case "normal", "color", "metadata":
			return e.d.skip(se)
		}
		return e.d.unexpected(se)
	})
	if err != nil {
		return err
	}
	if !hasCoordinates {
		return e.d.syntaxErrorf("<vertex> without <coordinates>")
	}
	return nil
}

func (e *extractor) extractCoordinates(start xml.StartElement) (x, y, z float64, err error) {
	var seen [3]bool
	err = e.d.children(start, func(se xml.StartElement) error {
		var dst *float64
		var i int
		switch se.Name.Local {
		case "x":
			dst, i = &x, 0
		case "y":
			dst, i = &y, 1
		case "z":
			dst, i = &z, 2
		default:
			return e.d.unexpected(se)
		}
		if seen[i] {
			return e.d.syntaxErrorf("more than one <%s>", se.Name.Local)
		}
		seen[i] = true
		val, err := e.d.GetFloat64(se)
		if err != nil {
			return err
		}
		*dst = val
		return nil
	})
	if err != nil {
		return
	}
	for i, ok := range seen {
		if !ok {
			err = e.d.syntaxErrorf("<coordinates> without <%c>", "xyz"[i])
			return
		}
	}
	return
}

func (e *extractor) extractVolume(start xml.StartElement, vertexCount int) (v volume, err error) {
	v.material = scene.NoMaterial
	if id, ok := attr(start, "materialid"); ok {
		v.material, err = strconv.Atoi(id)
		if err != nil || v.material < 0 {
			err = e.d.syntaxErrorf("invalid materialid %q", shorten(id))
			return
		}
	}
	v.faces = make([]scene.Face, 0)

	err = e.d.children(start, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "triangle":
			f, err := e.extractTriangle(se, vertexCount)
			if err != nil {
				return err
			}
			v.faces = append(v.faces, f)
			return nil
		case "metadata":
			return e.extractMetadata(se, &v.name)
		case "color":
			return e.d.skip(se)
		}
		return e.d.unexpected(se)
	})
	return
}

// extractTriangle rejects indices outside [0, vertexCount)
func (e *extractor) extractTriangle(start xml.StartElement, vertexCount int) (f scene.Face, err error) {
	var seen [3]bool
	err = e.d.children(start, func(se xml.StartElement) error {
		var i int
		switch se.Name.Local {
		case "v1":
			i = 0
		case "v2":
			i = 1
		case "v3":
			i = 2
		case "texmap", "color":
			return e.d.skip(se)
		default:
			return e.d.unexpected(se)
		}
		if seen[i] {
			return e.d.syntaxErrorf("more than one <%s>", se.Name.Local)
		}
		seen[i] = true
		idx, err := e.d.GetInt(se)
		if err != nil {
			return err
		}
		if idx < 0 || idx >= vertexCount {
			return e.d.syntaxError(fmt.Errorf("%w: <%s> %d, vertices: %d", ErrIndexOutOfRange, se.Name.Local, idx, vertexCount))
		}
		f[i] = idx
		return nil
	})
	if err != nil {
		return
	}
	for i, ok := range seen {
		if !ok {
			err = e.d.syntaxErrorf("<triangle> without <v%d>", i+1)
			return
		}
	}
	return
}
