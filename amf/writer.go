package amf

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ddvk/scenedoc/scene"
	log "github.com/sirupsen/logrus"
)

// Options control how a document is written
type Options struct {
	// Unit of the written coordinates, millimeter when empty
	Unit Unit
	// Compress writes a zip archive holding a single document entry
	Compress bool
	// EntryName of the archive entry, DefaultEntryName when empty
	EntryName string
}

// Encoder writes a scene as a document.
// Every child of the root becomes one object. A child without a mesh
// whose descendants own meshes is written as one object holding a
// volume per part, the shape Decode gives multi-volume objects.
type Encoder struct {
	w    io.Writer
	opts Options
	IDs  IDMap
}

func NewEncoder(w io.Writer, opts Options) *Encoder {
	if opts.Unit == "" {
		opts.Unit = Millimeter
	}
	if opts.EntryName == "" {
		opts.EntryName = DefaultEntryName
	}
	return &Encoder{
		w:    w,
		opts: opts,
		IDs:  NewIDMap(),
	}
}

// Encode writes root to w
func Encode(w io.Writer, root *scene.Object3D, opts Options) error {
	return NewEncoder(w, opts).Encode(root)
}

// object is one <object> of the written document
type object struct {
	node  *scene.Object3D
	parts []*scene.Object3D
}

func objects(root *scene.Object3D) ([]object, error) {
	var objs []object
	if root.Mesh != nil {
		// geometry on the root has no object of its own
		objs = append(objs, object{node: &scene.Object3D{ID: root.ID}, parts: []*scene.Object3D{root}})
	}
	for _, c := range root.Children {
		objs = append(objs, object{node: c, parts: c.MeshNodes()})
	}
	for _, o := range objs {
		for _, p := range o.parts {
			if err := p.Mesh.Validate(); err != nil {
				return nil, fmt.Errorf("%w: object %s: %v", ErrIndexOutOfRange, p.ID, err)
			}
		}
	}
	return objs, nil
}

// Encode writes root. Object ids are numbered from 0 on every call.
func (e *Encoder) Encode(root *scene.Object3D) error {
	e.IDs = NewIDMap()
	if _, err := ParseUnit(string(e.opts.Unit)); err != nil {
		return err
	}
	objs, err := objects(root)
	if err != nil {
		return err
	}
	if !e.opts.Compress {
		return e.encodeXML(e.w, root.Name, objs)
	}

	zw := zip.NewWriter(e.w)
	entry, err := zw.Create(e.opts.EntryName)
	if err != nil {
		return err
	}
	if err = e.encodeXML(entry, root.Name, objs); err != nil {
		return err
	}
	return zw.Close()
}

type tokenWriter struct {
	enc *xml.Encoder
	err error
}

func (t *tokenWriter) start(name string, attrs ...xml.Attr) {
	if t.err != nil {
		return
	}
	t.err = t.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (t *tokenWriter) end(name string) {
	if t.err != nil {
		return
	}
	t.err = t.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (t *tokenWriter) text(name, value string, attrs ...xml.Attr) {
	t.start(name, attrs...)
	if t.err == nil {
		t.err = t.enc.EncodeToken(xml.CharData(value))
	}
	t.end(name)
}

func stringAttr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (e *Encoder) encodeXML(w io.Writer, name string, objs []object) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	t := &tokenWriter{enc: enc}

	header := Header{Unit: e.opts.Unit, Version: Version}
	scale := 1 / header.Unit.Millimeters()

	t.start("amf", header.attrs()...)
	if name != "" {
		t.text("metadata", name, stringAttr("type", "name"))
	}
	for _, o := range objs {
		e.encodeObject(t, o, scale)
	}
	t.end("amf")
	if t.err != nil {
		return t.err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	log.Debugf("amf: wrote %d objects", len(objs))
	return err
}

// encodeObject writes the vertices of all parts into one list,
// the faces of each part are shifted by the vertices written before it.
func (e *Encoder) encodeObject(t *tokenWriter, o object, scale float64) {
	id := e.IDs.Next(o.node.ID)
	t.start("object", stringAttr("id", id))
	if o.node.Name != "" {
		t.text("metadata", o.node.Name, stringAttr("type", "name"))
	}
	if len(o.parts) == 0 {
		t.end("object")
		return
	}
	t.start("mesh")

	t.start("vertices")
	for _, p := range o.parts {
		for _, v := range p.Mesh.Vertices {
			t.start("vertex")
			t.start("coordinates")
			t.text("x", formatFloat(v[0]*scale))
			t.text("y", formatFloat(v[1]*scale))
			t.text("z", formatFloat(v[2]*scale))
			t.end("coordinates")
			t.end("vertex")
		}
	}
	t.end("vertices")

	offset := 0
	for _, p := range o.parts {
		var attrs []xml.Attr
		if p.MaterialIndex >= 0 {
			attrs = append(attrs, stringAttr("materialid", strconv.Itoa(p.MaterialIndex)))
		}
		t.start("volume", attrs...)
		if len(o.parts) > 1 && p.Name != "" {
			t.text("metadata", p.Name, stringAttr("type", "name"))
		}
		for _, f := range p.Mesh.Faces {
			t.start("triangle")
			t.text("v1", strconv.Itoa(f[0]+offset))
			t.text("v2", strconv.Itoa(f[1]+offset))
			t.text("v3", strconv.Itoa(f[2]+offset))
			t.end("triangle")
		}
		t.end("volume")
		offset += len(p.Mesh.Vertices)
	}

	t.end("mesh")
	t.end("object")
}

// Save writes root as a plain document to path
func Save(root *scene.Object3D, path string) error {
	return SaveWithOptions(root, path, Options{})
}

// SaveCompressed writes root as a zip archive to path
func SaveCompressed(root *scene.Object3D, path string) error {
	return SaveWithOptions(root, path, Options{
		Compress:  true,
		EntryName: entryName(path),
	})
}

// SaveWithOptions writes to a temporary file next to path and renames it
// into place, an existing file is only replaced by a complete document.
func SaveWithOptions(root *scene.Object3D, path string, opts Options) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = Encode(tmp, root, opts); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	log.Infof("amf: saved %s", path)
	return nil
}

func entryName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return DefaultEntryName
	}
	return name + ".amf"
}
