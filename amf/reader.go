// Package amf reads and writes Additive Manufacturing File Format documents.
//
// A document becomes a scene.Object3D root with one child per <object>.
// Vertices are converted to millimeters while loading.
package amf

import (
	"context"
	"encoding/xml"
	"io"

	"github.com/ddvk/scenedoc/scene"
	log "github.com/sirupsen/logrus"
)

// Decoder reads a document from a stream.
// Header and IDs are set by a successful Decode only.
type Decoder struct {
	r      io.Reader
	Header Header
	IDs    IDMap
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:   r,
		IDs: NewIDMap(),
	}
}

// Load decodes the document in r
func Load(ctx context.Context, r io.Reader) (*scene.Object3D, error) {
	return NewDecoder(r).Decode(ctx)
}

// Decode parses the whole document. ctx is checked before every element;
// on cancellation the error matches ErrCanceled and ctx.Err().
// A failed decode never returns a tree.
func (dec *Decoder) Decode(ctx context.Context) (root *scene.Object3D, err error) {
	input, err := openInput(ctx, dec.r)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &canceledError{err: ctx.Err()}
		}
		return nil, err
	}
	defer input.Close()

	d := newElementDecoder(ctx, input)
	start, err := d.root()
	if err != nil {
		return nil, err
	}
	if start.Name.Local != "amf" {
		return nil, d.syntaxErrorf("root element is <%s>, expected <amf>", start.Name.Local)
	}
	header, err := readHeader(start)
	if err != nil {
		return nil, d.syntaxError(err)
	}
	log.Debugf("amf: %v", header)

	ids := NewIDMap()
	e := &extractor{
		d:     d,
		ids:   &ids,
		scale: header.Unit.Millimeters(),
	}
	result := scene.New()
	err = d.children(start, func(se xml.StartElement) error {
		switch se.Name.Local {
		case "object":
			obj, err := e.extractObject(se)
			if err != nil {
				return err
			}
			result.Add(obj)
			return nil
		case "metadata":
			return e.extractMetadata(se, &result.Name)
		case "material", "constellation", "texture":
			return d.skip(se)
		}
		return d.unexpected(se)
	})
	if err != nil {
		return nil, err
	}
	if err = d.end(); err != nil {
		return nil, err
	}
	dec.Header = header
	dec.IDs = ids

	log.Debugf("amf: loaded %d objects, %d elements, %d bytes", len(result.Children), d.Elements(), d.Pos())
	return result, nil
}
