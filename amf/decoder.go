package amf

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

// elementDecoder walks the element tree of a document, token by token
type elementDecoder struct {
	x        *xml.Decoder
	ctx      context.Context
	path     []string
	elements int
}

func newElementDecoder(ctx context.Context, r io.Reader) *elementDecoder {
	x := xml.NewDecoder(r)
	x.Strict = true
	x.CharsetReader = charset.NewReaderLabel
	return &elementDecoder{
		x:   x,
		ctx: ctx,
	}
}

// Pos current offset in the (decompressed) input
func (d *elementDecoder) Pos() int64 {
	return d.x.InputOffset()
}

// Elements number of elements started so far
func (d *elementDecoder) Elements() int {
	return d.elements
}

func (d *elementDecoder) checkCanceled() error {
	if err := d.ctx.Err(); err != nil {
		log.Debugf("amf: canceled after %d elements", d.elements)
		return &canceledError{err: err}
	}
	return nil
}

func (d *elementDecoder) syntaxError(err error) error {
	path := make([]string, len(d.path))
	copy(path, d.path)
	return &SyntaxError{
		Path:   path,
		Offset: d.Pos(),
		Err:    err,
	}
}

func (d *elementDecoder) syntaxErrorf(format string, args ...interface{}) error {
	return d.syntaxError(fmt.Errorf(format, args...))
}

// wrap turns decoder failures into document errors.
// Read errors of the underlying stream are passed through.
func (d *elementDecoder) wrap(err error) error {
	if errors.Is(err, ErrCanceled) || errors.Is(err, ErrMalformed) {
		return err
	}
	if err == io.EOF {
		return d.syntaxError(io.ErrUnexpectedEOF)
	}
	var se *xml.SyntaxError
	if errors.As(err, &se) || errors.Is(err, io.ErrUnexpectedEOF) {
		return d.syntaxError(err)
	}
	if d.ctx.Err() != nil {
		return &canceledError{err: d.ctx.Err()}
	}
	return err
}

// token returns the next start or end element.
// Whitespace, comments and processing instructions are dropped,
// any other text is an error. Every start element is a cancellation point.
func (d *elementDecoder) token() (xml.Token, error) {
	for {
		t, err := d.x.Token()
		if err != nil {
			return nil, err
		}
		switch tok := t.(type) {
		case xml.StartElement:
			if err := d.checkCanceled(); err != nil {
				return nil, err
			}
			d.elements++
			return tok, nil
		case xml.EndElement:
			return tok, nil
		case xml.CharData:
			if len(bytes.TrimSpace(tok)) != 0 {
				return nil, d.syntaxErrorf("unexpected text %q", shorten(string(tok)))
			}
		}
	}
}

// root returns the document element
func (d *elementDecoder) root() (xml.StartElement, error) {
	t, err := d.token()
	if err == io.EOF {
		return xml.StartElement{}, d.syntaxErrorf("missing root element")
	}
	if err != nil {
		return xml.StartElement{}, d.wrap(err)
	}
	start, ok := t.(xml.StartElement)
	if !ok {
		return xml.StartElement{}, d.syntaxErrorf("unexpected end element")
	}
	return start, nil
}

// end checks that nothing but whitespace follows the document element
func (d *elementDecoder) end() error {
	t, err := d.token()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return d.wrap(err)
	}
	if se, ok := t.(xml.StartElement); ok {
		return d.syntaxErrorf("unexpected element <%s> after document", se.Name.Local)
	}
	return d.syntaxErrorf("unexpected end element after document")
}

// children calls fn for every child element of start.
// fn has to consume the child including its end element.
func (d *elementDecoder) children(start xml.StartElement, fn func(xml.StartElement) error) error {
	d.path = append(d.path, start.Name.Local)
	defer func() {
		d.path = d.path[:len(d.path)-1]
	}()
	for {
		t, err := d.token()
		if err != nil {
			return d.wrap(err)
		}
		switch tok := t.(type) {
		case xml.StartElement:
			if err := fn(tok); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// skip consumes an element the model has no use for, text included
func (d *elementDecoder) skip(start xml.StartElement) error {
	log.Tracef("amf: skipping <%s>", start.Name.Local)
	d.path = append(d.path, start.Name.Local)
	defer func() {
		d.path = d.path[:len(d.path)-1]
	}()
	for depth := 1; depth > 0; {
		t, err := d.x.Token()
		if err != nil {
			return d.wrap(err)
		}
		switch t.(type) {
		case xml.StartElement:
			if err := d.checkCanceled(); err != nil {
				return err
			}
			d.elements++
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func (d *elementDecoder) unexpected(start xml.StartElement) error {
	return d.syntaxErrorf("unexpected element <%s>", start.Name.Local)
}

// GetText reads the character data of an element without children
func (d *elementDecoder) GetText(start xml.StartElement) (string, error) {
	d.path = append(d.path, start.Name.Local)
	defer func() {
		d.path = d.path[:len(d.path)-1]
	}()
	var sb strings.Builder
	for {
		t, err := d.x.Token()
		if err != nil {
			return "", d.wrap(err)
		}
		switch tok := t.(type) {
		case xml.CharData:
			sb.Write(tok)
		case xml.StartElement:
			return "", d.syntaxErrorf("unexpected element <%s> in text", tok.Name.Local)
		case xml.EndElement:
			return strings.TrimSpace(sb.String()), nil
		}
	}
}

func (d *elementDecoder) GetFloat64(start xml.StartElement) (float64, error) {
	s, err := d.GetText(start)
	if err != nil {
		return 0, err
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, d.syntaxErrorf("<%s>: invalid number %q", start.Name.Local, shorten(s))
	}
	return val, nil
}

func (d *elementDecoder) GetInt(start xml.StartElement) (int, error) {
	s, err := d.GetText(start)
	if err != nil {
		return 0, err
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, d.syntaxErrorf("<%s>: invalid index %q", start.Name.Local, shorten(s))
	}
	return val, nil
}

func attr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func shorten(s string) string {
	const limit = 32
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
