package amf

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"
)

var zipMagic = []byte("PK\x03\x04")

// DefaultEntryName is the archive entry written by compressed saves
const DefaultEntryName = "model.amf"

// size limits of compressed input
var (
	maxArchiveSize int64 = 256 << 20
	maxEntrySize   int64 = 1 << 30
)

// ctxReader stops reading once ctx is done
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// openInput returns the xml stream of r, unpacking it when r is a zip archive
func openInput(ctx context.Context, r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(&ctxReader{ctx: ctx, r: r})
	magic, err := br.Peek(len(zipMagic))
	if err == nil && bytes.Equal(magic, zipMagic) {
		return openArchive(br)
	}
	return io.NopCloser(br), nil
}

func openArchive(r io.Reader) (io.ReadCloser, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxArchiveSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxArchiveSize {
		return nil, &SyntaxError{Err: fmt.Errorf("archive: larger than %d bytes", maxArchiveSize)}
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &SyntaxError{Err: fmt.Errorf("archive: %w", err)}
	}
	entry := pickEntry(zr.File)
	if entry == nil {
		return nil, &SyntaxError{Err: errors.New("archive: no document entry")}
	}
	if entry.UncompressedSize64 > uint64(maxEntrySize) {
		return nil, &SyntaxError{Err: fmt.Errorf("archive: entry %s has %d bytes, limit is %d",
			entry.Name, entry.UncompressedSize64, maxEntrySize)}
	}
	log.Debugf("amf: reading archive entry %s (%d bytes)", entry.Name, entry.UncompressedSize64)
	rc, err := entry.Open()
	if err != nil {
		return nil, &SyntaxError{Err: fmt.Errorf("archive: %w", err)}
	}
	return &entryReader{
		rc:   rc,
		name: entry.Name,
		left: int64(entry.UncompressedSize64),
	}, nil
}

// entryReader stops an entry that inflates past its declared size.
// The archive is in memory, so every read error is a broken archive.
type entryReader struct {
	rc   io.ReadCloser
	name string
	left int64
}

func (e *entryReader) Read(p []byte) (int, error) {
	if int64(len(p)) > e.left+1 {
		p = p[:e.left+1]
	}
	n, err := e.rc.Read(p)
	e.left -= int64(n)
	if e.left < 0 {
		return 0, &SyntaxError{Err: fmt.Errorf("archive: entry %s exceeds its declared size", e.name)}
	}
	if err != nil && err != io.EOF {
		return n, &SyntaxError{Err: fmt.Errorf("archive: entry %s: %w", e.name, err)}
	}
	return n, err
}

func (e *entryReader) Close() error {
	return e.rc.Close()
}

// pickEntry prefers the first .amf entry, then the first file
func pickEntry(files []*zip.File) *zip.File {
	var first *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(path.Ext(f.Name), ".amf") {
			return f
		}
		if first == nil {
			first = f
		}
	}
	return first
}
