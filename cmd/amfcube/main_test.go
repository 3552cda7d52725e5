package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ddvk/scenedoc/amf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestWriteSample(t *testing.T) {
	for _, compress := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "sample.amf")
		require.NoError(t, writeSample(path, 10, 5, 2, compress))

		file, err := os.Open(path)
		require.NoError(t, err)
		root, err := amf.Load(context.Background(), file)
		file.Close()
		require.NoError(t, err)

		require.Len(t, root.Children, 1)
		cube := root.Children[0]
		assert.Equal(t, "cube 10x5x2", cube.Name)
		require.NotNil(t, cube.Mesh)
		assert.Len(t, cube.Mesh.Vertices, 8)
		assert.Len(t, cube.Mesh.Faces, 12)
		assert.Equal(t, vec3.T{10, 5, 2}, root.Bounds().Size())
	}
}
