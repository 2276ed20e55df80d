package dumpfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dumpLines(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString("1 ")
		sb.WriteString(strings.ToUpper(faker.Word()))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestRoundTrip(t *testing.T) {
	content := dumpLines(500)
	for _, compress := range []bool{false, true} {
		path := filepath.Join(t.TempDir(), "dump")
		w, err := Create(path, compress)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, compress, bytes.HasPrefix(raw, snappyMagic))
		if !compress {
			assert.Equal(t, content, string(raw))
		}

		r, err := Open(path)
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, content, string(got), "compress %v", compress)
	}
}

func TestEmptyDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump")
	w, err := Create(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
