package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewFileSink(dir)
	require.NoError(t, err)

	path, err := s.Write(context.Background(), "in/luat_dat_dai.docx", []byte("Luật. Điều 1.\n\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "luat_dat_dai.docx.txt"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Luật. Điều 1.\n\n", string(got))
	assert.True(t, Exists(path))

	// Overwrite replaces content and leaves no temp files behind.
	_, err = s.Write(context.Background(), "other/luat_dat_dai.docx", []byte("mới"))
	require.NoError(t, err)
	got, _ = os.ReadFile(path)
	assert.Equal(t, "mới", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSink_PathFor(t *testing.T) {
	s := &FileSink{Dir: "out"}
	assert.Equal(t, filepath.Join("out", "luat.txt"), s.PathFor("in/luat.txt"))
	assert.Equal(t, filepath.Join("out", "luat.md.txt"), s.PathFor("luat.md"))
	assert.Equal(t, filepath.Join("out", "luat.docx.txt"), s.PathFor("luat.docx"))
}

func TestFileSink_NameClash(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir)
	require.NoError(t, err)

	_, err = s.Write(context.Background(), "luat.md", []byte("A"))
	require.NoError(t, err)
	_, err = s.Write(context.Background(), "luat.md.txt", []byte("B"))
	assert.ErrorIs(t, err, ErrNameClash)

	got, err := os.ReadFile(filepath.Join(dir, "luat.md.txt"))
	require.NoError(t, err)
	assert.Equal(t, "A", string(got))
}

func TestFileSink_CanceledContext(t *testing.T) {
	s, err := NewFileSink(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Write(ctx, "a.txt", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExists(t *testing.T) {
	assert.False(t, Exists(""))
	assert.False(t, Exists(filepath.Join(t.TempDir(), "missing.txt")))
}
