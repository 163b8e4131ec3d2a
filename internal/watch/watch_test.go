package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligible(t *testing.T) {
	cases := map[string]bool{
		"luat.txt":        true,
		"nghi_dinh.docx":  true,
		"README.md":       true,
		"failed_urls.txt": false,
		".luat.txt.swp":   false,
		"~$luat.docx":     false,
		"scan.pdf":        false,
		"":                false,
	}
	for name, want := range cases {
		assert.Equal(t, want, Eligible(name), name)
	}
}

type collector struct {
	mu    sync.Mutex
	paths []string
	hit   chan struct{}
}

func newCollector() *collector {
	return &collector{hit: make(chan struct{}, 16)}
}

func (c *collector) handle(path string) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
	c.hit <- struct{}{}
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func startWatcher(t *testing.T, dir string, c *collector) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := New(dir, 50*time.Millisecond, c.handle, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	c := newCollector()
	startWatcher(t, dir, c)

	path := filepath.Join(dir, "luat.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("Điều 1. Nội dung.\n")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	select {
	case <-c.hit:
	case <-time.After(3 * time.Second):
		t.Fatal("expected handler to be called")
	}
	// No second call for the same burst.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{path}, c.snapshot())
}

func TestWatcherIgnoresIneligibleFiles(t *testing.T) {
	dir := t.TempDir()
	c := newCollector()
	startWatcher(t, dir, c)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "failed_urls.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quyet_dinh.md"), []byte("# QUYẾT ĐỊNH"), 0o644))

	select {
	case <-c.hit:
	case <-time.After(3 * time.Second):
		t.Fatal("expected handler to be called")
	}
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{filepath.Join(dir, "quyet_dinh.md")}, c.snapshot())
}

func TestWatcherMissingDir(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := New(filepath.Join(t.TempDir(), "missing"), 0, func(string) {}, log)
	assert.Error(t, w.Run(context.Background()))
}
