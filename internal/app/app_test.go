package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/legalchunk/internal/config"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	return config.Config{
		InputDir:       filepath.Join(root, "input"),
		OutputDir:      filepath.Join(root, "output"),
		MaxTokens:      15000,
		TokenEncoding:  "cl100k_base",
		FootnotePolicy: "second-occurrence",
		WorkerCount:    2,
		MaxQueueSize:   4,
		JobTTL:         time.Hour,
		ManifestPath:   filepath.Join(root, "output", "manifest.db"),
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig(t)
	cfg.FootnotePolicy = "third-time-lucky"
	_, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestNewMissingCatalog(t *testing.T) {
	cfg := baseConfig(t)
	cfg.PublishURL = "http://127.0.0.1:1/import"
	cfg.PublishRate = 1
	cfg.PublishCatalog = filepath.Join(t.TempDir(), "missing.csv")
	_, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestAppRunsDirectoryAndPublishes(t *testing.T) {
	var imports atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Luật", r.FormValue("document_type"))
		imports.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := baseConfig(t)
	cfg.PublishURL = srv.URL
	cfg.PublishRate = 100
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "luat.txt"),
		[]byte("LUẬT BẢO VỆ MÔI TRƯỜNG\n\nĐiều 1. Phạm vi\nNội dung.\n"), 0o644))

	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()
	assert.NotEmpty(t, a.Encoding)

	a.Orchestrator.Start(context.Background())
	sum, err := a.Orchestrator.RunDir(context.Background(), cfg.InputDir)
	a.Orchestrator.Stop()
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Succeeded)
	assert.EqualValues(t, 1, imports.Load())
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "luat.txt"))
	assert.FileExists(t, cfg.ManifestPath)
}
