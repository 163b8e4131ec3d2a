// Package sink persists rendered documents.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNameClash is returned when two different sources map to the same
// output file.
var ErrNameClash = errors.New("output name already used by another document")

// Sink stores the rendered output of one document under a name and returns
// where it ended up.
type Sink interface {
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink writes one .txt file per document into Dir. Each output path
// belongs to the first source written to it for the life of the sink.
type FileSink struct {
	Dir string

	mu     sync.Mutex
	owners map[string]string // output path -> source base name
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &FileSink{Dir: dir}, nil
}

// PathFor returns the output path for a source filename. A .txt source
// keeps its name; any other source keeps its extension and gains ".txt", so
// "luat.txt" and "luat.md" land in different files.
func (s *FileSink) PathFor(name string) string {
	base := filepath.Base(name)
	if strings.EqualFold(filepath.Ext(base), ".txt") {
		return filepath.Join(s.Dir, base)
	}
	return filepath.Join(s.Dir, base+".txt")
}

// claim records source as the owner of path. It fails if a different source
// already owns it.
func (s *FileSink) claim(path, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owners == nil {
		s.owners = make(map[string]string)
	}
	if owner, ok := s.owners[path]; ok && owner != source {
		return fmt.Errorf("%s: %w (%s)", filepath.Base(path), ErrNameClash, owner)
	}
	s.owners[path] = source
	return nil
}

// Write stores data atomically: it is written to a temporary file in the
// same directory and renamed into place.
func (s *FileSink) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := s.PathFor(name)
	if err := s.claim(path, filepath.Base(name)); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.Dir, ".legalchunk-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename into %s: %w", path, err)
	}
	return path, nil
}

// Exists reports whether an output file is present at path.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
