package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	kaleio "github.com/matzehuels/kale/pkg/io"
)

// FileStore keeps each function in <dir>/<name>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store. If baseDir is empty it defaults to
// ~/.local/share/kale/functions.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "kale", "functions")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the workspace directory.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) functionPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, failed(err, "list", s.baseDir)
	}
	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Summary{
			Name:      strings.TrimSuffix(entry.Name(), ".json"),
			UpdatedAt: info.ModTime().UTC(),
		})
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *FileStore) Get(_ context.Context, name string) (*Function, error) {
	if err := errors.ValidateFunctionName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.functionPath(name)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, failed(err, "stat", name)
	}
	tree, err := kaleio.ImportJSON(path)
	if err != nil {
		return nil, err
	}
	return &Function{Name: name, Tree: tree, UpdatedAt: info.ModTime().UTC()}, nil
}

func (s *FileStore) Put(_ context.Context, name string, tree expr.Expr) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	if tree == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil tree for %q", name)
	}
	var buf bytes.Buffer
	if err := kaleio.WriteJSON(tree, &buf); err != nil {
		return failed(err, "encode", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.functionPath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return failed(err, "write", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		return failed(err, "write", name)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.functionPath(name))
	if os.IsNotExist(err) {
		return notFound(name)
	}
	if err != nil {
		return failed(err, "remove", name)
	}
	return nil
}

func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
