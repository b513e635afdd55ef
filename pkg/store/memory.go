package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
)

// MemoryStore keeps functions in process memory. Trees are immutable, so
// stored values are shared rather than copied.
type MemoryStore struct {
	mu    sync.RWMutex
	funcs map[string]Function
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{funcs: make(map[string]Function), now: time.Now}
}

func (s *MemoryStore) List(context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.funcs))
	for _, f := range s.funcs {
		out = append(out, Summary{Name: f.Name, UpdatedAt: f.UpdatedAt})
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (*Function, error) {
	if err := errors.ValidateFunctionName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.funcs[name]
	if !ok {
		return nil, notFound(name)
	}
	// hand out fresh identities like the persistent backends do
	f.Tree = expr.ResetIDs(f.Tree)
	return &f, nil
}

func (s *MemoryStore) Put(_ context.Context, name string, tree expr.Expr) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	if tree == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil tree for %q", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs[name] = Function{Name: name, Tree: tree, UpdatedAt: s.now().UTC()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	if err := errors.ValidateFunctionName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.funcs[name]; !ok {
		return notFound(name)
	}
	delete(s.funcs, name)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
