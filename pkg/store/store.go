// Package store persists named expression trees ("functions") for a
// workspace.
//
// Backends:
//   - file: one JSON document per function in a directory (CLI default)
//   - mongo: a MongoDB collection shared by server instances
//   - memory: process-local, for tests and throwaway servers
//
// Names are checked with [errors.ValidateFunctionName] before any backend
// sees them. Trees are stored in the [kaleio] JSON format, so a loaded tree
// always carries fresh identities.
//
// [kaleio]: github.com/matzehuels/kale/pkg/io
package store

import (
	"context"
	"time"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
)

// Function is a stored tree.
type Function struct {
	Name      string
	Tree      expr.Expr
	UpdatedAt time.Time
}

// Summary describes a stored function without its tree.
type Summary struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the interface for workspace backends.
type Store interface {
	// List returns all functions sorted by name.
	List(ctx context.Context) ([]Summary, error)

	// Get loads a function. A missing function is a FUNCTION_NOT_FOUND error.
	Get(ctx context.Context, name string) (*Function, error)

	// Put creates or replaces a function.
	Put(ctx context.Context, name string, tree expr.Expr) error

	// Delete removes a function. A missing function is a FUNCTION_NOT_FOUND
	// error.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func notFound(name string) error {
	return errors.New(errors.ErrCodeFunctionNotFound, "function %q not found", name)
}

func failed(err error, op, name string) error {
	return errors.Wrap(errors.ErrCodeStoreFailed, err, "%s %q", op, name)
}
