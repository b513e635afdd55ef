package expr

import "github.com/matzehuels/kale/pkg/errors"

// Validate checks the tree invariants: every node has a non-zero identity, no
// identity occurs twice, and containers hold no nil children.
func Validate(root Expr) error {
	if root == nil {
		return errors.New(errors.ErrCodeInvariantViolation, "nil tree")
	}
	seen := make(map[ID]struct{})
	var err error
	var rec func(e Expr) bool
	rec = func(e Expr) bool {
		id := e.Meta().ID
		if id == 0 {
			err = errors.New(errors.ErrCodeInvariantViolation, "node %s has no identity", Label(e))
			return false
		}
		if _, dup := seen[id]; dup {
			err = errors.New(errors.ErrCodeInvariantViolation, "duplicate identity %s", id)
			return false
		}
		seen[id] = struct{}{}
		for _, c := range Children(e) {
			if c == nil {
				err = errors.New(errors.ErrCodeInvariantViolation, "nil child under %s", id)
				return false
			}
			if !rec(c) {
				return false
			}
		}
		return true
	}
	rec(root)
	return err
}

// MustValidate panics with an INVARIANT_VIOLATION error if the tree is not
// well formed.
func MustValidate(root Expr) {
	if err := Validate(root); err != nil {
		errors.Assert(false, "%s", errors.UserMessage(err))
	}
}
