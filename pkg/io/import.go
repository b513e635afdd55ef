package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
)

// ReadJSON decodes a JSON document from r into a tree with fresh identities.
//
// Malformed JSON, unknown kinds or literal types, an unsupported version,
// and calls or variables without a name are reported as INVALID_FORMAT
// errors naming the offending path, e.g. "root.items[1].args[0]".
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (expr.Expr, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	return fromDocument(doc)
}

// Unmarshal is [ReadJSON] over a byte slice.
func Unmarshal(data []byte) (expr.Expr, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	return fromDocument(doc)
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
func ImportJSON(path string) (expr.Expr, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func fromDocument(doc document) (expr.Expr, error) {
	if doc.Version != 0 && doc.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported version %d", doc.Version)
	}
	if doc.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing root")
	}
	return decode(doc.Root, "root")
}

func decode(n *node, path string) (expr.Expr, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: null node", path)
	}

	var e expr.Expr
	switch n.Kind {
	case "list":
		items, err := decodeAll(n.Items, path+".items")
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			e = expr.NewBlank("")
		} else {
			e = expr.NewList(items...)
		}
	case "call":
		if n.Fn == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: call without fn", path)
		}
		args, err := decodeAll(n.Args, path+".args")
		if err != nil {
			return nil, err
		}
		e = expr.NewCall(n.Fn, args...)
	case "literal":
		kind, ok := expr.ParseLiteralKind(n.Type)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown literal type %q", path, n.Type)
		}
		content := ""
		if n.Content != nil {
			content = *n.Content
		}
		e = expr.NewLiteral(kind, content)
	case "variable":
		if n.Name == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: variable without name", path)
		}
		e = expr.NewVariable(n.Name)
	case "blank":
		e = expr.NewBlank("")
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: unknown kind %q", path, n.Kind)
	}

	if n.Comment != "" || n.Disabled {
		e = expr.AssignToData(e, expr.DataPatch{Comment: &n.Comment, Disabled: &n.Disabled})
	}
	return e, nil
}

func decodeAll(ns []*node, path string) ([]expr.Expr, error) {
	out := make([]expr.Expr, 0, len(ns))
	for i, n := range ns {
		e, err := decode(n, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
