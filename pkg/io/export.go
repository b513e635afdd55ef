package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/kale/pkg/expr"
)

// FormatVersion is the document version written by [WriteJSON].
const FormatVersion = 1

type document struct {
	Version int   `json:"version"`
	Root    *node `json:"root"`
}

type node struct {
	Kind     string `json:"kind"`
	ID       uint64 `json:"id,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`

	Fn      string  `json:"fn,omitempty"`
	Name    string  `json:"name,omitempty"`
	Type    string  `json:"type,omitempty"`
	Content *string `json:"content,omitempty"`
	Items   []*node `json:"items,omitempty"`
	Args    []*node `json:"args,omitempty"`
}

type encoder struct{}

func (encoder) base(kind string, d expr.Data) *node {
	return &node{Kind: kind, ID: uint64(d.ID), Comment: d.Comment, Disabled: d.Disabled}
}

func (v encoder) all(xs []expr.Expr) []*node {
	out := make([]*node, len(xs))
	for i, x := range xs {
		out[i] = expr.Visit[*node](x, v)
	}
	return out
}

func (v encoder) VisitList(l *expr.List) *node {
	n := v.base("list", l.Data)
	n.Items = v.all(l.Items)
	return n
}

func (v encoder) VisitCall(c *expr.Call) *node {
	n := v.base("call", c.Data)
	n.Fn = c.Fn
	n.Args = v.all(c.Args)
	return n
}

func (v encoder) VisitLiteral(l *expr.Literal) *node {
	n := v.base("literal", l.Data)
	n.Type = l.Kind.String()
	content := l.Content
	n.Content = &content
	return n
}

func (v encoder) VisitVariable(x *expr.Variable) *node {
	n := v.base("variable", x.Data)
	n.Name = x.Name
	return n
}

func (v encoder) VisitBlank(b *expr.Blank) *node {
	return v.base("blank", b.Data)
}

// Marshal encodes a tree as an indented JSON document.
func Marshal(root expr.Expr) ([]byte, error) {
	return json.MarshalIndent(document{
		Version: FormatVersion,
		Root:    expr.Visit[*node](root, encoder{}),
	}, "", "  ")
}

// WriteJSON encodes a tree as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(root expr.Expr, w io.Writer) error {
	data, err := Marshal(root)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ExportJSON writes a tree to a JSON file at path.
func ExportJSON(root expr.Expr, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(root, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
