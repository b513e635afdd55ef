package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
)

func sample() expr.Expr {
	disabled := true
	note := "greeting"
	greet := expr.AssignToData(
		expr.NewCall("print", expr.NewLiteral(expr.Text, "hi"), expr.NewVariable("x")),
		expr.DataPatch{Comment: &note},
	)
	return expr.NewList(
		greet,
		expr.AssignToData(expr.NewLiteral(expr.Number, "42"), expr.DataPatch{Disabled: &disabled}),
		expr.NewLiteral(expr.Symbol, "key"),
		expr.NewLiteral(expr.Text, ""),
		expr.NewBlank("condition"),
	)
}

func TestRoundTrip(t *testing.T) {
	root := sample()

	var buf bytes.Buffer
	if err := WriteJSON(root, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if expr.Format(got) != expr.Format(root) {
		t.Errorf("round trip changed the tree:\n got %s\nwant %s", expr.Format(got), expr.Format(root))
	}
	if got.Meta().ID == root.Meta().ID {
		t.Error("imported tree reuses identities")
	}
	call := got.(*expr.List).Items[0]
	if call.Meta().Comment != "greeting" {
		t.Errorf("comment = %q", call.Meta().Comment)
	}
	if blank := got.(*expr.List).Items[4]; blank.Meta().Comment != "condition" {
		t.Errorf("blank hint = %q", blank.Meta().Comment)
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	root := sample()
	if err := ExportJSON(root, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if expr.Format(got) != expr.Format(root) {
		t.Errorf("got %s", expr.Format(got))
	}
}

func TestReadJSONNormalizes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "nested list is spliced",
			in:   `{"root":{"kind":"list","items":[{"kind":"variable","name":"a"},{"kind":"list","items":[{"kind":"variable","name":"b"}]}]}}`,
			want: "(do a b)",
		},
		{
			name: "commented nested list is kept",
			in:   `{"root":{"kind":"list","items":[{"kind":"variable","name":"a"},{"kind":"list","comment":"c","items":[{"kind":"variable","name":"b"}]}]}}`,
			want: "(do a (do b))",
		},
		{
			name: "empty list becomes blank",
			in:   `{"root":{"kind":"list"}}`,
			want: "?",
		},
		{
			name: "call without args",
			in:   `{"version":1,"root":{"kind":"call","fn":"now"}}`,
			want: "(now)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unmarshal([]byte(tt.in))
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if s := expr.Format(got); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		path string
	}{
		{"malformed", `{"root":`, ""},
		{"missing root", `{"version":1}`, ""},
		{"bad version", `{"version":7,"root":{"kind":"blank"}}`, ""},
		{"unknown kind", `{"root":{"kind":"lambda"}}`, "root"},
		{"call without fn", `{"root":{"kind":"list","items":[{"kind":"call"}]}}`, "root.items[0]"},
		{"variable without name", `{"root":{"kind":"call","fn":"f","args":[{"kind":"blank"},{"kind":"variable"}]}}`, "root.args[1]"},
		{"bad literal type", `{"root":{"kind":"literal","type":"bool","content":"true"}}`, "root"},
		{"null child", `{"root":{"kind":"list","items":[null]}}`, "root.items[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %s, want INVALID_FORMAT", errors.GetCode(err))
			}
			if tt.path != "" && !strings.Contains(err.Error(), tt.path+":") {
				t.Errorf("error %q does not name %s", err, tt.path)
			}
		})
	}
}

func TestMarshalIncludesIDs(t *testing.T) {
	v := expr.NewVariable("x")
	data, err := Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"id":`) {
		t.Errorf("ids missing from %s", data)
	}
}
