package dot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/kale/pkg/expr"
)

func TestToDOT(t *testing.T) {
	x := expr.NewVariable("x")
	blank := expr.NewBlank("")
	call := expr.NewCall("print", x, blank)
	root := expr.NewList(call)

	dot := ToDOT(root, Options{})

	for _, want := range []string{
		"digraph G",
		"ordering=out",
		fmt.Sprintf("%q [label=%q, shape=plain]", nodeName(root), "do"),
		fmt.Sprintf("%q [label=%q]", nodeName(call), "print"),
		fmt.Sprintf("%q -> %q", nodeName(root), nodeName(call)),
		fmt.Sprintf("%q -> %q", nodeName(call), nodeName(x)),
		"shape=ellipse",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %s", want)
		}
	}
	if strings.Index(dot, nodeName(call)+`" -> "`+nodeName(x)) > strings.Index(dot, nodeName(call)+`" -> "`+nodeName(blank)) {
		t.Error("children out of argument order")
	}
}

func TestToDOTDetailed(t *testing.T) {
	x := expr.AssignToData(expr.NewVariable("x"), expr.DataPatch{Comment: ptr("the input")})
	dot := ToDOT(x, Options{Detailed: true})
	if !strings.Contains(dot, x.Meta().ID.String()) {
		t.Error("detailed label missing the identity")
	}
	if !strings.Contains(dot, "; the input") {
		t.Error("detailed label missing the comment")
	}
}

func TestToDOTDisabled(t *testing.T) {
	d := true
	x := expr.AssignToData(expr.NewVariable("x"), expr.DataPatch{Disabled: &d})
	if dot := ToDOT(x, Options{}); !strings.Contains(dot, "dashed") {
		t.Error("disabled node is not dashed")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.HasPrefix(got, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44">`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if raw := []byte("<svg/>"); string(normalizeViewBox(raw)) != "<svg/>" {
		t.Error("input without a viewBox was changed")
	}
}

func ptr[T any](v T) *T { return &v }
