// Package textmetrics is the text-measurement collaborator of the layout
// engine. A [Measurer] reports the pixel extent of a string in a given style
// and must return identical results for identical inputs.
//
// Two implementations are provided:
//   - [Font] measures with the Go font family through golang.org/x/image,
//     for SVG and image output.
//   - [Mono] assigns every terminal cell a fixed pixel size, for terminal
//     output and for tests that need exact geometry.
package textmetrics

import "github.com/matzehuels/kale/pkg/geom"

// Style selects a font variant.
type Style struct {
	Italic bool
	Bold   bool
}

// Measurer reports the size of rendered text.
type Measurer interface {
	Measure(text string, style Style) (geom.Size, error)
}

// MeasurerFunc adapts a function to the [Measurer] interface.
type MeasurerFunc func(text string, style Style) (geom.Size, error)

// Measure implements [Measurer].
func (f MeasurerFunc) Measure(text string, style Style) (geom.Size, error) {
	return f(text, style)
}
