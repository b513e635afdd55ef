package textmetrics

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/kale/pkg/geom"
)

// Mono measures text as a run of fixed-size terminal cells. Wide runes such
// as CJK characters occupy two cells. Style does not affect the result.
type Mono struct {
	Cell geom.Size
}

// DefaultCell approximates a 12px monospace glyph.
var DefaultCell = geom.Sz(7, 12)

// NewMono returns a Mono measurer with the given cell size.
func NewMono(cell geom.Size) Mono { return Mono{Cell: cell} }

// Measure implements [Measurer]. It never fails.
func (m Mono) Measure(text string, _ Style) (geom.Size, error) {
	return geom.Sz(float64(runewidth.StringWidth(text))*m.Cell.W, m.Cell.H), nil
}
