package textmetrics

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/geom"
)

// Font measures text with the Go font family. Faces are parsed once in
// [NewFont]; measuring afterwards is synchronous and safe for concurrent use.
type Font struct {
	mu    sync.Mutex
	faces [4]font.Face // indexed by styleIndex
}

func styleIndex(s Style) int {
	i := 0
	if s.Bold {
		i |= 1
	}
	if s.Italic {
		i |= 2
	}
	return i
}

// NewFont loads the regular, bold, italic and bold-italic Go fonts at the
// given pixel size.
func NewFont(size float64) (*Font, error) {
	ttfs := [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}
	f := &Font{}
	for i, ttf := range ttfs {
		parsed, err := opentype.Parse(ttf)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasureFailed, err, "parse font")
		}
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasureFailed, err, "create font face")
		}
		f.faces[i] = face
	}
	return f, nil
}

// Measure implements [Measurer]. The width is the advance of the string and
// the height is the face's ascent plus descent.
func (f *Font) Measure(text string, style Style) (geom.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	face := f.faces[styleIndex(style)]
	if face == nil {
		return geom.Size{}, errors.New(errors.ErrCodeMeasureFailed, "font not loaded")
	}
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	return geom.Sz(float64(adv)/64, float64(m.Ascent+m.Descent)/64), nil
}

// Close releases the font faces.
func (f *Font) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, face := range f.faces {
		if face != nil {
			_ = face.Close()
			f.faces[i] = nil
		}
	}
	return nil
}
