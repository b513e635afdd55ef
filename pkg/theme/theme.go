// Package theme holds the parameters consumed by the layout engine and the
// renderers: font metrics, spacing constants, the line-break threshold, the
// nesting limit, paddings and colours.
//
// A [Theme] is plain data. [Default] returns the built-in values; [Load] and
// [Parse] overlay a TOML document on top of them:
//
//	font_size = 14
//
//	[layout]
//	line_break_point = 400
//
//	[colours]
//	call = "#000000"
package theme

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/geom"
)

// Theme is the configuration record for layout and rendering.
type Theme struct {
	FontSize   float64 `toml:"font_size"`
	FontFamily string  `toml:"font_family"`

	Layout       LayoutParams    `toml:"layout"`
	Blank        BlankParams     `toml:"blank"`
	Highlight    HighlightParams `toml:"highlight"`
	CreateCircle CircleParams    `toml:"create_circle"`
	Colours      Colours         `toml:"colours"`
}

// LayoutParams drive the inline-versus-block decision and spacing.
type LayoutParams struct {
	// MaxNesting is the underline depth at which a call is forced into block
	// layout.
	MaxNesting int `toml:"max_nesting"`
	// LineBreakPoint is the combined argument width above which a call is
	// laid out as a block.
	LineBreakPoint   float64 `toml:"line_break_point"`
	UnderlineSpacing float64 `toml:"underline_spacing"`
	LineSpacing      float64 `toml:"line_spacing"`
}

type BlankParams struct {
	Padding geom.Padding `toml:"padding"`
}

type HighlightParams struct {
	Padding     geom.Padding `toml:"padding"`
	MainPadding geom.Padding `toml:"main_padding"`
	Radius      float64      `toml:"radius"`
}

type CircleParams struct {
	Radius    float64 `toml:"radius"`
	MaxRadius float64 `toml:"max_radius"`
}

// Colours are CSS colour strings used by the SVG renderer.
type Colours struct {
	Background      string `toml:"background"`
	Call            string `toml:"call"`
	Comment         string `toml:"comment"`
	Variable        string `toml:"variable"`
	Literal         string `toml:"literal"`
	Disabled        string `toml:"disabled"`
	Underline       string `toml:"underline"`
	ListRuler       string `toml:"list_ruler"`
	Decoration      string `toml:"decoration"`
	BlankText       string `toml:"blank_text"`
	BlankFill       string `toml:"blank_fill"`
	BlankStroke     string `toml:"blank_stroke"`
	SelectionFill   string `toml:"selection_fill"`
	SelectionStroke string `toml:"selection_stroke"`
	HoverStroke     string `toml:"hover_stroke"`
	ContextStroke   string `toml:"context_stroke"`
	DroppableStroke string `toml:"droppable_stroke"`
}

// Default returns the built-in theme.
func Default() *Theme {
	return &Theme{
		FontSize:   12,
		FontFamily: "Go",
		Layout: LayoutParams{
			MaxNesting:       3,
			LineBreakPoint:   300,
			UnderlineSpacing: 3,
			LineSpacing:      7,
		},
		Blank: BlankParams{Padding: geom.Pad(0, 10)},
		Highlight: HighlightParams{
			Padding:     geom.Pad(3),
			MainPadding: geom.Pad(3, 20, 3, 3),
			Radius:      3,
		},
		CreateCircle: CircleParams{Radius: 2.5, MaxRadius: 4},
		Colours: Colours{
			Background:      "#ffffff",
			Call:            "#111111",
			Comment:         "#00b508",
			Variable:        "#248af0",
			Literal:         "#ef6c00",
			Disabled:        "#cccccc",
			Underline:       "#6a6a6a",
			ListRuler:       "#000000",
			Decoration:      "#6a6a6a",
			BlankText:       "#909090",
			BlankFill:       "#f7f7f7",
			BlankStroke:     "#dcdcdc",
			SelectionFill:   "#f5f9ff",
			SelectionStroke: "#364ee0",
			HoverStroke:     "#cecece",
			ContextStroke:   "#248af0",
			DroppableStroke: "#1b65f1",
		},
	}
}

// Validate checks the theme for values the layout engine cannot work with.
func (t *Theme) Validate() error {
	switch {
	case t.FontSize <= 0:
		return errors.New(errors.ErrCodeInvalidTheme, "font_size must be positive, got %v", t.FontSize)
	case t.Layout.LineBreakPoint <= 0:
		return errors.New(errors.ErrCodeInvalidTheme, "layout.line_break_point must be positive")
	case t.Layout.MaxNesting < 1:
		return errors.New(errors.ErrCodeInvalidTheme, "layout.max_nesting must be at least 1")
	case t.Layout.UnderlineSpacing < 0 || t.Layout.LineSpacing < 0:
		return errors.New(errors.ErrCodeInvalidTheme, "layout spacing cannot be negative")
	case t.CreateCircle.Radius > t.CreateCircle.MaxRadius:
		return errors.New(errors.ErrCodeInvalidTheme, "create_circle.radius exceeds max_radius")
	}
	hp := t.Highlight.Padding
	if hp.Top+hp.Bottom >= t.Layout.LineSpacing {
		return errors.New(errors.ErrCodeInvalidTheme,
			"vertical highlight padding (%v) needs to fit in the line spacing (%v)", hp.Top+hp.Bottom, t.Layout.LineSpacing)
	}
	mp := t.Highlight.MainPadding
	if mp.Top < hp.Top || mp.Right < hp.Right || mp.Bottom < hp.Bottom || mp.Left < hp.Left {
		return errors.New(errors.ErrCodeInvalidTheme, "highlight.main_padding must be at least as big as highlight.padding")
	}
	return nil
}

// Parse reads a TOML theme from r on top of the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Parse(r io.Reader) (*Theme, error) {
	t := Default()
	md, err := toml.NewDecoder(r).Decode(t)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode theme")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidTheme, "unknown theme keys: %s", strings.Join(keys, ", "))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a TOML theme file. An empty path returns the defaults.
func Load(path string) (*Theme, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "open theme %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Encode writes the theme as TOML.
func (t *Theme) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(t)
}
