package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/cache"
	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	kaleio "github.com/matzehuels/kale/pkg/io"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/render/dot"
	"github.com/matzehuels/kale/pkg/render/svg"
	"github.com/matzehuels/kale/pkg/theme"
)

const (
	formatSVG  = "svg"
	formatPDF  = "pdf"
	formatPNG  = "png"
	formatJSON = "json"
	formatDOT  = "dot"
	formatTree = "tree" // graphviz drawing of the tree structure, as SVG

	// artifactTTL bounds how long rendered artifacts stay cached.
	artifactTTL = 7 * 24 * time.Hour
)

// validFormats lists the render formats in help order.
var validFormats = []string{formatSVG, formatPDF, formatPNG, formatJSON, formatDOT, formatTree}

// view holds the flags that change layout geometry.
type view struct {
	measurer     string
	frozen       bool
	foldComments bool
}

func (v *view) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&v.measurer, "measurer", measurerFont, "text measurer: font (Go fonts) or mono (fixed cells)")
	cmd.Flags().BoolVar(&v.frozen, "frozen", false, "lay out as a read-only surface (no create circles)")
	cmd.Flags().BoolVar(&v.foldComments, "fold-comments", false, "hide comments")
}

// compute lays tree out under t.
func (v view) compute(tree expr.Expr, t *theme.Theme) (*layout.Result, error) {
	m, closeFn, err := newMeasurer(v.measurer, t)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return layout.Compute(tree, layout.Context{
		Theme:        t,
		Measurer:     m,
		Frozen:       v.frozen,
		FoldComments: v.foldComments,
	})
}

func (v view) key(t *theme.Theme) (cache.LayoutKeyOpts, error) {
	th, err := themeHash(t)
	if err != nil {
		return cache.LayoutKeyOpts{}, err
	}
	return cache.LayoutKeyOpts{
		ThemeHash:    th,
		Measurer:     v.measurer,
		Frozen:       v.frozen,
		FoldComments: v.foldComments,
	}, nil
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input
	view
	output   string   // output file, or base path for several formats
	formats  []string // svg, pdf, png, json, dot, tree
	debug    bool     // outline every area
	detailed bool     // ids and comments in DOT labels
	scale    float64  // PNG scale
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a tree as SVG, PDF, PNG, JSON or DOT",
		Long: `Render a tree as SVG, PDF, PNG, JSON or DOT.

The tree is read from a JSON file or, with --function, from the function store.
svg, pdf and png draw the laid-out tree. dot prints the tree structure in the
Graphviz language, and tree draws that structure with Graphviz.

PDF and PNG need rsvg-convert (librsvg). Rendered artifacts are cached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.file = args[0]
			}
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	opts.input.bind(cmd)
	opts.view.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format, - for stdout) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(validFormats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "outline every layout area")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and comments in DOT output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !isFormat(f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", f, strings.Join(validFormats, ", "))
		}
	}
	return nil
}

func isFormat(s string) bool {
	for _, f := range validFormats {
		if f == s {
			return true
		}
	}
	return false
}

// extension returns the file suffix of a format.
func extension(format string) string {
	if format == formatTree {
		return ".tree.svg"
	}
	return "." + format
}

// basePath derives the base output path. Without an output it is the input
// name; a known format extension on output is stripped.
func basePath(output, name string) string {
	if output == "" {
		return name
	}
	ext := filepath.Ext(output)
	if isFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	name, tree, err := c.load(ctx, opts.input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d nodes", name, len(expr.IDs(tree)))

	t, err := c.loadTheme()
	if err != nil {
		return err
	}
	cc, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	single := len(opts.formats) == 1 && opts.output != ""
	base := basePath(opts.output, name)
	for _, format := range opts.formats {
		data, err := c.artifact(ctx, cc, tree, name, t, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := base + extension(format)
		if single {
			path = opts.output
		}
		if err := writeOutput(path, data); err != nil {
			return err
		}
		if path != "-" {
			printFile(path)
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", name))
	return nil
}

// artifact renders one format through the cache.
func (c *CLI) artifact(ctx context.Context, cc cache.Cache, tree expr.Expr, name string, t *theme.Theme, format string, opts *renderOpts) ([]byte, error) {
	src, err := kaleio.Marshal(tree)
	if err != nil {
		return nil, err
	}
	lk, err := opts.view.key(t)
	if err != nil {
		return nil, err
	}
	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(src), cache.ArtifactKeyOpts{
		LayoutKeyOpts: lk,
		Format:        format,
		Debug:         opts.debug || opts.detailed,
	})
	data, err := cache.GetOrCompute(ctx, cc, "artifact", key, artifactTTL, func() ([]byte, error) {
		return renderFormat(ctx, tree, name, t, format, opts)
	})
	if err != nil && data == nil {
		return nil, err
	}
	if err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "err", err)
	}
	return data, nil
}

// renderFormat dispatches to the renderer of format.
func renderFormat(ctx context.Context, tree expr.Expr, name string, t *theme.Theme, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatJSON:
		return kaleio.Marshal(tree)
	case formatDOT:
		return []byte(dot.ToDOT(tree, dot.Options{Detailed: opts.detailed})), nil
	case formatTree:
		return dot.RenderSVG(ctx, dot.ToDOT(tree, dot.Options{Detailed: opts.detailed}))
	}

	res, err := opts.view.compute(tree, t)
	if err != nil {
		return nil, err
	}
	svgOpts := []svg.Option{svg.WithTheme(t), svg.WithTitle(name)}
	if opts.debug {
		svgOpts = append(svgOpts, svg.WithDebug())
	}
	switch format {
	case formatPDF:
		return svg.RenderPDF(res, svgOpts...)
	case formatPNG:
		return svg.RenderPNG(res, opts.scale, svgOpts...)
	default:
		return svg.RenderSVG(res, svgOpts...), nil
	}
}

// themeHash identifies a theme by its encoded form.
func themeHash(t *theme.Theme) (string, error) {
	var buf bytes.Buffer
	if err := t.Encode(&buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// writeOutput writes data to path; "-" is stdout.
func writeOutput(path string, data []byte) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := w.Write(data)
	return err
}
