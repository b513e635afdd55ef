package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/cache"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/geom"
	kaleio "github.com/matzehuels/kale/pkg/io"
	"github.com/matzehuels/kale/pkg/layout"
)

// areaDump is the JSON written by the layout command.
type areaDump struct {
	Name  string      `json:"name"`
	Size  geom.Size   `json:"size"`
	Areas []areaEntry `json:"areas"`
}

type areaEntry struct {
	layout.AreaEntry
	Index int    `json:"index"`
	Label string `json:"label"`
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		in      input
		v       view
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Print the area map of a tree as JSON",
		Long: `Print the area map of a tree as JSON.

Every node gets one entry in pre-order: its rectangle, whether it was laid out
inline, its depth, its pre-order index (as used by 'kale nav') and a label.
Results are cached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.file = args[0]
			}
			return c.runLayout(cmd.Context(), in, v, output, noCache)
		},
	}

	in.bind(cmd)
	v.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, in input, v view, output string, noCache bool) error {
	name, tree, err := c.load(ctx, in)
	if err != nil {
		return err
	}
	t, err := c.loadTheme()
	if err != nil {
		return err
	}
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer cc.Close()

	src, err := kaleio.Marshal(tree)
	if err != nil {
		return err
	}
	opts, err := v.key(t)
	if err != nil {
		return err
	}
	key := cache.NewDefaultKeyer().LayoutKey(cache.Hash(src), opts)
	data, err := cache.GetOrCompute(ctx, cc, "layout", key, artifactTTL, func() ([]byte, error) {
		res, err := v.compute(tree, t)
		if err != nil {
			return nil, err
		}
		return json.MarshalIndent(dumpAreas(name, tree, res), "", "  ")
	})
	if data == nil {
		return err
	}
	if err != nil {
		loggerFromContext(ctx).Warn("cache write failed", "err", err)
	}
	return writeOutput(output, append(data, '\n'))
}

// dumpAreas pairs the area entries with pre-order indices and labels.
func dumpAreas(name string, tree expr.Expr, res *layout.Result) areaDump {
	index := preorderIndex(tree)
	entries := res.Entries()
	out := areaDump{Name: name, Size: res.Size, Areas: make([]areaEntry, len(entries))}
	for i, e := range entries {
		x, _ := expr.Find(tree, e.ID)
		out.Areas[i] = areaEntry{AreaEntry: e, Index: index[e.ID], Label: expr.Label(x)}
	}
	return out
}

// preorderIndex numbers the nodes of tree in pre-order, root 0.
func preorderIndex(tree expr.Expr) map[expr.ID]int {
	m := make(map[expr.ID]int)
	i := 0
	for x := range expr.PreOrder(tree) {
		m[x.Meta().ID] = i
		i++
	}
	return m
}
