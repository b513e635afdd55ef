package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	"github.com/matzehuels/kale/pkg/layout"
	"github.com/matzehuels/kale/pkg/nav"
)

// moves names the navigation functions for the nav command.
var moves = map[string]nav.SelectFn{
	"left":         nav.LeftSmart,
	"right":        nav.RightSmart,
	"up":           nav.UpSmart,
	"down":         nav.DownSmart,
	"leftSibling":  nav.LeftSiblingSmart,
	"rightSibling": nav.RightSiblingSmart,
	"parent":       nav.Parent,
	"nextBlank":    nav.NextBlank,
}

func moveNames() []string {
	names := make([]string, 0, len(moves))
	for n := range moves {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// navCommand creates the nav command.
func (c *CLI) navCommand() *cobra.Command {
	var (
		in    input
		v     view
		from  int
		steps string
	)

	cmd := &cobra.Command{
		Use:   "nav [tree.json]",
		Short: "Replay navigation moves over a laid-out tree",
		Long: `Replay navigation moves over a laid-out tree.

The selection starts at the node with pre-order index --from (0 is the root;
'kale layout' prints the indices) and follows --moves in order. Each line of
output shows a move and where it landed; a move with nowhere to go keeps the
selection.

Moves: ` + strings.Join(moveNames(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				in.file = args[0]
			}
			return c.runNav(cmd.Context(), os.Stdout, in, v, from, steps)
		},
	}

	in.bind(cmd)
	v.bind(cmd)
	cmd.Flags().IntVar(&from, "from", 0, "pre-order index of the starting node")
	cmd.Flags().StringVarP(&steps, "moves", "m", "", "comma-separated moves")

	return cmd
}

func (c *CLI) runNav(ctx context.Context, w io.Writer, in input, v view, from int, steps string) error {
	fns, err := parseMoves(steps)
	if err != nil {
		return err
	}
	_, tree, err := c.load(ctx, in)
	if err != nil {
		return err
	}
	t, err := c.loadTheme()
	if err != nil {
		return err
	}
	res, err := v.compute(tree, t)
	if err != nil {
		return err
	}

	nodes := slices.Collect(expr.PreOrder(tree))
	if from < 0 || from >= len(nodes) {
		return errors.New(errors.ErrCodeInvalidInput, "--from %d out of range (tree has %d nodes)", from, len(nodes))
	}
	index := preorderIndex(tree)
	cur := nodes[from].Meta().ID
	fmt.Fprintf(w, "%-13s %s\n", "start", describe(tree, res, index, cur))
	names := strings.Split(steps, ",")
	for i, fn := range fns {
		next, ok := fn(tree, cur, res.Areas)
		if !ok {
			fmt.Fprintf(w, "%-13s (stays)\n", names[i])
			continue
		}
		cur = next
		fmt.Fprintf(w, "%-13s %s\n", names[i], describe(tree, res, index, cur))
	}
	return nil
}

func parseMoves(s string) ([]nav.SelectFn, error) {
	if s == "" {
		return nil, nil
	}
	var fns []nav.SelectFn
	for _, name := range strings.Split(s, ",") {
		fn, ok := moves[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown move %q (want one of %s)", name, strings.Join(moveNames(), ", "))
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

// describe prints a node as "[index] label @ (x,y wxh)".
func describe(tree expr.Expr, res *layout.Result, index map[expr.ID]int, id expr.ID) string {
	x, _ := expr.Find(tree, id)
	s := fmt.Sprintf("[%d] %s", index[id], expr.Label(x))
	if r, ok := res.Rect(id); ok {
		s += fmt.Sprintf(" @ (%g,%g %gx%g)", r.Pos.X, r.Pos.Y, r.Size.W, r.Size.H)
	}
	return s
}
