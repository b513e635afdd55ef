package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	kaleio "github.com/matzehuels/kale/pkg/io"
	"github.com/matzehuels/kale/pkg/store"
)

// functionsCommand creates the fn command for managing stored functions.
func (c *CLI) functionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fn",
		Aliases: []string{"functions"},
		Short:   "Manage stored functions",
		Long: `Manage stored functions.

Functions live in the workspace directory, or in MongoDB when --mongo-uri is
set. Trees are exchanged as JSON documents (see 'kale render -f json').`,
	}

	cmd.AddCommand(c.fnListCommand())
	cmd.AddCommand(c.fnShowCommand())
	cmd.AddCommand(c.fnPutCommand())
	cmd.AddCommand(c.fnNewCommand())
	cmd.AddCommand(c.fnRemoveCommand())

	return cmd
}

// withStore opens the store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(ctx)
	return fn(st)
}

func (c *CLI) fnListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				fns, err := st.List(ctx)
				if err != nil {
					return err
				}
				if len(fns) == 0 {
					printInfo("No functions stored")
					return nil
				}
				for _, f := range fns {
					printKeyValue(f.Name, f.UpdatedAt.Local().Format(time.DateTime))
				}
				return nil
			})
		},
	}
}

func (c *CLI) fnShowCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print a stored function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				f, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return kaleio.WriteJSON(f.Tree, os.Stdout)
				}
				fmt.Println(expr.Format(f.Tree))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the JSON document instead of an s-expression")
	return cmd
}

func (c *CLI) fnPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put NAME tree.json",
		Short: "Store a tree under a name, replacing any existing function",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tree, err := kaleio.ImportJSON(args[1])
			if err != nil {
				return err
			}
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Put(ctx, args[0], tree); err != nil {
					return err
				}
				printSuccess("Stored %s", args[0])
				printStats(tree)
				return nil
			})
		},
	}
}

func (c *CLI) fnNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				if _, err := st.Get(ctx, args[0]); err == nil {
					return errors.New(errors.ErrCodeInvalidInput, "function %q already exists", args[0])
				} else if !errors.Is(err, errors.ErrCodeFunctionNotFound) {
					return err
				}
				if err := st.Put(ctx, args[0], expr.NewBlank(expr.EmptyHint)); err != nil {
					return err
				}
				printSuccess("Created %s", args[0])
				printNextStep("Edit it with", appName+" edit "+args[0])
				return nil
			})
		},
	}
}

func (c *CLI) fnRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"delete"},
		Short:   "Remove a stored function",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Removed %s", args[0])
				return nil
			})
		},
	}
}
