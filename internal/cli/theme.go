package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/theme"
)

// themeCommand creates the theme command.
func (c *CLI) themeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect layout themes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective theme as TOML",
		Long:  "Print the effective theme as TOML: the defaults, or the --theme file decoded over them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.loadTheme()
			if err != nil {
				return err
			}
			return t.Encode(os.Stdout)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [theme.toml]",
		Short: "Check a theme file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := theme.Load(args[0]); err != nil {
				return err
			}
			printSuccess("%s is a valid theme", args[0])
			return nil
		},
	})

	return cmd
}
