package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/editor/httpapi"
	"github.com/matzehuels/kale/pkg/textmetrics"
)

const (
	defaultAddr     = "localhost:7878"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		measurer string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the function store over HTTP",
		Long: `Serve the function store over HTTP.

Functions can be listed, read, replaced and deleted, drawn as SVG, and edited
by posting key presses or actions. Every change is saved to the store.

  GET  /api/functions                 list functions
  GET  /api/functions/NAME/svg        draw a function with its selection
  POST /api/functions/NAME/keys       {"keys": ["tab", "d"]}
  POST /api/functions/NAME/actions    {"action": "delete", "node": 3}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), ln, measurer)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&measurer, "measurer", measurerFont, "text measurer: font or mono")

	return cmd
}

// runServe serves the API on ln until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, ln net.Listener, measurer string) error {
	t, err := c.loadTheme()
	if err != nil {
		return err
	}
	m, closeFn, err := newMeasurer(measurer, t)
	if err != nil {
		return err
	}
	defer closeFn()

	spin := newSpinner(ctx, os.Stderr, "Opening function store...")
	spin.Start()
	st, err := c.newStore(ctx)
	if err != nil {
		spin.StopWithError("Could not open the function store")
		return err
	}
	spin.Stop()
	defer st.Close(context.WithoutCancel(ctx))

	api := httpapi.New(st,
		httpapi.WithTheme(t),
		httpapi.WithLogger(c.Logger.WithPrefix("http")),
		httpapi.WithMeasurer(func() textmetrics.Measurer { return m }),
	)
	defer api.Close()

	srv := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	c.Logger.Info("serving", "addr", "http://"+ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}
