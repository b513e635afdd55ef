package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kale/pkg/buildinfo"
	"github.com/matzehuels/kale/pkg/cache"
	"github.com/matzehuels/kale/pkg/errors"
	"github.com/matzehuels/kale/pkg/expr"
	kaleio "github.com/matzehuels/kale/pkg/io"
	"github.com/matzehuels/kale/pkg/store"
	"github.com/matzehuels/kale/pkg/textmetrics"
	"github.com/matzehuels/kale/pkg/theme"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kale"

	// defaultFunction is edited when no function is named.
	defaultFunction = "main"

	// measurerMono and measurerFont name the text measurers in cache keys
	// and the --measurer flag.
	measurerMono = "mono"
	measurerFont = "font"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	workspace string
	mongoURI  string
	redisAddr string
	themePath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Kale is a structural editor for expression trees",
		Long:         `Kale edits programs as trees rather than text. It lays trees out as nested calls with underlined arguments, and supports keyboard navigation and drag-and-drop between editors.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.registerHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.workspace, "workspace", "", "workspace directory (default ~/.local/share/kale)")
	pf.StringVar(&c.mongoURI, "mongo-uri", os.Getenv("KALE_MONGO_URI"), "store functions in MongoDB instead of the workspace directory")
	pf.StringVar(&c.redisAddr, "redis-addr", os.Getenv("KALE_REDIS_ADDR"), "cache artifacts in Redis instead of the cache directory")
	pf.StringVar(&c.themePath, "theme", "", "theme file (TOML)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.navCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.functionsCommand())
	root.AddCommand(c.themeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backends
// =============================================================================

// newCache returns the artifact cache: Redis when an address is configured,
// else the file cache. Without a usable cache directory caching is off.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.redisAddr, Prefix: appName + ":"})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newStore returns the function store: MongoDB when a URI is configured,
// else the workspace directory.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.mongoURI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{URI: c.mongoURI})
	}
	dir := c.workspace
	if dir == "" {
		var err error
		if dir, err = workspaceDir(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "workspace directory")
		}
	}
	return store.NewFileStore(dir)
}

// loadTheme returns the --theme file decoded over the defaults, or the
// defaults.
func (c *CLI) loadTheme() (*theme.Theme, error) {
	return theme.Load(c.themePath)
}

// newMeasurer returns the named text measurer. Font measurers own font
// faces; the returned close function releases them.
func newMeasurer(name string, t *theme.Theme) (textmetrics.Measurer, func(), error) {
	switch name {
	case measurerMono:
		return textmetrics.NewMono(textmetrics.DefaultCell), func() {}, nil
	case measurerFont, "":
		f, err := textmetrics.NewFont(t.FontSize)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown measurer %q (want %s or %s)", name, measurerMono, measurerFont)
}

// =============================================================================
// Input
// =============================================================================

// input names where a command reads its tree from: a JSON file, or a
// function of the store.
type input struct {
	file     string
	function string
}

func (in *input) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&in.function, "function", "F", "", "read the tree from a stored function instead of a file")
}

// load reads the tree and returns it with a display name.
func (c *CLI) load(ctx context.Context, in input) (string, expr.Expr, error) {
	if in.function == "" {
		if in.file == "" {
			return "", nil, errors.New(errors.ErrCodeInvalidInput, "need a tree file or --function")
		}
		tree, err := kaleio.ImportJSON(in.file)
		if err != nil {
			return "", nil, err
		}
		name := filepath.Base(in.file)
		return name[:len(name)-len(filepath.Ext(name))], tree, nil
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return "", nil, err
	}
	defer st.Close(ctx)
	fn, err := st.Get(ctx, in.function)
	if err != nil {
		return "", nil, err
	}
	return fn.Name, fn.Tree, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kale/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// workspaceDir returns the default function store directory
// (~/.local/share/kale/).
func workspaceDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
