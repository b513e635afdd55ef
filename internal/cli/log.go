// Package cli implements the kale command-line interface.
//
// The commands drive the editor core from a terminal: rendering trees to
// SVG, PDF, PNG or DOT, dumping area maps, probing navigation, editing
// stored functions interactively, and serving the HTTP API.
//
// # Commands
//
// The main commands are:
//   - render: Draw a tree as SVG, PDF, PNG, DOT or JSON
//   - layout: Print the area map of a tree as JSON
//   - nav: Replay navigation moves and print where they land
//   - edit: Open a stored function in the terminal editor
//   - serve: Serve the HTTP API over the function store
//   - fn: List, show, import and remove stored functions
//   - theme: Show or validate a theme file
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Editor,
// drag, cache and HTTP events reach the log through observability hooks
// registered before any command runs.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kale/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered main.svg (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability
// =============================================================================

// logHooks writes observability events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger.WithPrefix("hooks")}
	observability.SetEditorHooks(h)
	observability.SetDragHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLayout(_ context.Context, editor string, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("layout failed", "editor", short(editor), "err", err)
		return
	}
	h.logger.Debug("layout", "editor", short(editor), "nodes", nodes, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnEdit(_ context.Context, editor, action string, changed bool) {
	h.logger.Debug("edit", "editor", short(editor), "action", action, "changed", changed)
}

func (h logHooks) OnSelect(_ context.Context, editor, node string) {
	h.logger.Debug("select", "editor", short(editor), "node", node)
}

func (h logHooks) OnDragStart(node string)  { h.logger.Debug("drag start", "node", node) }
func (h logHooks) OnDragCancel(node string) { h.logger.Debug("drag cancel", "node", node) }

func (h logHooks) OnDrop(node, effect string) {
	h.logger.Debug("drop", "node", node, "effect", effect)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info(method+" "+path, "status", status, "took", d.Round(time.Microsecond))
}

// short trims editor uuids for log lines.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var (
	_ observability.EditorHooks = logHooks{}
	_ observability.DragHooks   = logHooks{}
	_ observability.CacheHooks  = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
)
