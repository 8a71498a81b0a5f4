// Package app wires configuration, the backend client, rendering and the TUI.
package app

import (
	"context"
	"errors"
	"fmt"

	"quaero/internal/api"
	"quaero/internal/cache"
	"quaero/internal/catalog"
	"quaero/internal/client"
	"quaero/internal/config"
	"quaero/internal/discover"
	"quaero/internal/logging"
	"quaero/internal/query"
	"quaero/internal/studio"
	"quaero/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// App is the assembled application.
type App struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc

	client      *client.Client
	resolver    *catalog.Resolver
	controller  *query.Controller
	discover    *discover.Session
	renderCache *cache.RenderCache
	markup      studio.MarkupRenderer
	dispatcher  *studio.Dispatcher
	clipboard   query.Clipboard

	tui           *ui.Model
	program       *tea.Program
	signalCleanup func()
}

// ConfigureLogging enables file logging when the config asks for it.
// Logs are discarded otherwise so they never reach the terminal.
func ConfigureLogging(cfg *config.Config) {
	if !cfg.Logging.Enabled {
		logging.Close()
		return
	}
	dir := cfg.Logging.Dir
	if dir == "" {
		dir = config.ConfigDir()
	}
	if err := logging.EnableFileLogging(dir, logging.ParseLevel(cfg.Logging.Level)); err != nil {
		logging.Close()
	}
}

// Config returns the effective configuration.
func (a *App) Config() *config.Config { return a.config }

// Resolver returns the model catalog resolver.
func (a *App) Resolver() *catalog.Resolver { return a.resolver }

// Dispatcher returns the structured-result renderer.
func (a *App) Dispatcher() *studio.Dispatcher { return a.dispatcher }

// Markup returns the markup renderer.
func (a *App) Markup() studio.MarkupRenderer { return a.markup }

// CacheStats reports render cache usage.
func (a *App) CacheStats() cache.Stats { return a.renderCache.Stats() }

// NewDraft returns a search draft seeded from the config.
func (a *App) NewDraft() query.Draft { return query.NewDraft(a.config.Search) }

// Ask runs one search to completion.
func (a *App) Ask(ctx context.Context, req api.SearchRequest) (*api.SearchResponse, error) {
	call, err := a.controller.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	out := call.Do()
	switch out.Snapshot.State {
	case query.StateSucceeded:
		return out.Snapshot.Response, nil
	case query.StateCancelled:
		return nil, context.Canceled
	default:
		return nil, errors.New(out.Snapshot.Failure)
	}
}

// Copy places the last answer on the clipboard.
func (a *App) Copy() error {
	return a.controller.Copy(a.clipboard)
}

// Discover runs one discover request to completion.
func (a *App) Discover(ctx context.Context, topic string) (*api.DiscoverResponse, error) {
	call, err := a.discover.Begin(ctx, topic)
	if err != nil {
		return nil, err
	}
	out := call.Do()
	if out.Snapshot.State != discover.StateSucceeded {
		return nil, errors.New(out.Snapshot.Failure)
	}
	return out.Snapshot.Response, nil
}

// Models fetches the model catalog.
func (a *App) Models(ctx context.Context) (*api.ModelCatalog, error) {
	return a.resolver.Fetch(ctx)
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	if a.tui == nil {
		return errors.New("app was built headless")
	}
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(a.ctx)}
	if a.config.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	a.program = tea.NewProgram(*a.tui, opts...)
	a.signalCleanup = a.setupSignalHandler()
	defer a.Close()

	logging.Info("tui started", "base_url", a.client.BaseURL())
	return withRecovery("tui", func() error {
		_, err := a.program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		return nil
	})
}

// Close cancels outstanding work and releases resources.
func (a *App) Close() {
	if a.signalCleanup != nil {
		a.signalCleanup()
		a.signalCleanup = nil
	}
	if a.controller.Snapshot().State == query.StatePending {
		_ = a.controller.Cancel()
	}
	a.cancel()
	stats := a.renderCache.Stats()
	logging.Debug("shutdown complete", "cache_hits", stats.Hits, "cache_misses", stats.Misses)
	logging.Close()
}
