package app

import (
	"context"
	"fmt"
	"sync"

	"quaero/internal/cache"
	"quaero/internal/catalog"
	"quaero/internal/client"
	"quaero/internal/config"
	"quaero/internal/discover"
	"quaero/internal/logging"
	"quaero/internal/query"
	"quaero/internal/studio"
	"quaero/internal/ui"
)

// Builder assembles an App step by step. Failures in optional steps are
// collected and the step falls back; only a missing backend client is fatal.
type Builder struct {
	cfg      *config.Config
	ctx      context.Context
	cancel   context.CancelFunc
	headless bool

	client      *client.Client
	resolver    *catalog.Resolver
	controller  *query.Controller
	discover    *discover.Session
	renderCache *cache.RenderCache
	markup      studio.MarkupRenderer
	dispatcher  *studio.Dispatcher
	clipboard   query.Clipboard
	tui         *ui.Model

	buildErrors []error
	mu          sync.Mutex
}

// NewBuilder creates a Builder for cfg.
func NewBuilder(cfg *config.Config) *Builder {
	ctx, cancel := context.WithCancel(context.Background())
	return &Builder{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Headless skips the TUI. Used by one-shot commands.
func (b *Builder) Headless() *Builder {
	b.headless = true
	return b
}

// WithClipboard replaces the system clipboard.
func (b *Builder) WithClipboard(c query.Clipboard) *Builder {
	b.clipboard = c
	return b
}

// Build constructs the App.
func (b *Builder) Build() (*App, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, b.abort(err)
	}
	if err := b.initClient(); err != nil {
		return nil, b.abort(err)
	}
	b.initServices()
	if err := b.initStudio(); err != nil {
		b.addError(err)
	}
	if !b.headless {
		b.initUI()
	}
	if err := b.finalizeError(); err != nil {
		logging.Warn("app built with fallbacks", "error", err)
	}
	return b.assembleApp(), nil
}

func (b *Builder) initClient() error {
	var err error
	b.client, err = client.New(b.cfg.API.BaseURL,
		client.WithTimeout(b.cfg.API.RequestTimeout),
		client.WithUserAgent(userAgent(b.cfg.Version)),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	logging.Debug("client created", "base_url", b.client.BaseURL(), "timeout", b.cfg.API.RequestTimeout)
	return nil
}

// initServices creates the catalog resolver and both request controllers.
func (b *Builder) initServices() {
	b.resolver = catalog.NewResolver(b.client,
		catalog.WithRetry(b.cfg.API.CatalogRetries, b.cfg.API.CatalogRetryDelay))
	b.controller = query.NewController(b.client, query.WithCopyAckWindow(b.cfg.UI.CopyAck))
	b.discover = discover.NewSession(b.client, b.cfg.Discover, nil)
}

// initStudio sets up markup rendering and the structured-result dispatcher.
// A markdown renderer that fails to start falls back to plain text.
func (b *Builder) initStudio() error {
	sc := b.cfg.Studio
	b.renderCache = cache.NewRenderCache(sc.CacheSize, sc.CacheTTL)

	var errs []error
	md, err := studio.NewMarkdownRenderer(
		studio.WithStyle(sc.MarkdownStyle),
		studio.WithCache(b.renderCache),
		studio.WithSanitizer(sc.SanitizeMarkup),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("markdown renderer: %w", err))
		b.markup = studio.NewTextRenderer(sc.SanitizeMarkup)
	} else {
		b.markup = md
	}

	order, err := studio.ParseTimelineOrder(sc.TimelineOrder)
	if err != nil {
		errs = append(errs, err)
		order = studio.OrderAppearance
	}
	b.dispatcher = studio.NewDispatcher(b.markup, studio.WithTimelineOrder(order))

	if len(errs) > 0 {
		return fmt.Errorf("studio: %v", errs)
	}
	return nil
}

func (b *Builder) initUI() {
	m := ui.New(ui.Deps{
		Context:    b.ctx,
		Config:     b.cfg,
		Controller: b.controller,
		Resolver:   b.resolver,
		Discover:   b.discover,
		Dispatcher: b.dispatcher,
		Markup:     b.markup,
		Clipboard:  b.clipboard,
	})
	b.tui = &m
}

func (b *Builder) assembleApp() *App {
	clip := b.clipboard
	if clip == nil {
		clip = query.SystemClipboard{}
	}
	return &App{
		config:      b.cfg,
		ctx:         b.ctx,
		cancel:      b.cancel,
		client:      b.client,
		resolver:    b.resolver,
		controller:  b.controller,
		discover:    b.discover,
		renderCache: b.renderCache,
		markup:      b.markup,
		dispatcher:  b.dispatcher,
		clipboard:   clip,
		tui:         b.tui,
	}
}

// abort records a fatal error and releases the app context.
func (b *Builder) abort(err error) error {
	b.addError(err)
	b.cancel()
	return b.finalizeError()
}

// addError records a build error.
func (b *Builder) addError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buildErrors = append(b.buildErrors, err)
}

// finalizeError combines all build errors into a single error.
func (b *Builder) finalizeError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buildErrors) == 0 {
		return nil
	}
	msg := fmt.Sprintf("app build failed with %d error(s)", len(b.buildErrors))
	for i, err := range b.buildErrors {
		msg += fmt.Sprintf("\n  %d. %s", i+1, err.Error())
	}
	return fmt.Errorf("%s", msg)
}

func userAgent(version string) string {
	if version == "" {
		return "quaero"
	}
	return "quaero/" + version
}
