// Package storefront wires the catalog, cart, checkout and navigation
// together behind a line-oriented command interface.
package storefront

import (
	"context"
	"html"
	"log/slog"
	"sync"

	"github.com/aaravmahajanofficial/teagram/internal/auth"
	"github.com/aaravmahajanofficial/teagram/internal/cart"
	"github.com/aaravmahajanofficial/teagram/internal/catalog"
	"github.com/aaravmahajanofficial/teagram/internal/checkout"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/aaravmahajanofficial/teagram/internal/navigation"
	"github.com/aaravmahajanofficial/teagram/internal/theme"
	"github.com/microcosm-cc/bluemonday"
)

// Deps are the collaborators an App drives. All are required except Logger.
type Deps struct {
	Router   *navigation.Router
	Catalog  *catalog.Client
	Pager    *catalog.Pager
	Cart     *cart.Store
	Checkout *checkout.Flow
	Theme    *theme.Holder
	Auth     *auth.Manager
	Logger   *slog.Logger
}

type App struct {
	router   *navigation.Router
	catalog  *catalog.Client
	pager    *catalog.Pager
	cart     *cart.Store
	checkout *checkout.Flow
	theme    *theme.Holder
	auth     *auth.Manager
	logger   *slog.Logger
	policy   *bluemonday.Policy

	mu         sync.Mutex
	base       context.Context
	view       context.Context
	cancelView context.CancelFunc
	categories []models.CategoryOption
	// last opened product; shown only while the router selects the same id
	product    *models.Product
	notice     string
}

func New(deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	a := &App{
		router:   deps.Router,
		catalog:  deps.Catalog,
		pager:    deps.Pager,
		cart:     deps.Cart,
		checkout: deps.Checkout,
		theme:    deps.Theme,
		auth:     deps.Auth,
		logger:   deps.Logger,
		policy:   bluemonday.StrictPolicy(),
		base:     context.Background(),
	}

	a.view, a.cancelView = context.WithCancel(a.base)
	a.router.OnChange(a.onPageChange)

	return a
}

// Start loads what the first screen needs. Failures are logged and shown on
// the page; none of them stop the app. Page views derive from ctx.
func (a *App) Start(ctx context.Context) {

	a.mu.Lock()
	a.base = ctx
	a.cancelView()
	a.view, a.cancelView = context.WithCancel(ctx)
	a.mu.Unlock()

	a.loadCategories(ctx)

	scoped, cancel := a.scope(ctx)
	defer cancel()

	if _, err := a.pager.Reset(scoped, models.CategoryAll, ""); err != nil {
		a.logger.Warn("Failed to load the first catalog page", slog.String("error", err.Error()))
	}

	// the cart outlives any single page
	if err := a.cart.Load(ctx); err != nil {
		a.logger.Warn("Failed to load cart", slog.String("error", err.Error()))
	}
}

// Close cancels the current page view.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancelView()
}

// onPageChange cancels whatever the page being left still has in flight.
func (a *App) onPageChange(from, to navigation.Page) {

	a.mu.Lock()
	a.cancelView()
	a.view, a.cancelView = context.WithCancel(a.base)
	a.mu.Unlock()

	a.logger.Debug("Page changed", slog.String("from", string(from)), slog.String("to", string(to)))
}

// scope derives a context that ends with ctx or with the current page view,
// whichever comes first.
func (a *App) scope(ctx context.Context) (context.Context, context.CancelFunc) {

	a.mu.Lock()
	view := a.view
	a.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(view, cancel)

	return ctx, func() {
		stop()
		cancel()
	}
}

func (a *App) loadCategories(ctx context.Context) {
	categories, err := a.catalog.ListCategories(ctx)
	if err != nil {
		a.logger.Warn("Failed to load categories", slog.String("error", err.Error()))
		return
	}

	a.mu.Lock()
	a.categories = categories
	a.mu.Unlock()
}

func (a *App) setNotice(notice string) {
	a.mu.Lock()
	a.notice = notice
	a.mu.Unlock()
}

func (a *App) takeNotice() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	notice := a.notice
	a.notice = ""

	return notice
}

// text strips markup from backend-supplied strings before they reach the
// terminal.
func (a *App) text(s string) string {
	return html.UnescapeString(a.policy.Sanitize(s))
}
