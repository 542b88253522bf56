// Package navigation is the storefront's page state machine.
package navigation

import (
	"sync"

	"github.com/aaravmahajanofficial/teagram/internal/models"
)

type Page string

const (
	PageCatalog      Page = "catalog"
	PageProduct      Page = "product"
	PageCart         Page = "cart"
	PageCheckout     Page = "checkout"
	PageConfirmation Page = "confirmation"
)

var titles = map[Page]string{
	PageCatalog:      "Каталог",
	PageProduct:      "Товар",
	PageCart:         "Корзина",
	PageCheckout:     "Оформление",
	PageConfirmation: "Готово",
}

func (p Page) Valid() bool {
	_, ok := titles[p]

	return ok
}

// Listener is told about every page change, with the page being left.
type Listener func(from, to Page)

// Router moves between pages on explicit calls. Back follows a fixed table
// rather than a history stack.
type Router struct {
	mu        sync.RWMutex
	current   Page
	productID string
	summary   *models.OrderSummary
	listeners []Listener
}

func NewRouter() *Router {
	return &Router{current: PageCatalog}
}

// OnChange registers l; it runs after the router's state is updated.
func (r *Router) OnChange(l Listener) {
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// SetPage switches pages. Unknown pages are ignored.
func (r *Router) SetPage(page Page) {
	if !page.Valid() {
		return
	}

	r.mu.Lock()
	from := r.current
	r.current = page
	r.mu.Unlock()

	r.notify(from, page)
}

// SelectProduct opens the product page for id.
func (r *Router) SelectProduct(id string) {
	r.mu.Lock()
	r.productID = id
	r.mu.Unlock()

	r.SetPage(PageProduct)
}

// CompleteOrder shows the confirmation page for summary.
func (r *Router) CompleteOrder(summary models.OrderSummary) {
	r.mu.Lock()
	r.summary = &summary
	r.mu.Unlock()

	r.SetPage(PageConfirmation)
}

// Back applies the back-navigation table and returns the new page.
func (r *Router) Back() Page {

	r.mu.Lock()
	from := r.current

	switch from {
	case PageProduct:
		r.productID = ""
		r.current = PageCatalog
	case PageCart:
		if r.productID != "" {
			r.current = PageProduct
		} else {
			r.current = PageCatalog
		}
	case PageCheckout:
		r.current = PageCart
	case PageConfirmation:
		r.productID = ""
		r.summary = nil
		r.current = PageCatalog
	}

	to := r.current
	r.mu.Unlock()

	if from != to {
		r.notify(from, to)
	}

	return to
}

func (r *Router) Current() Page {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current
}

func (r *Router) SelectedProduct() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.productID, r.productID != ""
}

func (r *Router) OrderSummary() (models.OrderSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.summary == nil {
		return models.OrderSummary{}, false
	}

	return *r.summary, true
}

func (r *Router) Title() string {
	return titles[r.Current()]
}

func (r *Router) ShowBackButton() bool {
	return r.Current() != PageCatalog
}

// Renderable reports whether the current page has what it needs: a
// selected product on the product page, a summary on the confirmation page.
func (r *Router) Renderable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch r.current {
	case PageProduct:
		return r.productID != ""
	case PageConfirmation:
		return r.summary != nil
	default:
		return true
	}
}

func (r *Router) notify(from, to Page) {
	r.mu.RLock()
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.RUnlock()

	for _, l := range listeners {
		l(from, to)
	}
}
