package catalog

import (
	"context"
	"sync"

	"github.com/aaravmahajanofficial/teagram/internal/models"
)

type ProductLister interface {
	ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductList, error)
}

// Pager accumulates offset-paginated product listings for one category and
// search term. Only one page request is in flight at a time; a Reset
// discards whatever the previous filter still had in flight.
type Pager struct {
	mu     sync.Mutex
	source ProductLister
	batch  int

	category models.ProductCategory
	search   string

	items     []models.Product
	total     int
	loaded    bool
	exhausted bool
	loading   bool
	err       error
	gen       uint64
}

func NewPager(source ProductLister, batch int) *Pager {
	if batch < 1 {
		batch = 1
	}

	return &Pager{
		source:   source,
		batch:    batch,
		category: models.CategoryAll,
	}
}

// Reset switches the filter, drops every loaded item and fetches the first page.
func (p *Pager) Reset(ctx context.Context, category models.ProductCategory, search string) (int, error) {

	p.mu.Lock()
	if category == "" {
		category = models.CategoryAll
	}
	p.gen++
	p.category = category
	p.search = search
	p.items = nil
	p.total = 0
	p.loaded = false
	p.exhausted = false
	p.loading = false
	p.err = nil
	p.mu.Unlock()

	return p.LoadMore(ctx)
}

// LoadMore appends the next page and returns how many items it added. It is
// a no-op while another page is loading or once everything is loaded. On
// failure the items loaded so far are kept and Err reports the cause.
func (p *Pager) LoadMore(ctx context.Context) (int, error) {

	p.mu.Lock()
	if p.loading || !p.hasMoreLocked() {
		p.mu.Unlock()
		return 0, nil
	}

	p.loading = true
	p.err = nil
	gen := p.gen
	query := models.ProductQuery{
		Category: p.category,
		Search:   p.search,
		Offset:   len(p.items),
		Limit:    p.batch,
	}
	p.mu.Unlock()

	list, err := p.source.ListProducts(ctx, query)

	p.mu.Lock()
	defer p.mu.Unlock()

	// filter changed while this page was in flight
	if gen != p.gen {
		return 0, nil
	}

	p.loading = false

	if err != nil {
		p.err = err
		return 0, err
	}

	p.items = append(p.items, list.Items...)
	p.total = list.Total
	p.loaded = true
	if len(list.Items) == 0 {
		p.exhausted = true
	}

	return len(list.Items), nil
}

func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.hasMoreLocked()
}

func (p *Pager) hasMoreLocked() bool {
	if !p.loaded {
		return true
	}

	return !p.exhausted && len(p.items) < p.total
}

func (p *Pager) Items() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]models.Product(nil), p.items...)
}

func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.total
}

func (p *Pager) Category() models.ProductCategory {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.category
}

func (p *Pager) Search() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.search
}

func (p *Pager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.loading
}
