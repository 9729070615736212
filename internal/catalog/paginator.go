package catalog

import (
	"context"
	"sync"
)

// Paginator accumulates cursor pages for one filter set. Callers await Next
// sequentially; pages append in resolution order. Changing the filter set
// cancels any in-flight request and restarts pagination from the beginning,
// so a stale slow response can never overwrite a newer filter's results.
type Paginator struct {
	svc *Service

	mu         sync.Mutex
	filters    Filters
	cursor     *int64
	hasMore    bool
	products   []ProductListItem
	cancel     context.CancelFunc
	generation int
}

func NewPaginator(svc *Service, filters Filters) *Paginator {
	return &Paginator{
		svc:     svc,
		filters: filters,
		hasMore: true,
	}
}

// HasMore reports whether another page may exist.
func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Products returns a copy of every product accumulated so far, in page order.
func (p *Paginator) Products() []ProductListItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ProductListItem, len(p.products))
	copy(out, p.products)
	return out
}

// Filters returns the active filter set.
func (p *Paginator) Filters() Filters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// Next fetches the next page, appends it, and returns the page's products.
// Once HasMore is false it returns nil without a network call. A response
// belonging to a superseded filter set is discarded.
func (p *Paginator) Next(ctx context.Context) ([]ProductListItem, error) {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return nil, nil
	}
	filters := p.filters
	cursor := p.cursor
	generation := p.generation

	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()
	defer cancel()

	page, err := p.svc.Products(fetchCtx, filters, cursor)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.generation != generation {
		// Superseded by SetFilters/Reset; drop the result either way.
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	p.products = append(p.products, page.Products...)
	p.cursor = page.NextCursor
	p.hasMore = page.HasMore
	return page.Products, nil
}

// SetFilters swaps the filter set. A changed set invalidates all fetched
// pages, cancels the in-flight request, and restarts from a nil cursor.
// An equal set is a no-op.
func (p *Paginator) SetFilters(filters Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.filters.Equal(filters) {
		return
	}
	p.filters = filters
	p.resetLocked()
}

// Reset clears fetched pages and restarts pagination for the current filters.
func (p *Paginator) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Paginator) resetLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.products = nil
	p.cursor = nil
	p.hasMore = true
	p.generation++
}
