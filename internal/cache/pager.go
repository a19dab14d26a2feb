package cache

import (
	"fmt"

	"github.com/avirajkale50/cloud-guardian/internal/api"
)

// Pager tracks the current page of a paged, filtered view and maps it to a
// canonical cache key. Page numbers start at 1.
type Pager struct {
	resource string
	filter   string
	page     int
	pageSize int
}

// NewPager creates a pager for a resource ("metrics" or "decisions") at
// page 1 with the given page size.
func NewPager(resource string, pageSize int) *Pager {
	return &Pager{resource: resource, page: 1, pageSize: pageSize}
}

// Key returns the canonical cache key for the current position. The filter
// (instance ID) is part of the key, so switching instances addresses a
// different entry.
func (p *Pager) Key() string {
	return fmt.Sprintf("%s:%s:%d:%d", p.resource, p.filter, p.page, p.pageSize)
}

// Page returns the current page number.
func (p *Pager) Page() int {
	return p.page
}

// PageSize returns the configured page size.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// Filter returns the current filter value.
func (p *Pager) Filter() string {
	return p.filter
}

// SetFilter switches the filter and resets to page 1 on any change. A stale
// page number must never carry across filters: the new result set may have
// fewer pages than the current position.
func (p *Pager) SetFilter(filter string) {
	if filter == p.filter {
		return
	}
	p.filter = filter
	p.page = 1
}

// Next advances one page when the server reports another page exists.
// Returns whether the position moved.
func (p *Pager) Next(current api.Page) bool {
	if !current.HasNext {
		return false
	}
	p.page++
	return true
}

// Prev moves back one page; a no-op at page 1.
func (p *Pager) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Reset returns to page 1.
func (p *Pager) Reset() {
	p.page = 1
}
