package pagination

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
)

// Chain is a whole sequence split up front into linked pages. Every page but
// the last has More set and Next equal to the following page's ID.
type Chain[T any] struct {
	pages []*Page[T]
}

// NewChain materialises every page of items. A limit of zero or less yields a
// single page. An empty sequence yields a single empty page.
func NewChain[T any](items []T, limit int) *Chain[T] {
	if limit <= 0 || len(items) <= limit {
		return &Chain[T]{pages: []*Page[T]{{ID: "0", Items: items}}}
	}

	n := (len(items) + limit - 1) / limit
	pages := make([]*Page[T], 0, n)
	for i := 0; i < n; i++ {
		start := i * limit
		end := min(start+limit, len(items))
		pages = append(pages, &Page[T]{ID: strconv.Itoa(i), Items: items[start:end]})
	}
	for i := 0; i < n-1; i++ {
		pages[i].More = true
		pages[i].Next = pages[i+1].ID
	}
	return &Chain[T]{pages: pages}
}

// Len returns the number of pages.
func (c *Chain[T]) Len() int {
	return len(c.pages)
}

// Pages returns the pages in order.
func (c *Chain[T]) Pages() []*Page[T] {
	return c.pages
}

// Page returns the page with index next.
func (c *Chain[T]) Page(next int) (*Page[T], error) {
	if next < 0 || next >= len(c.pages) {
		return nil, fmt.Errorf("page %d of %d: %w", next, len(c.pages), common.ErrPageOutOfRange)
	}
	return c.pages[next], nil
}
