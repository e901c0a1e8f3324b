// Package pagination splits an ordered result into TAXII pages addressed by
// an integer page index carried in the opaque "next" cursor.
package pagination

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
)

// Page is one page of an ordered sequence. More is true iff Next is set.
type Page[T any] struct {
	ID    string
	More  bool
	Next  string
	Items []T
}

// Paginate returns the page with index next of items split into pages of size
// limit. A limit of zero or less disables pagination: page 0 holds everything
// and there is no later page.
//
// Page 0 always exists, even for an empty sequence. Any later page must start
// inside items, otherwise common.ErrPageOutOfRange is returned.
func Paginate[T any](items []T, limit, next int) (*Page[T], error) {
	if next < 0 {
		return nil, fmt.Errorf("next %d: %w", next, common.ErrInvalidArgument)
	}
	if limit <= 0 {
		if next > 0 {
			return nil, fmt.Errorf("page %d of unpaginated result: %w", next, common.ErrPageOutOfRange)
		}
		return &Page[T]{ID: "0", Items: items}, nil
	}

	// start <= len(items)-1, written without multiplying to stay clear of overflow
	if next > 0 && (len(items) == 0 || next > (len(items)-1)/limit) {
		return nil, fmt.Errorf("page %d: %w", next, common.ErrPageOutOfRange)
	}

	start := limit * next
	end := min(start+limit, len(items))

	page := &Page[T]{ID: strconv.Itoa(next), Items: items[start:end]}
	if end <= len(items)-1 {
		page.More = true
		page.Next = strconv.Itoa(next + 1)
	}
	return page, nil
}

// ParseCursor turns a next cursor back into a page index. The empty cursor is page 0.
func ParseCursor(next string) (int, error) {
	if next == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(next)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("next %q: %w", next, common.ErrInvalidArgument)
	}
	return n, nil
}
