package pagination

import (
	"testing"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_NoLimitReturnsEverything(t *testing.T) {
	items := seq(7)
	p, err := Paginate(items, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, items, p.Items)
	assert.False(t, p.More)
	assert.Empty(t, p.Next)

	_, err = Paginate(items, 0, 1)
	assert.ErrorIs(t, err, common.ErrPageOutOfRange)
}

func TestPaginate_Boundary10By5(t *testing.T) {
	items := seq(10)

	first, err := Paginate(items, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, first.Items)
	assert.True(t, first.More)
	assert.Equal(t, "1", first.Next)
	assert.Equal(t, "0", first.ID)

	second, err := Paginate(items, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, second.Items)
	assert.False(t, second.More)
	assert.Empty(t, second.Next)
	assert.Equal(t, "1", second.ID)
}

func TestPaginate_LastItemAloneOnFinalPage(t *testing.T) {
	items := seq(6)

	first, err := Paginate(items, 5, 0)
	require.NoError(t, err)
	assert.True(t, first.More)

	last, err := Paginate(items, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.More)
}

func TestPaginate_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		limit int
		next  int
	}{
		{"exactly past end", 10, 5, 2},
		{"far past end", 10, 5, 100},
		{"empty sequence later page", 0, 5, 1},
		{"huge index", 3, 2, int(^uint(0) >> 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Paginate(seq(tt.n), tt.limit, tt.next)
			assert.ErrorIs(t, err, common.ErrPageOutOfRange)
			assert.Nil(t, p)
		})
	}
}

func TestPaginate_EmptyFirstPage(t *testing.T) {
	p, err := Paginate([]int{}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, p.Items)
	assert.False(t, p.More)
}

func TestPaginate_NegativeNext(t *testing.T) {
	_, err := Paginate(seq(3), 1, -1)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

// Following next from the first page must visit every item once, in order.
func TestPaginate_Completeness(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for limit := 1; limit <= n+2; limit++ {
			items := seq(n)

			var visited []int
			next := 0
			for pages := 0; ; pages++ {
				require.LessOrEqual(t, pages, n+1, "n=%d limit=%d does not terminate", n, limit)

				p, err := Paginate(items, limit, next)
				require.NoError(t, err, "n=%d limit=%d next=%d", n, limit, next)
				require.LessOrEqual(t, len(p.Items), limit)
				assert.Equal(t, p.More, p.Next != "")

				visited = append(visited, p.Items...)
				if !p.More {
					break
				}
				next, err = ParseCursor(p.Next)
				require.NoError(t, err)
			}

			if n == 0 {
				assert.Empty(t, visited)
			} else {
				assert.Equal(t, items, visited, "n=%d limit=%d", n, limit)
			}

			_, err := Paginate(items, limit, next+1)
			assert.ErrorIs(t, err, common.ErrPageOutOfRange, "n=%d limit=%d", n, limit)
		}
	}
}

func TestParseCursor(t *testing.T) {
	n, err := ParseCursor("")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ParseCursor("12")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"-1", "abc", "1.5"} {
		_, err := ParseCursor(bad)
		assert.ErrorIs(t, err, common.ErrInvalidArgument, bad)
	}
}
