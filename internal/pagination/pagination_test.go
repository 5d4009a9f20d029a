package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPagination(t *testing.T) {
	p := New(20)

	limit, offset := p.Pagination(0, 10)
	require.Equal(t, 10, limit)
	require.Equal(t, 0, offset)

	limit, offset = p.Pagination(3, 10)
	require.Equal(t, 10, limit)
	require.Equal(t, 30, offset)

	// Size 0 falls back to the configured default.
	limit, offset = p.Pagination(2, 0)
	require.Equal(t, 20, limit)
	require.Equal(t, 40, offset)
}

func TestPaginationDefaultSizeGuard(t *testing.T) {
	p := New(0)
	limit, _ := p.Pagination(0, 0)
	require.Equal(t, 20, limit)

	p = New(5)
	limit, _ = p.Pagination(0, 0)
	require.Equal(t, 5, limit)
}

func TestPagingData(t *testing.T) {
	assets := []int{1, 2, 3}

	page := PagingData(assets, 25, 1, 10)
	require.Equal(t, 10, page.Limit)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 1, page.CurrentPage)
	require.EqualValues(t, 25, page.TotalItems)
	require.Equal(t, assets, page.Assets)

	page = PagingData(assets, 0, 0, 10)
	require.Equal(t, 0, page.TotalPages)
}
