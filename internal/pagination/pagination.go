package pagination

import "math"

// Pager computes limit/offset pairs for zero-based pages. The default
// page size is fixed at construction time.
type Pager struct {
	defaultSize int
}

func New(defaultSize int) *Pager {
	if defaultSize <= 0 {
		defaultSize = 20
	}
	return &Pager{defaultSize: defaultSize}
}

func (p *Pager) Pagination(page, size int) (limit, offset int) {
	limit = size
	if limit <= 0 {
		limit = p.defaultSize
	}
	if page > 0 {
		offset = page * limit
	}
	return limit, offset
}

type Page struct {
	Limit       int         `json:"limit"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
	TotalItems  int64       `json:"totalItems"`
	Assets      interface{} `json:"assets"`
}

func PagingData(assets interface{}, totalItems int64, page, limit int) Page {
	if page < 0 {
		page = 0
	}
	return Page{
		Limit:       limit,
		TotalPages:  int(math.Ceil(float64(totalItems) / float64(limit))),
		CurrentPage: page,
		TotalItems:  totalItems,
		Assets:      assets,
	}
}
