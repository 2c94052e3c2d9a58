package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params is the normalized page window for a list query.
type Params struct {
	Offset   int
	Limit    int
	Page     int
	PageSize int
}

// Resolve normalizes page/pageSize query values: page defaults to 1,
// pageSize defaults to 20 and is capped at 100.
func Resolve(page, pageSize int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Params{
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
		Page:     page,
		PageSize: pageSize,
	}
}

// Page is the response envelope shared by every list endpoint.
type Page struct {
	Items      any   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// NewPage wraps items in the standard envelope.
func NewPage(items any, total int64, params Params) *Page {
	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	return &Page{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}
}
