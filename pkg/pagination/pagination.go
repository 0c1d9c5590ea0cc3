package pagination

const (
	// DefaultSize is the standard page size when one is not provided.
	DefaultSize = 20
	// MaxSize caps how many rows any paged query can request.
	MaxSize = 100
)

// Params holds offset pagination inputs from controllers or services.
// Page is zero-based.
type Params struct {
	Page int
	Size int
}

// Normalize enforces the configured defaults and maximum size.
func (p Params) Normalize() Params {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultSize
	}
	if p.Size > MaxSize {
		p.Size = MaxSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	return p.Page * p.Size
}

// Page wraps one page of results with its envelope metadata.
type Page[T any] struct {
	Items      []T   `json:"items"`
	PageNum    int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

// NewPage assembles the envelope for the given slice and total count.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int64(0)
	if params.Size > 0 {
		pages = (total + int64(params.Size) - 1) / int64(params.Size)
	}
	return Page[T]{
		Items:      items,
		PageNum:    params.Page,
		Size:       params.Size,
		TotalItems: total,
		TotalPages: pages,
	}
}
