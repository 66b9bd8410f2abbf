package model

// SortDirection orders listing results.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Pagination carries page selection for listing queries.
// Page is zero-based; Size is the page length.
type Pagination struct {
	Page      int
	Size      int
	Direction SortDirection
}

// Offset returns the row offset for the selected page.
func (p Pagination) Offset() int {
	if p.Page < 0 {
		return 0
	}
	return p.Page * p.Size
}

// Normalize clamps pagination to sane bounds using the provided default size.
func (p Pagination) Normalize(defaultSize int) Pagination {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = defaultSize
	}
	if p.Direction != SortAsc && p.Direction != SortDesc {
		p.Direction = SortDesc
	}
	return p
}
