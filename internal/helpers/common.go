package helpers

import (
	"strconv"

	"github.com/palemoky/chinese-poetry-web/internal/database"
)

const (
	// DefaultPageSize is used when a request carries no usable page size
	DefaultPageSize = 20
	// MaxPageSize caps every page size accepted from clients
	MaxPageSize = 100
	// MaxPage caps the page number so offsets stay in range
	MaxPage = 1 << 20
)

// ParseLangPointer converts an optional language tag to Lang
// Returns simplified Chinese if the pointer is nil
func ParseLangPointer(lang *string) database.Lang {
	if lang == nil {
		return database.LangHans
	}
	return database.ParseLang(*lang)
}

// Pagination represents pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination creates a new Pagination with validation
// Ensures page between 1 and MaxPage, pageSize between 1-100, defaults to page=1, pageSize=20
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// PaginationFromPointers builds a Pagination from optional GraphQL arguments
func PaginationFromPointers(page, pageSize *int) *Pagination {
	p, ps := 0, 0
	if page != nil {
		p = *page
	}
	if pageSize != nil {
		ps = *pageSize
	}
	return NewPagination(p, ps)
}

// Offset calculates the database offset for the current page
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// BuildPoemConnection creates a PoemConnection from a page of poems.
// Cursors are the absolute offsets of the poems within the full listing.
func BuildPoemConnection(poems []database.Poem, pag *Pagination, totalCount int) *database.PoemConnection {
	offset := pag.Offset()
	edges := make([]database.PoemEdge, len(poems))
	for i, poem := range poems {
		edges[i] = database.PoemEdge{
			Node:   poem,
			Cursor: strconv.Itoa(offset + i),
		}
	}

	var startCursor, endCursor *string
	if len(edges) > 0 {
		start := edges[0].Cursor
		end := edges[len(edges)-1].Cursor
		startCursor = &start
		endCursor = &end
	}

	return &database.PoemConnection{
		Edges: edges,
		PageInfo: database.PageInfo{
			HasNextPage:     offset+len(poems) < totalCount,
			HasPreviousPage: pag.Page > 1,
			StartCursor:     startCursor,
			EndCursor:       endCursor,
		},
		TotalCount: totalCount,
	}
}
