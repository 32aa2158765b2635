package search

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/palemoky/chinese-poetry-web/internal/chinese"
	"github.com/palemoky/chinese-poetry-web/internal/database"
	"github.com/palemoky/chinese-poetry-web/internal/helpers"
)

// Engine handles all search operations
type Engine struct {
	db *database.DB
}

// NewEngine creates a new search engine
func NewEngine(db *database.DB) *Engine {
	return &Engine{db: db}
}

// SearchType defines the type of search
type SearchType string

const (
	SearchTypeAll     SearchType = "all"
	SearchTypeTitle   SearchType = "title"
	SearchTypeContent SearchType = "content"
	SearchTypeAuthor  SearchType = "author"
	SearchTypeKind    SearchType = "kind"
)

// ParseSearchType maps a query parameter to a search type, defaulting to all
func ParseSearchType(s string) SearchType {
	switch t := SearchType(strings.ToLower(s)); t {
	case SearchTypeTitle, SearchTypeContent, SearchTypeAuthor, SearchTypeKind:
		return t
	default:
		return SearchTypeAll
	}
}

// SearchParams contains search parameters
type SearchParams struct {
	Query      string
	SearchType SearchType
	Page       int
	PageSize   int
	Lang       database.Lang
}

// SearchResult contains search results
type SearchResult struct {
	Poems      []database.Poem
	TotalCount int
	HasMore    bool
}

// Search performs a search based on the given parameters.
// Poems are stored in simplified Chinese, so a traditional query is
// converted first and the results are returned in the requested variant.
func (e *Engine) Search(params SearchParams) (*SearchResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Page > helpers.MaxPage {
		params.Page = helpers.MaxPage
	}
	if params.PageSize < 1 {
		params.PageSize = helpers.DefaultPageSize
	}
	if params.PageSize > helpers.MaxPageSize {
		params.PageSize = helpers.MaxPageSize
	}

	query, err := chinese.ToSimplified(chinese.NormalizeText(params.Query))
	if err != nil {
		return nil, fmt.Errorf("failed to convert query: %w", err)
	}
	if query == "" {
		return &SearchResult{Poems: []database.Poem{}}, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	offset := (params.Page - 1) * params.PageSize

	var db *gorm.DB
	switch params.SearchType {
	case SearchTypeTitle:
		db = e.baseQuery().Where(`poems.title LIKE ? ESCAPE '\'`, pattern)
	case SearchTypeContent:
		db = e.baseQuery().Where(`poems.paragraphs LIKE ? ESCAPE '\'`, pattern)
	case SearchTypeAuthor:
		db = e.baseQuery().
			Joins("JOIN authors ON poems.author_id = authors.id").
			Where(`authors.name LIKE ? ESCAPE '\'`, pattern)
	case SearchTypeKind:
		db = e.baseQuery().Where(`poems.kind LIKE ? ESCAPE '\'`, pattern)
	default:
		db = e.baseQuery().
			Joins("LEFT JOIN authors ON poems.author_id = authors.id").
			Where(
				`poems.title LIKE ? ESCAPE '\' OR poems.paragraphs LIKE ? ESCAPE '\' OR authors.name LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern,
			)
	}

	db = db.Session(&gorm.Session{})

	var totalCount int64
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}

	var poems []database.Poem
	err = db.Select("poems.*").
		Preload("Author").
		Order("poems.id ASC").
		Limit(params.PageSize).Offset(offset).
		Find(&poems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search poems: %w", err)
	}

	repo := database.NewRepositoryWithLang(e.db, params.Lang)
	if err := repo.LocalizePoems(poems); err != nil {
		return nil, err
	}

	return &SearchResult{
		Poems:      poems,
		TotalCount: int(totalCount),
		HasMore:    offset+len(poems) < int(totalCount),
	}, nil
}

// baseQuery returns a query over the poems table
func (e *Engine) baseQuery() *gorm.DB {
	return e.db.Model(&database.Poem{})
}

// escapeLike escapes the LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
