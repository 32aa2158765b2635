package database

import (
	"time"

	"gorm.io/datatypes"
)

// Author represents a poet
type Author struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex"     json:"name"`
	Dynasty   string    `gorm:"index"                    json:"dynasty,omitempty"`
	BirthYear *int      `                                json:"birth_year,omitempty"`
	DeathYear *int      `                                json:"death_year,omitempty"`
	Intro     *string   `                                json:"intro,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime"           json:"created_at"`
}

// TableName specifies the table name for Author
func (Author) TableName() string {
	return "authors"
}

// Annotation is a glossary-style note attached to a poem
type Annotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Poem represents a poem with its commentary blocks.
// Intro, Appreciation and Translation are stored as JSON lists; a nil list means
// the block is absent.
type Poem struct {
	ID           int64                           `gorm:"primaryKey;autoIncrement"     json:"id"`
	UUID         string                          `gorm:"size:36;not null;uniqueIndex" json:"uuid"`
	Title        string                          `gorm:"not null;index"               json:"title"`
	Paragraphs   datatypes.JSONSlice[string]     `gorm:"not null"                     json:"paragraphs"`
	Intro        datatypes.JSONSlice[string]     `                                    json:"intro,omitempty"`
	Appreciation datatypes.JSONSlice[string]     `                                    json:"appreciation,omitempty"`
	Translation  datatypes.JSONSlice[string]     `                                    json:"translation,omitempty"`
	Kind         string                          `gorm:"index"                        json:"kind,omitempty"`
	Annotations  datatypes.JSONSlice[Annotation] `                                    json:"annotations"`
	AuthorID     *int64                          `gorm:"index"                        json:"author_id,omitempty"`
	Author       *Author                         `gorm:"foreignKey:AuthorID"          json:"author,omitempty"`
	CreatedAt    time.Time                       `gorm:"autoCreateTime"               json:"created_at"`
}

// TableName specifies the table name for Poem
func (Poem) TableName() string {
	return "poems"
}

// KindWithStats includes statistics
type KindWithStats struct {
	Kind      string `json:"kind"`
	PoemCount int    `json:"poem_count"`
}

// DynastyWithStats includes statistics
type DynastyWithStats struct {
	Dynasty     string `json:"dynasty"`
	PoemCount   int    `json:"poem_count"`
	AuthorCount int    `json:"author_count"`
}

// Statistics holds overall statistics
type Statistics struct {
	TotalPoems     int                `json:"total_poems"`
	TotalAuthors   int                `json:"total_authors"`
	PoemsByDynasty []DynastyWithStats `json:"poems_by_dynasty"`
	PoemsByKind    []KindWithStats    `json:"poems_by_kind"`
}

// PageInfo represents pagination information
type PageInfo struct {
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
	StartCursor     *string `json:"start_cursor,omitempty"`
	EndCursor       *string `json:"end_cursor,omitempty"`
}

// PoemConnection represents a paginated list of poems
type PoemConnection struct {
	Edges      []PoemEdge `json:"edges"`
	PageInfo   PageInfo   `json:"page_info"`
	TotalCount int        `json:"total_count"`
}

// PoemEdge represents a single poem in a connection
type PoemEdge struct {
	Node   Poem   `json:"node"`
	Cursor string `json:"cursor"`
}
