// Package record defines the poem shape returned by the POEM query, as seen
// by the page layer. Every field is optional and all accessors are nil-safe.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// TextBlock is a commentary field that may be absent, a single string or a
// list of strings. It always decodes to a list; absent and empty decode to nil.
type TextBlock []string

// UnmarshalJSON accepts null, a string or an array of scalars.
func (b *TextBlock) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*b = nil
			return nil
		}
		*b = TextBlock{s}
		return nil
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		lines := make(TextBlock, 0, len(items))
		for _, item := range items {
			switch v := item.(type) {
			case nil:
				continue
			case string:
				lines = append(lines, v)
			default:
				lines = append(lines, fmt.Sprint(v))
			}
		}
		if len(lines) == 0 {
			lines = nil
		}
		*b = lines
		return nil
	default:
		return fmt.Errorf("text block: unsupported JSON value %s", string(data))
	}
}

// Present reports whether the block has anything to render.
func (b TextBlock) Present() bool {
	return len(b) > 0
}

// Annotation is a glossary-style note.
type Annotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Author is the optional nested author record.
type Author struct {
	Name      string `json:"name"`
	Dynasty   string `json:"dynasty"`
	BirthYear *int   `json:"birthYear"`
	DeathYear *int   `json:"deathYear"`
	Intro     string `json:"intro"`
}

// PoemRecord is one poem and its metadata.
type PoemRecord struct {
	ID           string       `json:"id"`
	UUID         string       `json:"uuid"`
	Title        string       `json:"title"`
	Paragraphs   []string     `json:"paragraphs"`
	Intro        TextBlock    `json:"intro"`
	Appreciation TextBlock    `json:"appreciation"`
	Translation  TextBlock    `json:"translation"`
	Kind         string       `json:"kind"`
	Annotations  []Annotation `json:"annotations"`
	Author       *Author      `json:"author"`
}

// GetTitle returns the title or "" for a nil record.
func (p *PoemRecord) GetTitle() string {
	if p == nil {
		return ""
	}
	return p.Title
}

// GetParagraphs returns the poem body or nil for a nil record.
func (p *PoemRecord) GetParagraphs() []string {
	if p == nil {
		return nil
	}
	return p.Paragraphs
}

// GetAnnotations returns the annotations, defaulting to an empty list.
func (p *PoemRecord) GetAnnotations() []Annotation {
	if p == nil || p.Annotations == nil {
		return []Annotation{}
	}
	return p.Annotations
}

// GetAuthor returns the nested author, or nil.
func (p *PoemRecord) GetAuthor() *Author {
	if p == nil {
		return nil
	}
	return p.Author
}

// GetName returns the author name or "".
func (a *Author) GetName() string {
	if a == nil {
		return ""
	}
	return a.Name
}

// GetDynasty returns the author dynasty or "".
func (a *Author) GetDynasty() string {
	if a == nil {
		return ""
	}
	return a.Dynasty
}

// GetIntro returns the author biography or "".
func (a *Author) GetIntro() string {
	if a == nil {
		return ""
	}
	return a.Intro
}

// Lifespan formats birth and death years as "701–762". Unknown ends render as
// "?"; it returns "" when both are unknown.
func (a *Author) Lifespan() string {
	if a == nil || (a.BirthYear == nil && a.DeathYear == nil) {
		return ""
	}
	year := func(y *int) string {
		if y == nil {
			return "?"
		}
		return strconv.Itoa(*y)
	}
	return year(a.BirthYear) + "–" + year(a.DeathYear)
}

// Lookup resolves a dotted path such as "author.dynasty" against the record,
// returning def when any link of the path is absent or empty.
func Lookup(p *PoemRecord, path, def string) string {
	var v string
	switch path {
	case "title":
		v = p.GetTitle()
	case "uuid":
		if p != nil {
			v = p.UUID
		}
	case "kind":
		if p != nil {
			v = p.Kind
		}
	case "author.name":
		v = p.GetAuthor().GetName()
	case "author.dynasty":
		v = p.GetAuthor().GetDynasty()
	case "author.intro":
		v = p.GetAuthor().GetIntro()
	}
	if v == "" {
		return def
	}
	return v
}

// PoemResponse is the data payload of the POEM query.
type PoemResponse struct {
	Poem *PoemRecord `json:"poem"`
}

// PoemEdge wraps one poem of a POEMS page.
type PoemEdge struct {
	Node PoemRecord `json:"node"`
}

// PageInfo tells whether neighbouring pages exist.
type PageInfo struct {
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// PoemList is the data payload of the POEMS query.
type PoemList struct {
	Poems struct {
		Edges      []PoemEdge `json:"edges"`
		PageInfo   PageInfo   `json:"pageInfo"`
		TotalCount int        `json:"totalCount"`
	} `json:"poems"`
}
