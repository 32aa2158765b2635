// Package loader reads poem records from JSON files for the importer.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/palemoky/chinese-poetry-web/internal/logger"
	"github.com/palemoky/chinese-poetry-web/internal/record"
)

// PoemData represents a poem from JSON.
// Besides the poem record shape it accepts the common dataset variants:
// "para" or "content" for the body, "rhythmic" for ci tune names and a plain
// string author with an optional top-level dynasty.
type PoemData struct {
	UUID         string              `json:"uuid"`
	Title        string              `json:"title"`
	Rhythmic     string              `json:"rhythmic,omitempty"`
	Paragraphs   record.TextBlock    `json:"paragraphs"`
	Para         record.TextBlock    `json:"para,omitempty"`
	Content      record.TextBlock    `json:"content,omitempty"`
	Intro        record.TextBlock    `json:"intro"`
	Appreciation record.TextBlock    `json:"appreciation"`
	Translation  record.TextBlock    `json:"translation"`
	Kind         string              `json:"kind"`
	Annotations  []record.Annotation `json:"annotations"`
	Author       AuthorField         `json:"author"`
	Dynasty      string              `json:"dynasty,omitempty"`

	// Source is the file the poem was read from
	Source string `json:"-"`
}

// Body returns the poem lines from whichever field carried them.
func (p *PoemData) Body() []string {
	switch {
	case len(p.Paragraphs) > 0:
		return p.Paragraphs
	case len(p.Para) > 0:
		return p.Para
	default:
		return p.Content
	}
}

// AuthorName returns the author name or "".
func (p *PoemData) AuthorName() string {
	if p.Author.Author == nil {
		return ""
	}
	return p.Author.Name
}

// AuthorField decodes either an author object or a bare author name.
type AuthorField struct {
	*record.Author
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AuthorField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Author = nil
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != "" {
			a.Author = &record.Author{Name: name}
		}
		return nil
	}

	var author record.Author
	if err := json.Unmarshal(data, &author); err != nil {
		return fmt.Errorf("author must be a string or an object: %w", err)
	}
	a.Author = &author
	return nil
}

// Load reads poems from a JSON file or from every .json file below a
// directory. Files that fail to parse are skipped with a warning when
// loading a directory; a single file must parse.
func Load(path string) ([]PoemData, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", path, err)
	}

	if !info.IsDir() {
		return loadJSONFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".json" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	sort.Strings(files)

	var poems []PoemData
	for _, file := range files {
		filePoems, err := loadJSONFile(file)
		if err != nil {
			logger.Warn("Skipping unreadable file", zap.String("file", file), zap.Error(err))
			continue
		}
		poems = append(poems, filePoems...)
	}

	return poems, nil
}

func loadJSONFile(path string) ([]PoemData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw []PoemData
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	poems := make([]PoemData, 0, len(raw))
	for _, poem := range raw {
		if len(poem.Body()) == 0 {
			continue
		}
		if poem.Author.Author != nil && poem.Author.Dynasty == "" {
			poem.Author.Dynasty = poem.Dynasty
		}
		poem.Source = path
		poems = append(poems, poem)
	}

	return poems, nil
}
