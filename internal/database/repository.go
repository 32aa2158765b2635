package database

import (
	"errors"
	"fmt"

	"github.com/vbauerster/mpb/v8"
	"gorm.io/gorm"

	"github.com/palemoky/chinese-poetry-web/internal/chinese"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("record not found")

// RepositoryInterface defines the repository operations used by the import pipeline
type RepositoryInterface interface {
	GetOrCreateAuthor(author *Author) (int64, error)
	InsertPoem(poem *Poem) error
	BatchInsertPoems(poems []*Poem, batchSize int) error
	BatchInsertPoemsWithTransaction(poems []*Poem, transactionSize, batchSize int, progress *mpb.Progress) error
	CountPoems() (int, error)
	CountAuthors() (int, error)
}

// Repository handles database operations
type Repository struct {
	db   *DB
	lang Lang
}

// NewRepository creates a new repository returning simplified Chinese text
func NewRepository(db *DB) *Repository {
	return &Repository{db: db, lang: LangHans}
}

// NewRepositoryWithLang creates a repository returning text in the given variant
func NewRepositoryWithLang(db *DB, lang Lang) *Repository {
	return &Repository{db: db, lang: lang.Default()}
}

// WithLang returns a copy of the repository bound to another language variant
func (r *Repository) WithLang(lang Lang) *Repository {
	return NewRepositoryWithLang(r.db, lang)
}

// Lang returns the language variant of the repository
func (r *Repository) Lang() Lang {
	return r.lang
}

// GetPoemByUUID retrieves a poem by UUID with its author preloaded
func (r *Repository) GetPoemByUUID(uuid string) (*Poem, error) {
	var poem Poem
	err := r.db.Preload("Author").Where("uuid = ?", uuid).First(&poem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.localize(&poem); err != nil {
		return nil, err
	}
	return &poem, nil
}

// ListPoems returns a page of poems ordered by insertion, plus the total count
func (r *Repository) ListPoems(limit, offset int) ([]Poem, int, error) {
	var total int64
	if err := r.db.Model(&Poem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var poems []Poem
	err := r.db.Preload("Author").
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&poems).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range poems {
		if err := r.localize(&poems[i]); err != nil {
			return nil, 0, err
		}
	}
	return poems, int(total), nil
}

// LocalizePoems converts poems loaded outside the repository to its language
func (r *Repository) LocalizePoems(poems []Poem) error {
	for i := range poems {
		if err := r.localize(&poems[i]); err != nil {
			return err
		}
	}
	return nil
}

// localize converts the text fields of a poem to the repository language.
// Poems are stored in simplified Chinese.
func (r *Repository) localize(poem *Poem) error {
	if r.lang != LangHant {
		return nil
	}

	var err error
	convert := func(s string) string {
		if err != nil {
			return s
		}
		var out string
		out, err = chinese.ToTraditional(s)
		return out
	}
	convertLines := func(lines []string) []string {
		if err != nil {
			return lines
		}
		var out []string
		out, err = chinese.LinesToTraditional(lines)
		return out
	}

	poem.Title = convert(poem.Title)
	poem.Kind = convert(poem.Kind)
	poem.Paragraphs = convertLines(poem.Paragraphs)
	poem.Intro = convertLines(poem.Intro)
	poem.Appreciation = convertLines(poem.Appreciation)
	poem.Translation = convertLines(poem.Translation)
	for i := range poem.Annotations {
		poem.Annotations[i].Key = convert(poem.Annotations[i].Key)
		poem.Annotations[i].Value = convert(poem.Annotations[i].Value)
	}
	if poem.Author != nil {
		poem.Author.Name = convert(poem.Author.Name)
		poem.Author.Dynasty = convert(poem.Author.Dynasty)
		if poem.Author.Intro != nil {
			intro := convert(*poem.Author.Intro)
			poem.Author.Intro = &intro
		}
	}

	if err != nil {
		return fmt.Errorf("failed to convert poem %s: %w", poem.UUID, err)
	}
	return nil
}
