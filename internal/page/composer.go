// Package page composes the poem and poem-list pages from fetched records and
// renders them with the leaf templates under templates/.
package page

import (
	"github.com/palemoky/chinese-poetry-web/internal/record"
)

// SectionKind selects the leaf component that renders a section.
type SectionKind string

const (
	// KindCard is a dedicated titled card over a text block.
	KindCard SectionKind = "card"
	// KindAnnotations is the titled annotation list.
	KindAnnotations SectionKind = "annotations"
	// KindParagraph is the generic Paragraph block over a text block.
	KindParagraph SectionKind = "paragraph"
)

// Section is one independently optional block of the poem page.
type Section struct {
	Kind        SectionKind
	Field       string
	Title       string
	Paragraphs  []string
	Annotations []record.Annotation
	Loading     bool
}

// Header is the always-present title card.
type Header struct {
	Title      string
	Byline     string
	Paragraphs []string
	Loading    bool
}

// AuthorBlurb is the author card of the side column.
type AuthorBlurb struct {
	Name     string
	Dynasty  string
	Lifespan string
	Intro    string
	Loading  bool
}

// PoemView is everything the poem template needs.
type PoemView struct {
	SiteTitle string
	Title     string
	Loading   bool
	Header    Header
	Sections  []Section
	Author    AuthorBlurb
	QR        *QRCode
}

// Options controls which of the two text-block rendering paths are emitted.
// Both are on by default; intro, appreciation and translation then appear twice.
type Options struct {
	SiteTitle       string
	DedicatedCards  bool
	ParagraphBlocks bool
}

// DefaultOptions reproduces the full observed layout.
func DefaultOptions() Options {
	return Options{
		SiteTitle:       "古诗文",
		DedicatedCards:  true,
		ParagraphBlocks: true,
	}
}

// Composer decides which sections of a poem page render and in what order.
type Composer struct {
	opts Options
}

// NewComposer creates a composer with the given options
func NewComposer(opts Options) *Composer {
	return &Composer{opts: opts}
}

// Poem composes the poem page. A nil poem is treated as an empty record.
func (c *Composer) Poem(poem *record.PoemRecord, loading bool) *PoemView {
	if poem == nil {
		poem = &record.PoemRecord{}
	}

	view := &PoemView{
		SiteTitle: c.opts.SiteTitle,
		Title:     poem.GetTitle(),
		Loading:   loading,
		Header: Header{
			Title:      poem.GetTitle(),
			Byline:     record.Lookup(poem, "author.dynasty", "") + "·" + record.Lookup(poem, "author.name", ""),
			Paragraphs: poem.GetParagraphs(),
			Loading:    loading,
		},
		Sections: []Section{},
		Author:   authorBlurb(poem.GetAuthor(), loading),
	}

	if c.opts.DedicatedCards {
		view.addText(KindCard, "intro", "简析", poem.Intro)
		view.addText(KindCard, "appreciation", "赏析", poem.Appreciation)
		view.addText(KindCard, "translation", "翻译", poem.Translation)
	}

	if annotations := poem.GetAnnotations(); len(annotations) > 0 {
		view.Sections = append(view.Sections, Section{
			Kind:        KindAnnotations,
			Field:       "annotations",
			Title:       "注释",
			Annotations: annotations,
			Loading:     loading,
		})
	}

	if c.opts.ParagraphBlocks {
		view.addText(KindParagraph, "translation", "翻译", poem.Translation)
		view.addText(KindParagraph, "intro", "简介", poem.Intro)
		view.addText(KindParagraph, "appreciation", "赏析", poem.Appreciation)
	}

	return view
}

// addText appends a text-block section when the block is present.
func (v *PoemView) addText(kind SectionKind, field, title string, block record.TextBlock) {
	if !block.Present() {
		return
	}
	v.Sections = append(v.Sections, Section{
		Kind:       kind,
		Field:      field,
		Title:      title,
		Paragraphs: block,
		Loading:    v.Loading,
	})
}

// SectionsFor returns the sections backed by the given record field.
func (v *PoemView) SectionsFor(field string) []Section {
	var out []Section
	for _, s := range v.Sections {
		if s.Field == field {
			out = append(out, s)
		}
	}
	return out
}

func authorBlurb(a *record.Author, loading bool) AuthorBlurb {
	return AuthorBlurb{
		Name:     a.GetName(),
		Dynasty:  a.GetDynasty(),
		Lifespan: a.Lifespan(),
		Intro:    a.GetIntro(),
		Loading:  loading,
	}
}
