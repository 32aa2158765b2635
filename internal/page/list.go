package page

import (
	"net/url"
	"strconv"

	"github.com/palemoky/chinese-poetry-web/internal/record"
)

// ListItem is one row of the poem list.
type ListItem struct {
	Title  string
	Byline string
	Href   string
}

// ListView is everything the poem list template needs.
type ListView struct {
	SiteTitle  string
	Title      string
	Loading    bool
	Items      []ListItem
	Page       int
	TotalCount int
	PrevHref   string
	NextHref   string
}

// List composes the list page from a POEMS query result.
func (c *Composer) List(list *record.PoemList, page, pageSize int, loading bool) *ListView {
	view := &ListView{
		SiteTitle: c.opts.SiteTitle,
		Loading:   loading,
		Items:     []ListItem{},
		Page:      page,
	}
	if list == nil {
		return view
	}

	for _, edge := range list.Poems.Edges {
		poem := edge.Node
		view.Items = append(view.Items, ListItem{
			Title:  poem.GetTitle(),
			Byline: record.Lookup(&poem, "author.dynasty", "") + "·" + record.Lookup(&poem, "author.name", ""),
			Href:   PoemHref(poem.UUID),
		})
	}
	view.TotalCount = list.Poems.TotalCount

	if list.Poems.PageInfo.HasPreviousPage {
		view.PrevHref = listHref(page-1, pageSize)
	}
	if list.Poems.PageInfo.HasNextPage {
		view.NextHref = listHref(page+1, pageSize)
	}
	return view
}

// PoemHref returns the page path of a poem.
func PoemHref(uuid string) string {
	return "/poem?" + url.Values{"uuid": {uuid}}.Encode()
}

func listHref(page, pageSize int) string {
	return "/poems?" + url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}.Encode()
}
