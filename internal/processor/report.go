package processor

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/palemoky/chinese-poetry-web/internal/database"
)

// WriteReport renders the run summary and the database totals as tables
func WriteReport(w io.Writer, run *Stats, db *database.Statistics) error {
	fmt.Fprintln(w, "\n=== Import Summary ===")
	summary := tablewriter.NewWriter(w)
	summary.Header("Loaded", "Inserted", "Duplicates", "Failed")
	if err := summary.Append([]string{
		strconv.FormatInt(run.Total, 10),
		strconv.FormatInt(run.Inserted, 10),
		strconv.FormatInt(run.Duplicates, 10),
		strconv.FormatInt(run.Failed, 10),
	}); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== Database Statistics ===")
	totals := tablewriter.NewWriter(w)
	totals.Header("Dynasty", "Poems", "Authors")
	for _, d := range db.PoemsByDynasty {
		if err := totals.Append([]string{d.Dynasty, strconv.Itoa(d.PoemCount), strconv.Itoa(d.AuthorCount)}); err != nil {
			return err
		}
	}
	if err := totals.Append([]string{"Total", strconv.Itoa(db.TotalPoems), strconv.Itoa(db.TotalAuthors)}); err != nil {
		return err
	}
	if err := totals.Render(); err != nil {
		return err
	}

	if len(db.PoemsByKind) == 0 {
		return nil
	}

	kinds := tablewriter.NewWriter(w)
	kinds.Header("Kind", "Poems")
	for _, k := range db.PoemsByKind {
		if err := kinds.Append([]string{k.Kind, strconv.Itoa(k.PoemCount)}); err != nil {
			return err
		}
	}
	return kinds.Render()
}
