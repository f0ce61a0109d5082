package tally

import (
	"io"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lehigh-university-libraries/shelfreport/internal/book"
)

// Sort orders records by title, placing titles that start with a letter
// before every title that does not. Within each group titles compare
// byte-wise. The sort is stable, so duplicate titles keep page order.
func Sort(records []book.Record) {
	slices.SortStableFunc(records, func(a, b book.Record) int {
		aAlpha, bAlpha := startsWithLetter(a.Title), startsWithLetter(b.Title)
		if aAlpha != bAlpha {
			if aAlpha {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Title, b.Title)
	})
}

func startsWithLetter(title string) bool {
	r, _ := utf8.DecodeRuneInString(title)
	return r != utf8.RuneError && unicode.IsLetter(r)
}

// LevelCount is one row of the rating summary
type LevelCount struct {
	Rating book.Rating
	Count  int
}

// Counts tallies records per star rating level
type Counts struct {
	byRating map[book.Rating]int
	Unrated  int
	Total    int
}

// Count tallies records over the five rating levels. Unrated records are
// kept out of the level counts and reported separately.
func Count(records []book.Record) Counts {
	c := Counts{
		byRating: make(map[book.Rating]int, len(book.Levels)),
		Total:    len(records),
	}

	for _, rec := range records {
		if rec.Rating.Stars() == 0 {
			c.Unrated++
			continue
		}
		c.byRating[rec.Rating]++
	}

	return c
}

// Of returns the number of records at a level
func (c Counts) Of(r book.Rating) int {
	return c.byRating[r]
}

// Levels returns the five levels with their counts, 5★ first
func (c Counts) Levels() []LevelCount {
	levels := make([]LevelCount, 0, len(book.Levels))
	for _, r := range book.Levels {
		levels = append(levels, LevelCount{Rating: r, Count: c.Of(r)})
	}
	return levels
}

// PrintSummary writes the rating distribution as a console table
func (c Counts) PrintSummary(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Star Rating", "Count"})

	for _, level := range c.Levels() {
		t.AppendRow(table.Row{level.Rating.Glyphs(), level.Count})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{book.NoRating.Glyphs(), c.Unrated})
	t.AppendFooter(table.Row{"Total", c.Total})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
