package report

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/shelfreport/internal/book"
	"github.com/lehigh-university-libraries/shelfreport/internal/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCover(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 80))
	for x := 0; x < 60; x++ {
		for y := 0; y < 80; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()
	require.NoError(t, jpeg.Encode(out, img, nil))
	return path
}

func renderAndOpen(t *testing.T, records []book.Record) *excelize.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.xlsx")
	require.NoError(t, New().Render(path, records, tally.Count(records)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cellValue(t *testing.T, f *excelize.File, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(SheetName, cell)
	require.NoError(t, err)
	return v
}

func TestRenderLayout(t *testing.T) {
	dir := t.TempDir()
	records := []book.Record{
		{Title: "Apple", Rating: book.Five, Price: "£10.00", ImagePath: writeCover(t, dir, "Apple.jpg")},
		{Title: "Zebra", Rating: book.Two, Price: "£3.50"},
		{Title: "1984", Rating: book.NoRating, Price: book.ZeroPrice},
	}

	f := renderAndOpen(t, records)

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	for i, h := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		assert.Equal(t, h, cellValue(t, f, cell))
	}

	assert.Equal(t, "1", cellValue(t, f, "A2"))
	assert.Equal(t, "Apple", cellValue(t, f, "C2"))
	assert.Equal(t, "⭐⭐⭐⭐⭐", cellValue(t, f, "D2"))
	assert.Equal(t, "£10.00", cellValue(t, f, "E2"))

	assert.Equal(t, "2", cellValue(t, f, "A3"))
	assert.Equal(t, "Zebra", cellValue(t, f, "C3"))
	assert.Equal(t, "⭐⭐", cellValue(t, f, "D3"))

	assert.Equal(t, "3", cellValue(t, f, "A4"))
	assert.Equal(t, "No Rating", cellValue(t, f, "D4"))
	assert.Equal(t, "£0.00", cellValue(t, f, "E4"))
}

func TestRenderSummaryTable(t *testing.T) {
	var records []book.Record
	for i := 0; i < 4; i++ {
		records = append(records, book.Record{Title: "Five", Rating: book.ParseRating("Five"), Price: "£1.00"})
	}
	records = append(records,
		book.Record{Title: "Three", Rating: book.Three, Price: "£1.00"},
		book.Record{Title: "None", Rating: book.NoRating, Price: "£1.00"},
	)

	f := renderAndOpen(t, records)

	assert.Equal(t, "STAR RATING", cellValue(t, f, "G2"))
	assert.Equal(t, "COUNT", cellValue(t, f, "H2"))

	expected := []struct {
		glyphs string
		count  string
	}{
		{"⭐⭐⭐⭐⭐", "4"},
		{"⭐⭐⭐⭐", "0"},
		{"⭐⭐⭐", "1"},
		{"⭐⭐", "0"},
		{"⭐", "0"},
	}
	for i, e := range expected {
		row := 3 + i
		g, err := excelize.CoordinatesToCellName(7, row)
		require.NoError(t, err)
		h, err := excelize.CoordinatesToCellName(8, row)
		require.NoError(t, err)
		assert.Equal(t, e.glyphs, cellValue(t, f, g))
		assert.Equal(t, e.count, cellValue(t, f, h))
	}
}

func TestRenderEmbedsExistingCover(t *testing.T) {
	dir := t.TempDir()
	records := []book.Record{
		{Title: "Has Cover", Rating: book.One, Price: "£1.00", ImagePath: writeCover(t, dir, "cover.jpg")},
	}

	f := renderAndOpen(t, records)

	pics, err := f.GetPictures(SheetName, "B2")
	require.NoError(t, err)
	assert.Len(t, pics, 1)
}

func TestRenderSkipsMissingCover(t *testing.T) {
	dir := t.TempDir()
	gone := writeCover(t, dir, "gone.jpg")
	require.NoError(t, os.Remove(gone))

	records := []book.Record{
		{Title: "Gone", Rating: book.Four, Price: "£2.00", ImagePath: gone},
		{Title: "Kept", Rating: book.Four, Price: "£2.00", ImagePath: writeCover(t, dir, "kept.jpg")},
	}

	f := renderAndOpen(t, records)

	pics, err := f.GetPictures(SheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, pics)

	pics, err = f.GetPictures(SheetName, "B3")
	require.NoError(t, err)
	assert.Len(t, pics, 1)

	assert.Equal(t, "Kept", cellValue(t, f, "C3"))
}

func TestRenderSkipsUndecodableCover(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.jpg")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0644))

	f := renderAndOpen(t, []book.Record{{Title: "Bogus", Rating: book.One, Price: "£1.00", ImagePath: bogus}})

	pics, err := f.GetPictures(SheetName, "B2")
	require.NoError(t, err)
	assert.Empty(t, pics)
}

func TestRenderBordersEveryDataCell(t *testing.T) {
	records := []book.Record{{Title: "Bordered", Rating: book.Three, Price: "£9.99"}}
	f := renderAndOpen(t, records)

	for _, col := range []string{"A", "B", "C", "D", "E"} {
		for _, row := range []string{"1", "2"} {
			id, err := f.GetCellStyle(SheetName, col+row)
			require.NoError(t, err)
			style, err := f.GetStyle(id)
			require.NoError(t, err)
			assert.NotEmpty(t, style.Border, "cell %s%s", col, row)
		}
	}
}

func TestRenderEmptyRecords(t *testing.T) {
	f := renderAndOpen(t, nil)
	assert.Equal(t, "SERIAL NO", cellValue(t, f, "A1"))
	assert.Equal(t, "", cellValue(t, f, "A2"))
	assert.Equal(t, "0", cellValue(t, f, "H3"))
}

func TestStylesCoverEveryRegion(t *testing.T) {
	styles := DefaultStyles()
	for _, region := range Regions {
		_, ok := styles[region]
		assert.True(t, ok, "missing style for %s", region)
	}

	header := styles[RegionHeader]
	body := styles[RegionTitle]
	summary := styles[RegionSummaryHeader]
	assert.NotEqual(t, header.Fill.Color, body.Fill.Color)
	assert.NotEqual(t, header.Fill.Color, summary.Fill.Color)
}

func TestRenderRejectsIncompleteStyles(t *testing.T) {
	r := &Renderer{Styles: Styles{RegionHeader: DefaultStyles()[RegionHeader]}}
	err := r.Render(filepath.Join(t.TempDir(), "x.xlsx"), nil, tally.Count(nil))
	require.Error(t, err)
}
