package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/shelfreport/internal/book"
	"github.com/lehigh-university-libraries/shelfreport/internal/tally"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName = "Books Data"

	coverWidth   = 120
	coverHeight  = 160
	headerHeight = 80
	rowHeight    = 150

	summaryHeaderRow = 2
	chartTitle       = "Star Ratings Distribution"
	chartAnchor      = "J5"
)

// Headers of the book table, columns A..E
var Headers = []string{"SERIAL NO", "BOOK VIEW", "TITLE", "STAR RATING", "PRICE"}

var columnRegions = []struct {
	col    string
	region Region
}{
	{"A", RegionSerial},
	{"B", RegionImage},
	{"C", RegionTitle},
	{"D", RegionRating},
	{"E", RegionPrice},
}

var columnWidths = []struct {
	col   string
	width float64
}{
	{"A", 25}, {"B", 40}, {"C", 80}, {"D", 30}, {"E", 25}, {"G", 30}, {"H", 25},
}

// Renderer writes book records into a styled workbook
type Renderer struct {
	Styles Styles
}

// New creates a renderer with the default styles
func New() *Renderer {
	return &Renderer{Styles: DefaultStyles()}
}

// Render writes records (already sorted) and their rating counts to path.
// Covers are embedded only when the recorded file still exists; a missing
// or unreadable cover leaves that row without an image.
func (r *Renderer) Render(path string, records []book.Record, counts tally.Counts) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	styleIDs, err := r.Styles.register(f)
	if err != nil {
		return err
	}

	if err := writeHeader(f, styleIDs); err != nil {
		return err
	}

	for i, rec := range records {
		if err := writeRecord(f, styleIDs, i+2, i+1, rec); err != nil {
			return err
		}
	}

	for _, cw := range columnWidths {
		if err := f.SetColWidth(SheetName, cw.col, cw.col, cw.width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := writeSummary(f, styleIDs, counts); err != nil {
		return err
	}

	if err := addChart(f); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func writeHeader(f *excelize.File, styleIDs map[Region]int) error {
	for i, h := range Headers {
		cell := fmt.Sprintf("%s1", columnRegions[i].col)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", styleIDs[RegionHeader]); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetRowHeight(SheetName, 1, headerHeight); err != nil {
		return fmt.Errorf("failed to set header height: %w", err)
	}
	return nil
}

func writeRecord(f *excelize.File, styleIDs map[Region]int, row, serial int, rec book.Record) error {
	values := []any{serial, "", rec.Title, rec.Rating.Glyphs(), rec.Price}
	for i, v := range values {
		cell := fmt.Sprintf("%s%d", columnRegions[i].col, row)
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, styleIDs[columnRegions[i].region]); err != nil {
			return fmt.Errorf("failed to style row %d: %w", row, err)
		}
	}

	if err := f.SetRowHeight(SheetName, row, rowHeight); err != nil {
		return fmt.Errorf("failed to set row height: %w", err)
	}

	if rec.HasImage() {
		embedCover(f, fmt.Sprintf("B%d", row), rec)
	}

	return nil
}

// embedCover places the cover scaled to a fixed box. Problems with the
// file are logged and the cell is left empty.
func embedCover(f *excelize.File, cell string, rec book.Record) {
	data, err := os.ReadFile(rec.ImagePath)
	if err != nil {
		slog.Warn("Skipping cover that is no longer readable", "title", rec.Title, "path", rec.ImagePath, "error", err)
		return
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		slog.Warn("Skipping cover that could not be decoded", "title", rec.Title, "path", rec.ImagePath, "error", err)
		return
	}

	opts := &excelize.GraphicOptions{
		ScaleX:      float64(coverWidth) / float64(cfg.Width),
		ScaleY:      float64(coverHeight) / float64(cfg.Height),
		OffsetX:     10,
		OffsetY:     10,
		AltText:     rec.Title,
		Positioning: "oneCell",
	}
	if err := f.AddPicture(SheetName, cell, rec.ImagePath, opts); err != nil {
		slog.Warn("Skipping cover that could not be embedded", "title", rec.Title, "path", rec.ImagePath, "error", err)
	}
}

type summaryCell struct {
	cell   string
	value  any
	region Region
}

func writeSummary(f *excelize.File, styleIDs map[Region]int, counts tally.Counts) error {
	header := summaryHeaderRow
	cells := []summaryCell{
		{fmt.Sprintf("G%d", header), "STAR RATING", RegionSummaryHeader},
		{fmt.Sprintf("H%d", header), "COUNT", RegionSummaryHeader},
	}

	for i, level := range counts.Levels() {
		row := header + 1 + i
		cells = append(cells,
			summaryCell{fmt.Sprintf("G%d", row), level.Rating.Glyphs(), RegionSummaryLevel},
			summaryCell{fmt.Sprintf("H%d", row), level.Count, RegionSummaryCount},
		)
	}

	for _, c := range cells {
		if err := f.SetCellValue(SheetName, c.cell, c.value); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		if err := f.SetCellStyle(SheetName, c.cell, c.cell, styleIDs[c.region]); err != nil {
			return fmt.Errorf("failed to style summary: %w", err)
		}
	}

	return nil
}

func addChart(f *excelize.File) error {
	first := summaryHeaderRow + 1
	last := summaryHeaderRow + len(book.Levels)
	ref := func(col string, from, to int) string {
		return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", SheetName, col, from, col, to)
	}

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$H$%d", SheetName, summaryHeaderRow),
				Categories: ref("G", first, last),
				Values:     ref("H", first, last),
			},
		},
		Title: []excelize.RichTextRun{{Text: chartTitle}},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Star Rating"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Number of Books"}},
		},
		Legend:    excelize.ChartLegend{Position: "right"},
		Dimension: excelize.ChartDimension{Width: 480, Height: 320},
	}

	if err := f.AddChart(SheetName, chartAnchor, chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}
