package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/shelfreport/internal/book"
	"github.com/parquet-go/parquet-go"
)

// RecordRow is the on-disk shape of a book record
type RecordRow struct {
	Title     string `parquet:"title"`
	Stars     int    `parquet:"stars"` // 0 when unrated
	Price     string `parquet:"price"`
	ImageURL  string `parquet:"image_url"`
	ImagePath string `parquet:"image_path"`
}

func toRow(rec book.Record) RecordRow {
	return RecordRow{
		Title:     rec.Title,
		Stars:     rec.Rating.Stars(),
		Price:     rec.Price,
		ImageURL:  rec.ImageURL,
		ImagePath: rec.ImagePath,
	}
}

func (r RecordRow) toRecord() book.Record {
	return book.Record{
		Title:     r.Title,
		Rating:    book.RatingFromStars(r.Stars),
		Price:     r.Price,
		ImageURL:  r.ImageURL,
		ImagePath: r.ImagePath,
	}
}

// WriteParquet saves records, in order, to a Parquet file
func WriteParquet(path string, records []book.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	if err := writeRows(file, records); err != nil {
		return err
	}

	slog.Debug("Wrote parquet export", "path", path, "rows", len(records))
	return nil
}

// writeRows encodes records into w and closes it. A failed close is an
// error since the file footer may not have reached disk.
func writeRows(w io.WriteCloser, records []book.Record) error {
	rows := make([]RecordRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toRow(rec))
	}

	writer := parquet.NewGenericWriter[RecordRow](w)
	if _, err := writer.Write(rows); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return nil
}

// ReadParquet loads records previously saved with WriteParquet
func ReadParquet(path string) ([]book.Record, error) {
	slog.Debug("Opening Parquet file", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[RecordRow](pf)
	defer reader.Close()

	records := make([]book.Record, 0, pf.NumRows())
	rows := make([]RecordRow, 128)

	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			records = append(records, row.toRecord())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return records, nil
}
