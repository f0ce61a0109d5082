package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lehigh-university-libraries/shelfreport/internal/book"
	"github.com/lehigh-university-libraries/shelfreport/internal/tally"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParquetRoundTrip(t *testing.T) {
	records := []book.Record{
		{Title: "A Light in the Attic", Rating: book.Three, Price: "£51.77", ImageURL: "https://books.toscrape.com/media/a.jpg", ImagePath: "/tmp/images/A Light in the Attic.jpg"},
		{Title: "Sapiens", Rating: book.Five, Price: "£54.23"},
		{Title: book.NoTitle, Rating: book.NoRating, Price: book.ZeroPrice},
		{Title: "Sapiens", Rating: book.Five, Price: "£54.23"},
	}

	path := filepath.Join(t.TempDir(), "books.parquet")
	require.NoError(t, WriteParquet(path, records))

	got, err := ReadParquet(path)
	require.NoError(t, err)

	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("records differ after round trip (-want +got):\n%s", diff)
	}
}

type closeFailWriter struct {
	bytes.Buffer
	closed int
}

func (w *closeFailWriter) Close() error {
	w.closed++
	return errors.New("disk full")
}

func TestWriteRowsReportsCloseError(t *testing.T) {
	w := &closeFailWriter{}
	err := writeRows(w, []book.Record{{Title: "Sapiens", Rating: book.Five, Price: "£54.23"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close parquet file")
	assert.Equal(t, 1, w.closed)
	assert.NotZero(t, w.Len(), "rows were encoded before the close")
}

func TestWriteParquetMissingDir(t *testing.T) {
	err := WriteParquet(filepath.Join(t.TempDir(), "absent", "books.parquet"), nil)
	require.Error(t, err)
}

func TestParquetManyRows(t *testing.T) {
	var records []book.Record
	for i := 0; i < 300; i++ {
		records = append(records, book.Record{Title: "Book", Rating: book.RatingFromStars(i % 6), Price: "£1.00"})
	}

	path := filepath.Join(t.TempDir(), "many.parquet")
	require.NoError(t, WriteParquet(path, records))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	assert.Len(t, got, 300)
	assert.Equal(t, book.Five, got[5].Rating)
	assert.Equal(t, book.NoRating, got[6].Rating)
}

func TestReadParquetMissingFile(t *testing.T) {
	_, err := ReadParquet("/nonexistent/path/books.parquet")
	require.Error(t, err)
}

func TestReadParquetNotParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.parquet")
	require.NoError(t, os.WriteFile(path, []byte("definitely not parquet"), 0644))

	_, err := ReadParquet(path)
	require.Error(t, err)
}

func TestWriteManifest(t *testing.T) {
	counts := tally.Count([]book.Record{
		{Rating: book.Five}, {Rating: book.Five}, {Rating: book.One}, {Rating: book.NoRating},
	})

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, WriteManifest(path, Manifest{
		Timestamp:        "20261018_101500",
		BaseURL:          "https://books.toscrape.com/",
		PageLimit:        3,
		PagesScraped:     2,
		Records:          4,
		ImagesDownloaded: 3,
		ImagesMissing:    1,
		Unrated:          counts.Unrated,
		Ratings:          RatingsFrom(counts),
		Workbook:         "/out/books_20261018_101500.xlsx",
		ImageDir:         "/out/images",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded["pagesscraped"])
	assert.Equal(t, 1, decoded["unrated"])
	assert.NotContains(t, decoded, "parquet")

	ratings, ok := decoded["ratings"].([]any)
	require.True(t, ok)
	require.Len(t, ratings, 5)
	first := ratings[0].(map[string]any)
	assert.Equal(t, 5, first["stars"])
	assert.Equal(t, 2, first["count"])
}
