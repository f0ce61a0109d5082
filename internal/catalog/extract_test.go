package catalog

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lehigh-university-libraries/shelfreport/internal/book"
	"github.com/stretchr/testify/require"
)

func mustParseURL(t testing.TB, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestExtract(t *testing.T) {
	page, err := os.ReadFile(filepath.Join("testdata", "page-1.html"))
	require.NoError(t, err)

	base := mustParseURL(t, "https://books.toscrape.com/")
	records, err := Extract(bytes.NewReader(page), base)
	require.NoError(t, err)

	expected := []book.Record{
		{
			Title:    "A Light in the Attic",
			Rating:   book.Three,
			Price:    "£51.77",
			ImageURL: "https://books.toscrape.com/media/cache/2c/da/2cdad67c44b002e7ead0cc35693c0e8b.jpg",
		},
		{
			Title:    "1984",
			Rating:   book.Five,
			Price:    "£17.90",
			ImageURL: "https://books.toscrape.com/media/cache/1984.jpg",
		},
		{
			Title:  book.NoTitle,
			Rating: book.NoRating,
			Price:  book.ZeroPrice,
		},
		{
			Title:    "Tipping the Velvet",
			Rating:   book.NoRating,
			Price:    book.ZeroPrice,
			ImageURL: "https://books.toscrape.com/media/cache/velvet.jpg",
		},
	}

	if diff := cmp.Diff(expected, records); diff != "" {
		t.Errorf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestExtractNoEntries(t *testing.T) {
	records, err := Extract(strings.NewReader("<html><body><p>nothing here</p></body></html>"), nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestExtractMissingAltUsesSentinel(t *testing.T) {
	html := `<article class="product_pod"><img src="x.jpg"><p class="star-rating"></p></article>`
	records, err := Extract(strings.NewReader(html), mustParseURL(t, "http://example.test/"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, book.NoTitle, records[0].Title)
	require.Equal(t, book.NoRating, records[0].Rating)
	require.Equal(t, "http://example.test/x.jpg", records[0].ImageURL)
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Sharp Objects", expected: "Sharp Objects"},
		{input: "  Sharp\n\tObjects  ", expected: "Sharp Objects"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, CleanTitle(tt.input))
		})
	}
}

func TestResolveImageURL(t *testing.T) {
	base := mustParseURL(t, "https://books.toscrape.com/")

	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{name: "parent segments", src: "../media/cache/a.jpg", expected: "https://books.toscrape.com/media/cache/a.jpg"},
		{name: "nested parents", src: "../../../media/b.jpg", expected: "https://books.toscrape.com/media/b.jpg"},
		{name: "rooted", src: "/media/c.jpg", expected: "https://books.toscrape.com/media/c.jpg"},
		{name: "absolute", src: "https://cdn.example.test/d.jpg", expected: "https://cdn.example.test/d.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, ResolveImageURL(base, tt.src))
		})
	}
}
