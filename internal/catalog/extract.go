package catalog

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lehigh-university-libraries/shelfreport/internal/book"
)

// Extract parses a listing page into book records. Missing pieces of an
// entry fall back to the book package defaults; only an unreadable
// document is an error.
func Extract(body io.Reader, base *url.URL) ([]book.Record, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalogue page: %w", err)
	}

	var records []book.Record
	doc.Find("article.product_pod").Each(func(_ int, article *goquery.Selection) {
		records = append(records, extractRecord(article, base))
	})

	return records, nil
}

func extractRecord(article *goquery.Selection, base *url.URL) book.Record {
	rec := book.Record{
		Title:  book.NoTitle,
		Rating: book.NoRating,
		Price:  book.ZeroPrice,
	}

	img := article.Find("img").First()
	if img.Length() > 0 {
		if title := CleanTitle(img.AttrOr("alt", "")); title != "" {
			rec.Title = title
		}
		if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
			rec.ImageURL = ResolveImageURL(base, src)
		}
	}

	star := article.Find("p.star-rating").First()
	if star.Length() > 0 {
		classes := strings.Fields(star.AttrOr("class", ""))
		if len(classes) > 1 {
			rec.Rating = book.ParseRating(classes[1])
		}
	}

	price := article.Find("p.price_color").First()
	if price.Length() > 0 {
		rec.Price = book.FormatPrice(price.Text())
	}

	return rec
}

// CleanTitle collapses whitespace runs into single spaces and trims the result
func CleanTitle(alt string) string {
	return strings.Join(strings.Fields(alt), " ")
}

// ResolveImageURL drops parent directory segments from a relative image
// source and resolves it against the site root.
func ResolveImageURL(base *url.URL, src string) string {
	src = strings.ReplaceAll(strings.TrimSpace(src), "../", "")
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
