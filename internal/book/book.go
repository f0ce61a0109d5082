package book

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// NoTitle is used when a listing entry carries no cover image alt text
	NoTitle = "NO TITLE"

	// ZeroPrice is used when the price is missing or unparsable
	ZeroPrice = "£0.00"

	noRatingLabel = "No Rating"
	starGlyph     = "⭐"
)

// Rating is the star rating level of a book, or NoRating
type Rating int

const (
	NoRating Rating = iota
	One
	Two
	Three
	Four
	Five
)

// Levels lists the five rating levels in descending order (5★ first)
var Levels = []Rating{Five, Four, Three, Two, One}

var ratingTokens = map[string]Rating{
	"One":   One,
	"Two":   Two,
	"Three": Three,
	"Four":  Four,
	"Five":  Five,
}

// ParseRating maps a rating class token ("One".."Five") to a Rating.
// Anything else is NoRating.
func ParseRating(token string) Rating {
	if r, ok := ratingTokens[strings.TrimSpace(token)]; ok {
		return r
	}
	return NoRating
}

// RatingFromStars is the inverse of Stars. Out of range values are NoRating.
func RatingFromStars(n int) Rating {
	if n < int(One) || n > int(Five) {
		return NoRating
	}
	return Rating(n)
}

// Stars returns the numeric level, 0 for NoRating
func (r Rating) Stars() int {
	if r < One || r > Five {
		return 0
	}
	return int(r)
}

// Glyphs renders the rating as repeated star glyphs
func (r Rating) Glyphs() string {
	if r.Stars() == 0 {
		return noRatingLabel
	}
	return strings.Repeat(starGlyph, r.Stars())
}

func (r Rating) String() string {
	return r.Glyphs()
}

// Record is a normalized book entry taken from a catalogue page
type Record struct {
	Title     string
	Rating    Rating
	Price     string
	ImageURL  string
	ImagePath string
}

// HasImage reports whether a cover was downloaded for the record
func (r Record) HasImage() bool {
	return r.ImagePath != ""
}

// FormatPrice parses a price label such as "£51.77" and reformats it with
// exactly two fractional digits. The first rune is treated as the currency
// prefix. Missing or unparsable input yields ZeroPrice.
func FormatPrice(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ZeroPrice
	}

	runes := []rune(text)
	amount, err := strconv.ParseFloat(strings.TrimSpace(string(runes[1:])), 64)
	if err != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ZeroPrice
	}

	return fmt.Sprintf("£%.2f", amount)
}
