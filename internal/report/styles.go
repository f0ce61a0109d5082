package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Region names a part of the sheet that shares one cell style
type Region string

const (
	RegionHeader        Region = "header"
	RegionSerial        Region = "serial"
	RegionImage         Region = "image"
	RegionTitle         Region = "title"
	RegionRating        Region = "rating"
	RegionPrice         Region = "price"
	RegionSummaryHeader Region = "summary_header"
	RegionSummaryLevel  Region = "summary_level"
	RegionSummaryCount  Region = "summary_count"
)

// Regions lists every region a style map must cover
var Regions = []Region{
	RegionHeader,
	RegionSerial,
	RegionImage,
	RegionTitle,
	RegionRating,
	RegionPrice,
	RegionSummaryHeader,
	RegionSummaryLevel,
	RegionSummaryCount,
}

// Styles maps each sheet region to its cell style
type Styles map[Region]excelize.Style

// thick black border on all four sides
var cellBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 5},
	{Type: "right", Color: "000000", Style: 5},
	{Type: "top", Color: "000000", Style: 5},
	{Type: "bottom", Color: "000000", Style: 5},
}

var centered = &excelize.Alignment{
	Horizontal: "center",
	Vertical:   "center",
	WrapText:   true,
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

func regionStyle(font *excelize.Font, fill string) excelize.Style {
	s := excelize.Style{
		Border:    cellBorder,
		Font:      font,
		Alignment: centered,
	}
	if fill != "" {
		s.Fill = solidFill(fill)
	}
	return s
}

// DefaultStyles returns the stock look: dark blue header, tinted serial,
// title and price columns, gold stars and an indigo summary header.
func DefaultStyles() Styles {
	body := &excelize.Font{Bold: true, Size: 18}
	gold := &excelize.Font{Bold: true, Size: 18, Color: "FFD700"}

	return Styles{
		RegionHeader:        regionStyle(&excelize.Font{Bold: true, Size: 18, Color: "FFFFFF"}, "00008B"),
		RegionSerial:        regionStyle(body, "C0C0C0"),
		RegionImage:         regionStyle(nil, ""),
		RegionTitle:         regionStyle(body, "ADD8E6"),
		RegionRating:        regionStyle(gold, ""),
		RegionPrice:         regionStyle(body, "FFDDC1"),
		RegionSummaryHeader: regionStyle(&excelize.Font{Bold: true, Size: 16, Color: "FFFFFF"}, "4B0082"),
		RegionSummaryLevel:  regionStyle(&excelize.Font{Bold: true, Size: 16, Color: "FFD700"}, ""),
		RegionSummaryCount:  regionStyle(&excelize.Font{Size: 16}, "FFFFE0"),
	}
}

// register creates one workbook style per region and returns the style IDs
func (s Styles) register(f *excelize.File) (map[Region]int, error) {
	ids := make(map[Region]int, len(Regions))
	for _, region := range Regions {
		style, ok := s[region]
		if !ok {
			return nil, fmt.Errorf("no style defined for region %q", region)
		}
		id, err := f.NewStyle(&style)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s style: %w", region, err)
		}
		ids[region] = id
	}
	return ids, nil
}
