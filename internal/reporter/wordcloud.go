package reporter

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/psykhi/wordclouds"

	"github-trends/internal/model"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "have": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "this": true, "to": true, "with": true,
	"you": true, "your": true, "we": true, "our": true, "i": true, "my": true,
}

// WordCounts tallies word frequencies across free-text fields. Rows with any
// character outside the basic text encoding are filtered out before
// tokenizing, matching the chart's ASCII-only rendering.
func WordCounts(texts []model.NullString) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		if !text.Valid || !isASCII(text.String) {
			continue
		}
		for _, raw := range strings.Fields(text.String) {
			word := strings.ToLower(strings.Trim(raw, ".,;:!?\"'()[]{}<>"))
			if len(word) < 2 || stopwords[word] {
				continue
			}
			counts[word]++
		}
	}
	return counts
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// wordcloudChart renders a word cloud PNG from the given frequency table.
func wordcloudChart(counts map[string]int, fontFile, path string) error {
	cloud := wordclouds.NewWordcloud(counts,
		wordclouds.FontFile(fontFile),
		wordclouds.Width(1000),
		wordclouds.Height(750),
		wordclouds.FontMaxSize(120),
		wordclouds.FontMinSize(10),
		wordclouds.BackgroundColor(color.White),
		wordclouds.Colors([]color.Color{
			color.RGBA{R: 0x0d, G: 0x08, B: 0x87, A: 0xff},
			color.RGBA{R: 0x7e, G: 0x03, B: 0xa8, A: 0xff},
			color.RGBA{R: 0xcc, G: 0x47, B: 0x78, A: 0xff},
			color.RGBA{R: 0xf8, G: 0x96, B: 0x41, A: 0xff},
			color.RGBA{R: 0xf0, G: 0xf9, B: 0x21, A: 0xff},
		}),
	)

	return gg.SavePNG(path, cloud.Draw())
}
