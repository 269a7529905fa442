// Package extract recovers structured swap candidates from noisy OCR text.
// Segmentation splits the text blob into per-transaction sections; the
// extractor applies tolerant pattern matching to each section.
package extract

import (
	"regexp"
	"strings"
)

// SectionMarkers are the UI phrases that precede each transaction block in
// the portfolio tracker's rendering.
var SectionMarkers = []string{
	"Contract Interaction",
	"fillOrderArgs",
}

var markerPattern = compileMarkerPattern(SectionMarkers)

func compileMarkerPattern(markers []string) *regexp.Regexp {
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Segment splits raw OCR text into candidate transaction sections. Each
// section starts at a marker phrase and runs up to the next marker. Text
// before the first marker is page chrome and is discarded. Returns nil when
// no marker appears anywhere: that means "no transactions found", not an
// error.
func Segment(text string) []string {
	// OCR output wraps lines arbitrarily; patterns must match across what
	// was visually one line.
	text = lineBreaks.Replace(text)

	locs := markerPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	sections := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if section := strings.TrimSpace(text[loc[0]:end]); section != "" {
			sections = append(sections, section)
		}
	}

	return sections
}
