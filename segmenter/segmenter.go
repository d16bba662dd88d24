package segmenter

import (
	"regexp"
	"strings"
)

// Unit codes are a fixed literal prefix followed by alphanumerics, e.g.
// SBRSPAA01. This is the only structural anchor in the survey export.
var unitCodePattern = regexp.MustCompile(`SBRSP[A-Z0-9]+`)

// UnitSpan is the slice of document text attributed to one unit: from an
// occurrence of its code up to the next occurrence of any unit code.
type UnitSpan struct {
	UnitCode string
	Text     string
}

// NormalizeCode uppercases a unit code for cross-referencing against the
// units table. Codes are uppercased once, at insertion, so a logical unit
// never produces two entries.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Segment partitions the extracted document text into one span per unit
// code, in order of first occurrence. Text before the first match is header
// or cover-page content with no attributable unit and is dropped. Repeated
// occurrences of the same code (the exporter restarts a section per
// response) are merged into one span, space-joined in document order.
//
// An empty result means no unit code appears anywhere in the document. That
// is a valid outcome, not an error: the caller reports "no units
// recognized" and stops.
func Segment(text string) []UnitSpan {
	matches := unitCodePattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	spans := make([]UnitSpan, 0, len(matches))
	index := make(map[string]int, len(matches))

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		code := NormalizeCode(text[m[0]:m[1]])
		part := text[m[0]:end]

		if at, ok := index[code]; ok {
			spans[at].Text = spans[at].Text + " " + part
			continue
		}
		index[code] = len(spans)
		spans = append(spans, UnitSpan{UnitCode: code, Text: part})
	}

	return spans
}

// StripCodes removes every unit-code occurrence from a piece of text. The
// heuristic comment splitter uses it so codes never survive as comment
// fragments.
func StripCodes(text string) string {
	return unitCodePattern.ReplaceAllString(text, " ")
}

// CodePattern exposes the unit-code regexp source for composition into
// other patterns (the anchor extractor bounds comment captures with it).
func CodePattern() string {
	return unitCodePattern.String()
}
