package feedback

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Internal reference tokens ("#12345") and exporter URL fragments that
	// leak into the text layer.
	refTokenPattern = regexp.MustCompile(`#\d+`)
	pathPattern     = regexp.MustCompile(`\((?:/surveys/|/people/)[^)]*\)`)

	numericPattern = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)

	// Sentiment classification values leak out of the export as standalone
	// tokens; they are column data, not comments.
	sentimentLabels = map[string]bool{
		"promoter": true, "promotor": true,
		"detractor": true, "detrator": true,
		"neutral": true, "neutro": true,
	}

	// Second-pass semantic filter: phrase stripping can leave a truncated
	// remainder, or the export can word the phrase slightly differently.
	residualPhrases = []string{
		"cliente não autorizou contato",
		"client refused contact",
		"não deixou comentário",
		"no comment left",
	}
)

// Sanitize normalizes raw candidate comments into the final per-unit list:
// noise stripped, fragments and leaked column values dropped, exact
// duplicates removed with first-seen order preserved. Running it over its
// own output changes nothing.
func Sanitize(candidates []string) []string {
	var out []string
	seen := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		c = refTokenPattern.ReplaceAllString(c, "")
		c = pathPattern.ReplaceAllString(c, "")
		for _, p := range noisePhrasePatterns {
			c = p.ReplaceAllString(c, " ")
		}
		c = strings.TrimSpace(c)

		if utf8.RuneCountInString(c) <= 10 {
			continue
		}
		if numericPattern.MatchString(c) {
			continue
		}
		lower := strings.ToLower(c)
		if sentimentLabels[lower] {
			continue
		}
		if containsResidualPhrase(lower) {
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func containsResidualPhrase(lower string) bool {
	for _, p := range residualPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
