package feedback

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gustavoconect/lideranca-regional-sub000/segmenter"
)

// NoComment marks a survey whose respondent left no free text.
const NoComment = "[No Comment]"

// SurveyRecord is one respondent's entry inside a unit span: an optional
// NPS score, the free-text comment, and the leader's follow-up when the
// export carries one.
type SurveyRecord struct {
	UnitCode       string   `json:"unit_code"`
	NPSScore       *float64 `json:"nps_score,omitempty"`
	Comment        string   `json:"comment"`
	LeaderFeedback string   `json:"leader_feedback,omitempty"`
}

// Strategy names which extraction path produced a unit's results.
type Strategy string

const (
	StrategyAnchor    Strategy = "anchor"
	StrategyHeuristic Strategy = "heuristic"
)

// Extraction is the per-unit output: survey records when the anchor
// strategy applied, and the sanitized comment list either way.
type Extraction struct {
	UnitCode string
	Strategy Strategy
	Surveys  []SurveyRecord
	Comments []string
}

var (
	// The export labels each respondent comment with a "Comentário:" field
	// (older exports use the English label).
	anchorPattern = regexp.MustCompile(`(?i)(?:coment[áa]rio|comment):[ \t]*`)

	// A comment body ends at the leader-feedback label, an internal
	// reference token, the next unit code, or the end of the span.
	commentEndPattern = regexp.MustCompile(`(?i:feedback\s*[1-5]:)|#\d+|` + segmenter.CodePattern())

	feedbackLabelPattern = regexp.MustCompile(`(?i)feedback\s*[1-5]:[ \t]*`)
	scorePattern         = regexp.MustCompile(`(?i)(?:nps|nota|score):?\s*(\d{1,2}(?:[.,]\d+)?)`)
)

// Extract pulls survey records out of one unit span. The anchor strategy is
// tried first; when the span has no comment anchors at all, the heuristic
// strategy takes over for the whole span. The two never mix within a unit,
// so the same text cannot be counted by both.
//
// Absence of results is the normal low-volume-unit outcome, not an error.
func Extract(span segmenter.UnitSpan) Extraction {
	out := Extraction{UnitCode: span.UnitCode}

	if surveys := extractAnchored(span); len(surveys) > 0 {
		out.Strategy = StrategyAnchor
		out.Surveys = surveys
		var candidates []string
		for _, s := range surveys {
			if s.Comment != NoComment {
				candidates = append(candidates, s.Comment)
			}
		}
		out.Comments = Sanitize(candidates)
		return out
	}

	out.Strategy = StrategyHeuristic
	out.Comments = Sanitize(heuristicCandidates(span.Text))
	return out
}

// extractAnchored locates every comment anchor in the span and builds one
// record per anchor. Score and leader feedback attach positionally: the
// nearest labeled field inside the same record's stretch of text.
func extractAnchored(span segmenter.UnitSpan) []SurveyRecord {
	anchors := anchorPattern.FindAllStringIndex(span.Text, -1)
	if len(anchors) == 0 {
		return nil
	}

	records := make([]SurveyRecord, 0, len(anchors))
	for i, a := range anchors {
		recEnd := len(span.Text)
		if i+1 < len(anchors) {
			recEnd = anchors[i+1][0]
		}
		tail := span.Text[a[1]:recEnd]

		body := tail
		var trailer string
		if loc := commentEndPattern.FindStringIndex(tail); loc != nil {
			body = tail[:loc[0]]
			trailer = tail[loc[0]:]
		}

		rec := SurveyRecord{
			UnitCode: span.UnitCode,
			Comment:  strings.TrimSpace(body),
		}
		if rec.Comment == "" {
			rec.Comment = NoComment
		}

		// Leader feedback is the labeled field trailing the comment.
		if m := feedbackLabelPattern.FindStringIndex(trailer); m != nil {
			fb := trailer[m[1]:]
			if end := commentEndPattern.FindStringIndex(fb); end != nil {
				fb = fb[:end[0]]
			}
			if end := scorePattern.FindStringIndex(fb); end != nil {
				fb = fb[:end[0]]
			}
			rec.LeaderFeedback = strings.TrimSpace(fb)
		}

		rec.NPSScore = nearestScore(span.Text, anchors, i, recEnd)
		records = append(records, rec)
	}
	return records
}

// nearestScore finds the score field belonging to record i. The export
// prints each respondent's score ahead of the comment label, so the last
// labeled score between the previous anchor and this one wins; when a
// layout puts it after the comment instead, the first match inside the
// record is used.
func nearestScore(text string, anchors [][]int, i, recEnd int) *float64 {
	windowStart := 0
	if i > 0 {
		windowStart = anchors[i-1][1]
	}
	if before := scorePattern.FindAllStringSubmatch(text[windowStart:anchors[i][0]], -1); len(before) > 0 {
		return parseScore(before[len(before)-1][1])
	}

	if m := scorePattern.FindStringSubmatch(text[anchors[i][1]:recEnd]); m != nil {
		return parseScore(m[1])
	}
	return nil
}

func parseScore(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &v
}

var (
	datePattern = regexp.MustCompile(`\b\d{2}/\d{2}/\d{2,4}\b`)
	timePattern = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)

	// Record separators: line breaks, or the wide table-cell gaps the PDF
	// text layer leaves as runs of three or more spaces.
	separatorPattern = regexp.MustCompile(`\n+|\s{3,}`)

	// Fixed boilerplate labels stripped wherever they appear. Colon forms
	// come first so the bare forms do not leave a dangling colon behind.
	labelPatterns = compileLiterals([]string{
		"Feedback 1:", "Feedback 2:", "Feedback 3:", "Feedback 4:", "Feedback 5:",
		"Comentário:", "Comentário", "Comment:", "Comment",
		"NPS:", "Nota:", "Score:",
		"Data:", "Date:",
		"Unidade:", "Unit:",
		"Cliente:", "Client:",
		"Matrícula:", "ID number:",
		"E-mail:", "Email:",
		"Telefone:", "Phone:",
	})

	// Phrases the exporter emits when there is no real feedback to show.
	noisePhrasePatterns = compileLiterals([]string{
		"Cliente não autorizou contato",
		"Client refused contact",
		"Não deixou comentário",
		"No comment left",
		"Contato não realizado",
		"No contact made",
		"Sem contato",
		"No contact",
		"Contato realizado",
		"Contact obtained",
	})
)

func compileLiterals(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		out[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(p))
	}
	return out
}

// heuristicCandidates is the fallback for exports without comment anchors:
// strip everything known to be structure or noise, then split what is left
// on record separators.
func heuristicCandidates(text string) []string {
	text = segmenter.StripCodes(text)
	text = datePattern.ReplaceAllString(text, " ")
	text = timePattern.ReplaceAllString(text, " ")
	for _, p := range labelPatterns {
		text = p.ReplaceAllString(text, " ")
	}
	for _, p := range noisePhrasePatterns {
		text = p.ReplaceAllString(text, " ")
	}

	var candidates []string
	for _, part := range separatorPattern.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			candidates = append(candidates, part)
		}
	}
	return candidates
}
