// Package arabic provides the pure text-processing core of the legal
// knowledge base: HTML stripping, Arabic-Indic digit normalization, and
// article-citation parsing in the style used by the Saudi official gazette.
// It has no dependencies outside the standard library so it can be tested
// exhaustively in isolation from network and storage code.
package arabic

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	blockRe  = regexp.MustCompile(`(?i)</?(?:br|p|div|li)\b[^>]*>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`[ \t\x{00a0}]+`)
	blankRe  = regexp.MustCompile(`\n\s*\n\s*(?:\n\s*)+`)

	articleNumberRe = regexp.MustCompile(`مادة\s*(?:رقم\s*)?[\(\[]?\s*(\d{1,4})`)
	articleDigitRe  = regexp.MustCompile(`المادة\s*[\(\[]?\s*\d`)
)

// StripHTML converts an HTML page body into plain text: script/style blocks
// are removed, block-level tags become newlines, all remaining tags are
// stripped, common entities are unescaped, and whitespace runs and blank
// lines are collapsed. Deterministic and pure.
func StripHTML(html string) string {
	text := scriptRe.ReplaceAllString(html, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = blockRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, " ")

	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = strings.ReplaceAll(text, "&#39;", "'")

	text = spaceRe.ReplaceAllString(text, " ")
	text = blankRe.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// NormalizeDigits maps Arabic-Indic digits (٠–٩) to their ASCII equivalents
// so numeric patterns match regardless of how the user typed the number.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '٠' && r <= '٩' {
			return '0' + (r - '٠')
		}
		return r
	}, s)
}

// ExtractArticleNumber returns the article number cited in the query,
// matching forms like "المادة 107" and "لمادة رقم 5". The second return
// value is false when the query cites no article.
func ExtractArticleNumber(query string) (int, bool) {
	m := articleNumberRe.FindStringSubmatch(NormalizeDigits(query))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsArticleTextQuery reports whether the query phrasing asks for the literal
// text of an article rather than a general legal question.
func IsArticleTextQuery(query string) bool {
	q := NormalizeDigits(query)
	if strings.Contains(q, "نص المادة") || strings.Contains(q, "تنص المادة") {
		return true
	}
	return articleDigitRe.MatchString(q)
}

// LooksLikeRequestedArticleText reports whether a candidate snippet actually
// contains the requested article: the word "المادة" immediately followed by
// either the gazette ordinal label or the bare number, optionally bracketed.
// It is the acceptance gate applied after every retrieval tier when the
// query demands a specific article.
func LooksLikeRequestedArticleText(text string, articleNumber int, boeLabel string) bool {
	if articleNumber <= 0 {
		return false
	}
	re, err := regexp.Compile(articleMarkerPattern(articleNumber, boeLabel))
	if err != nil {
		return false
	}
	return re.MatchString(NormalizeDigits(text))
}

// ExtractArticleSpan cuts the text of one article out of a stripped page:
// the span from the matching "المادة <label-or-number>" marker up to the
// next article marker, or to the end of the text. Spans shorter than 40
// characters are rejected as too thin to be the article body.
func ExtractArticleSpan(text string, articleNumber int, boeLabel string) string {
	const minSpanChars = 40

	normalized := NormalizeDigits(text)
	startRe, err := regexp.Compile(articleMarkerPattern(articleNumber, boeLabel))
	if err != nil {
		return ""
	}
	loc := startRe.FindStringIndex(normalized)
	if loc == nil {
		return ""
	}

	rest := normalized[loc[0]:]
	// Look for the next article marker beyond the one we just matched.
	if next := anyArticleMarkerRe.FindStringIndex(rest[loc[1]-loc[0]:]); next != nil {
		rest = rest[:loc[1]-loc[0]+next[0]]
	}

	span := strings.TrimSpace(rest)
	if utf8.RuneCountInString(span) < minSpanChars {
		return ""
	}
	return span
}

// anyArticleMarkerRe matches the start of any article heading: "المادة"
// followed by digits, a bracket, or an Arabic ordinal.
var anyArticleMarkerRe = regexp.MustCompile(`المادة\s*[\(\[]?\s*(?:\d|ال)`)

// articleMarkerPattern builds the marker regex for one specific article.
func articleMarkerPattern(articleNumber int, boeLabel string) string {
	alts := strconv.Itoa(articleNumber) + `(?:[^\d]|$)`
	if boeLabel != "" {
		alts = regexp.QuoteMeta(boeLabel) + "|" + alts
	}
	return `المادة\s*[:\-]?\s*[\(\[]?\s*(?:` + alts + `)`
}
