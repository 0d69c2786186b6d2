// Package relevance scores titles against free-text queries.
package relevance

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// Score weights.
const (
	PhraseBounded   = 5
	PhraseUnbounded = 3
	WordBounded     = 2
	WordUnbounded   = 1
)

const minWordLength = 4

var phraseRegex = regexp.MustCompile(`"([^"]+)"`)

// Query is a parsed search query.
type Query struct {
	Phrases []string
	Words   []string
}

// Parse extracts quoted phrases and then splits the rest on whitespace.
// Words shorter than four characters are dropped unless they are all digits.
func Parse(raw string) Query {
	var q Query
	rest := raw
	for _, m := range phraseRegex.FindAllStringSubmatch(raw, -1) {
		q.Phrases = append(q.Phrases, m[1])
		rest = strings.Replace(rest, m[0], "", 1)
	}
	for _, w := range strings.Fields(rest) {
		if isDigits(w) || utf8.RuneCountInString(w) >= minWordLength {
			q.Words = append(q.Words, w)
		}
	}
	return q
}

// Empty reports whether the query has no usable terms.
func (q Query) Empty() bool { return len(q.Phrases) == 0 && len(q.Words) == 0 }

// Score weighs every case-insensitive occurrence of each term in text.
// An occurrence is bounded when no word character touches it on either side.
// Words are matched against text with commas and double quotes removed.
func (q Query) Score(text string) int {
	lower := strings.ToLower(text)
	stripped := strings.NewReplacer(",", "", `"`, "").Replace(lower)

	score := 0
	for _, p := range q.Phrases {
		bounded, unbounded := occurrences(lower, strings.ToLower(p))
		score += bounded*PhraseBounded + unbounded*PhraseUnbounded
	}
	for _, w := range q.Words {
		bounded, unbounded := occurrences(stripped, strings.ToLower(w))
		score += bounded*WordBounded + unbounded*WordUnbounded
	}
	return score
}

// occurrences counts non-overlapping matches of term in text, split by boundedness.
func occurrences(text, term string) (bounded, unbounded int) {
	if term == "" {
		return 0, 0
	}
	for i := 0; i <= len(text)-len(term); {
		idx := strings.Index(text[i:], term)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(term)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			bounded++
		} else {
			unbounded++
		}
		i = end
	}
	return bounded, unbounded
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Candidate is a resource name with the text it is scored on.
type Candidate struct {
	ORN  string
	Text string
}

// Scored is a candidate with its score.
type Scored struct {
	Candidate
	Score int
}

// Rank scores candidates, drops zero scores, sorts by score descending
// keeping encounter order for ties, and truncates to limit.
func Rank(q Query, candidates []Candidate, limit int) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if s := q.Score(c.Text); s > 0 {
			scored = append(scored, Scored{Candidate: c, Score: s})
		}
	}
	slices.SortStableFunc(scored, func(a, b Scored) int { return b.Score - a.Score })
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ORNs returns the names of ranked results in order.
func ORNs(scored []Scored) []string {
	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.ORN
	}
	return out
}
