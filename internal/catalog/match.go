package catalog

import (
	"strings"
	"unicode"
)

// Scoring weights used by Match. A candidate whose title contains, or is
// contained in, the target title earns TitleMatchWeight; one whose author
// contains the target author earns AuthorMatchWeight.
const (
	TitleMatchWeight  = 10
	AuthorMatchWeight = 5
)

// Candidate is a single record returned by a catalog search
type Candidate struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN13      string `json:"isbn13"`
	Publisher   string `json:"publisher"`
	Cover       string `json:"cover,omitempty"`
	Description string `json:"description,omitempty"`
}

// normalize strips whitespace and lower-cases s for comparison
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Score returns the match score of candidate against the target title and author.
func Score(title, author string, candidate Candidate) int {
	target := normalize(title)
	got := normalize(candidate.Title)

	score := 0
	if strings.Contains(got, target) || strings.Contains(target, got) {
		score += TitleMatchWeight
	}
	if author != "" && strings.Contains(normalize(candidate.Author), normalize(author)) {
		score += AuthorMatchWeight
	}
	return score
}

// Match picks the candidate that best fits title and author.
// Ties go to the earlier candidate and an all-zero field yields the first one;
// the only time Match reports false is when candidates is empty.
func Match(title, author string, candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := candidates[0]
	bestScore := 0
	for _, c := range candidates {
		if s := Score(title, author, c); s > bestScore {
			best = c
			bestScore = s
		}
	}
	return best, true
}
