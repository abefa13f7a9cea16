package vocab

import (
	"strings"
	"unicode"
)

// Normalize prepares a term for comparison: lowercase, punctuation stripped,
// whitespace collapsed. Letters and digits from any script survive, so
// accented vocabulary terms compare by content rather than byte encoding.
// Output casing is never shown to users; callers keep the original value
// for display.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Similarity scores two terms on [0,1]. Both inputs are normalized first,
// then the score is the better of the Levenshtein ratio over the whole
// strings and the token-set Jaccard overlap. The Levenshtein side catches
// in-token typos ("Bllue" vs "Blue"), the token side catches reordering
// ("Formal Shoes" vs "Shoes Formal"). Both components are symmetric and
// depend only on the inputs, so scores are reproducible.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		if na == nb {
			return 1.0
		}
		return 0.0
	}
	if na == nb {
		return 1.0
	}

	ra, rb := []rune(na), []rune(nb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	ratio := 1.0 - float64(levenshtein(ra, rb))/float64(maxLen)

	if overlap := tokenOverlap(na, nb); overlap > ratio {
		return overlap
	}
	return ratio
}

// tokenOverlap is the Jaccard coefficient over whitespace-split tokens.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	set := make(map[string]bool, len(ta))
	for _, tok := range ta {
		set[tok] = true
	}

	union := len(set)
	shared := 0
	seen := make(map[string]bool, len(tb))
	for _, tok := range tb {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		if set[tok] {
			shared++
		} else {
			union++
		}
	}
	return float64(shared) / float64(union)
}

// levenshtein calculates the edit distance between two rune slices using a
// two-row matrix. Runes rather than bytes, so multi-byte characters count
// as single edits.
func levenshtein(s1, s2 []rune) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
