// Package similarity implements the title comparison used by duplicate
// detection. It is deliberately conservative: only near-identical titles
// score above the dedup threshold.
package similarity

import "strings"

// Normalize lowercases s and collapses all whitespace runs to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TitleSimilarity scores how alike two job titles are, in [0,1].
//
//   - 1.0 when the normalized titles are equal
//   - when one normalized title contains the other, the ratio of the shorter
//     title's word count to the longer's ("Loan Officer" inside
//     "Senior Loan Officer" scores 2/3)
//   - otherwise the Jaccard overlap of the two whitespace-tokenized word sets
//
// Symmetric by construction: TitleSimilarity(a, b) == TitleSimilarity(b, a).
func TitleSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1.0
	}
	if na == "" || nb == "" {
		return 0.0
	}

	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		la, lb := len(strings.Fields(na)), len(strings.Fields(nb))
		shorter, longer := la, lb
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return float64(shorter) / float64(longer)
	}

	return jaccard(strings.Fields(na), strings.Fields(nb))
}

// jaccard computes |A ∩ B| / |A ∪ B| over two token lists.
func jaccard(wordsA, wordsB []string) float64 {
	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}

	intersection := 0
	union := len(setA)
	seenB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		if seenB[w] {
			continue
		}
		seenB[w] = true
		if setA[w] {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
