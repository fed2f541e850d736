package service

import (
	"math"
	"sort"
	"strings"
)

// TokenSetJaccard returns |intersection| / |union| over whitespace tokens.
// An empty union yields 0.
func TokenSetJaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	union := make(map[string]struct{}, len(setA)+len(setB))
	intersection := 0
	for t := range setA {
		union[t] = struct{}{}
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	for t := range setB {
		union[t] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// CharTrigramCosine returns the cosine similarity over multisets of
// overlapping length-3 substrings. Strings shorter than 3 characters produce
// an empty trigram set and score 0.
func CharTrigramCosine(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)

	var dot, normA, normB float64
	for tri, va := range ta {
		dot += float64(va) * float64(tb[tri])
		normA += float64(va) * float64(va)
	}
	for _, vb := range tb {
		normB += float64(vb) * float64(vb)
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// ComputeSimilarity blends token and trigram similarity between two normalized
// titles, with a flat bonus when both departments match exactly. The result is
// capped at 1.0.
func ComputeSimilarity(offeringTitle, canonicalTitle string, departmentMatch bool) float64 {
	score := 0.6*TokenSetJaccard(offeringTitle, canonicalTitle) + 0.4*CharTrigramCosine(offeringTitle, canonicalTitle)
	if departmentMatch {
		score += 0.02
		if score > 1.0 {
			score = 1.0
		}
	}
	return score
}

// TokenOverlap returns the shared tokens of two normalized titles, for review
// UI explanations. It plays no part in scoring decisions.
func TokenOverlap(a, b string) string {
	setB := tokenSet(b)
	shared := make([]string, 0, len(setB))
	seen := make(map[string]struct{})
	for _, t := range strings.Fields(a) {
		if _, ok := setB[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		shared = append(shared, t)
	}
	sort.Strings(shared)
	return strings.Join(shared, ", ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

func trigrams(s string) map[string]int {
	grams := make(map[string]int)
	for i := 0; i+3 <= len(s); i++ {
		grams[s[i:i+3]]++
	}
	return grams
}
