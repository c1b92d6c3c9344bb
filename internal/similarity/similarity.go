// Package similarity compares short text fragments with bag-of-terms cosine.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Weighting selects how term vectors are built
type Weighting int

const (
	// TermFrequency weights counts by smoothed inverse document frequency
	// over the two compared texts. Used for diagnosis-vs-diagnosis matching.
	TermFrequency Weighting = iota

	// RawCount uses plain term counts. Used for exclusion matching.
	RawCount
)

func (w Weighting) String() string {
	switch w {
	case TermFrequency:
		return "tf"
	case RawCount:
		return "count"
	default:
		return "unknown"
	}
}

// Score is the outcome of a comparison. Defined is false when neither text
// contributes a single term, in which case Value is always 0.
type Score struct {
	Value   float64
	Defined bool
}

// Percent returns the score as a percentage rounded to one decimal
func (s Score) Percent() float64 {
	return math.Round(s.Value*1000) / 10
}

// terms are runs of two or more word characters
var termPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into terms
func Tokenize(text string) []string {
	return termPattern.FindAllString(strings.ToLower(text), -1)
}

// Compare returns the cosine similarity of a and b under the given weighting
func Compare(a, b string, w Weighting) Score {
	countsA := countTerms(Tokenize(a))
	countsB := countTerms(Tokenize(b))

	vocab := unionVocabulary(countsA, countsB)
	if len(vocab) == 0 {
		return Score{}
	}

	var dot, normA, normB float64
	for _, term := range vocab {
		va := float64(countsA[term])
		vb := float64(countsB[term])
		if w == TermFrequency {
			weight := idf(countsA[term] > 0, countsB[term] > 0)
			va *= weight
			vb *= weight
		}
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return Score{Defined: true}
	}

	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return Score{Value: clamp(cos), Defined: true}
}

// TermFrequencySimilarity compares two diagnoses; 0 on degenerate input
func TermFrequencySimilarity(a, b string) float64 {
	return Compare(a, b, TermFrequency).Value
}

// RawCountSimilarity compares a diagnosis with an exclusion label; 0 on degenerate input
func RawCountSimilarity(a, b string) float64 {
	return Compare(a, b, RawCount).Value
}

// idf is ln((1+n)/(1+df)) + 1 with n = 2 documents
func idf(inA, inB bool) float64 {
	df := 0
	if inA {
		df++
	}
	if inB {
		df++
	}
	return math.Log(3.0/float64(1+df)) + 1
}

// unionVocabulary returns the sorted terms of both documents so sums are
// accumulated in a stable order
func unionVocabulary(a, b map[string]int) []string {
	vocab := make([]string, 0, len(a)+len(b))
	for term := range a {
		vocab = append(vocab, term)
	}
	for term := range b {
		if _, ok := a[term]; !ok {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)
	return vocab
}

func countTerms(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
