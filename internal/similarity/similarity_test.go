package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hiv", "aids"}, Tokenize("HIV/AIDS"))
	assert.Equal(t, []string{"parkinson", "disease"}, Tokenize("Parkinson's disease"))
	assert.Equal(t, []string{"self", "inflicted", "injuries"}, Tokenize("self-inflicted injuries"))
	assert.Empty(t, Tokenize("a b c"))
	assert.Empty(t, Tokenize(""))
}

func TestCompare_IdenticalTexts(t *testing.T) {
	texts := []string{
		"pregnancy",
		"Acute viral fever",
		"type 2 diabetes mellitus with complications",
		"fever fever fever",
	}

	for _, text := range texts {
		for _, w := range []Weighting{TermFrequency, RawCount} {
			s := Compare(text, text, w)
			assert.True(t, s.Defined, "%q (%s)", text, w)
			assert.InDelta(t, 1.0, s.Value, 1e-9, "%q (%s)", text, w)
		}
	}
}

func TestCompare_CaseInsensitive(t *testing.T) {
	assert.InDelta(t, 1.0, TermFrequencySimilarity("Dengue Fever", "dengue fever"), 1e-9)
}

func TestCompare_EmptyInputs(t *testing.T) {
	for _, w := range []Weighting{TermFrequency, RawCount} {
		s := Compare("", "", w)
		assert.False(t, s.Defined)
		assert.Zero(t, s.Value)

		s = Compare("", "pregnancy", w)
		assert.True(t, s.Defined)
		assert.Zero(t, s.Value)

		s = Compare("fever", "", w)
		assert.True(t, s.Defined)
		assert.Zero(t, s.Value)
	}

	// Single-character words never become terms
	assert.False(t, Compare("a", "b", RawCount).Defined)
}

func TestCompare_Disjoint(t *testing.T) {
	s := Compare("fever", "high temperature", TermFrequency)
	assert.True(t, s.Defined)
	assert.Zero(t, s.Value)
}

func TestCompare_WeightingsDiffer(t *testing.T) {
	count := RawCountSimilarity("viral fever", "fever")
	assert.InDelta(t, 1/math.Sqrt2, count, 1e-9)

	// Unshared terms are boosted by idf, so partial overlap scores lower
	viral := math.Log(1.5) + 1
	wantTF := 1 / math.Sqrt(1+viral*viral)
	tf := TermFrequencySimilarity("viral fever", "fever")
	assert.InDelta(t, wantTF, tf, 1e-9)
	assert.Less(t, tf, count)
}

func TestCompare_Bounded(t *testing.T) {
	pairs := [][2]string{
		{"chronic kidney disease", "kidney stones"},
		{"fracture of left arm", "left arm fracture"},
		{"malaria", "malaria malaria cerebral"},
	}
	for _, p := range pairs {
		for _, w := range []Weighting{TermFrequency, RawCount} {
			v := Compare(p[0], p[1], w).Value
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestScore_Percent(t *testing.T) {
	assert.Equal(t, 82.3, Score{Value: 0.82349, Defined: true}.Percent())
	assert.Equal(t, 100.0, Score{Value: 1, Defined: true}.Percent())
	assert.Equal(t, 0.0, Score{}.Percent())
}
