package learner

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"buy", "milk"}, tokenize("Buy MILK!"))
	assert.Equal(t, []string{"mom"}, tokenize("call mom"))
	assert.Equal(t, []string{"run"}, tokenize("go for a run"))
	assert.Empty(t, tokenize("a b c do it"))
	assert.Equal(t, []string{"snake_case", "v2"}, tokenize("snake_case v2 x"))
}

func TestTokenizeUnicode(t *testing.T) {
	assert.Equal(t, []string{"café", "résumé", "naïve"}, tokenize("Café résumé naïve"))
	assert.Equal(t, []string{"купить", "молоко"}, tokenize("Купить молоко"))
	assert.Equal(t, []string{"日本語"}, tokenize("日本語"))
}

func TestFitVectorSpaceCyrillic(t *testing.T) {
	vs, err := fitVectorSpace([]string{"купить молоко", "позвонить маме", "купить хлеб"})
	require.NoError(t, err)
	assert.Equal(t, []string{"купить", "маме", "молоко", "позвонить", "хлеб"}, vs.vocab)
	assert.Greater(t, cosine(vs.Transform("купить"), vs.vectors[0]), 0.0)
}

func TestFitVectorSpace(t *testing.T) {
	vs, err := fitVectorSpace([]string{"buy milk", "buy bread", "call mom"})
	require.NoError(t, err)

	assert.Equal(t, []string{"bread", "buy", "milk", "mom"}, vs.vocab)
	assert.InDelta(t, math.Log(4.0/3.0)+1, vs.idf[vs.index["buy"]], 1e-12)
	assert.InDelta(t, math.Log(2.0)+1, vs.idf[vs.index["milk"]], 1e-12)
	require.Len(t, vs.vectors, 3)

	for _, vec := range vs.vectors {
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
	assert.InDelta(t, 1.0, vs.vectors[2][vs.index["mom"]], 1e-12)
	assert.Equal(t, make([]float64, 4), vs.Transform("nothing known"))
}

func TestFitVectorSpaceCapsVocabulary(t *testing.T) {
	var words []string
	for i := 0; i < 150; i++ {
		words = append(words, fmt.Sprintf("word%03d", i))
	}
	texts := []string{strings.Join(words, " "), "word149 word148", "word149"}

	vs, err := fitVectorSpace(texts)
	require.NoError(t, err)
	assert.Len(t, vs.vocab, maxFeatures)
	assert.Contains(t, vs.index, "word149")
	assert.Contains(t, vs.index, "word148")
	assert.Contains(t, vs.index, "word000")
	assert.NotContains(t, vs.index, "word147")
}

func TestFitVectorSpaceEmptyVocabulary(t *testing.T) {
	_, err := fitVectorSpace([]string{"do it", "to be"})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestKMeansSeparatesGroups(t *testing.T) {
	points := [][]float64{{1, 0}, {0.9, 0.1}, {0, 1}, {0.1, 0.9}, {0.95, 0.05}}
	labels, err := kmeans(points, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1, 0}, labels)
}

func TestKMeansErrors(t *testing.T) {
	_, err := kmeans([][]float64{{1, 0}}, 2)
	assert.Error(t, err)

	_, err = kmeans([][]float64{{1, 0}, {1, 0}, {1, 0}}, 2)
	assert.ErrorIs(t, err, ErrTooFewDistinct)
}
