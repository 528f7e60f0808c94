package learner

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const maxFeatures = 100

var (
	ErrEmptyVocabulary = errors.New("learner: empty vocabulary; no word of two or more letters outside stop words")

	// Runs of at least two Unicode letters, digits or underscores.
	tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
)

// vectorSpace is a smoothed TF-IDF model fitted over one user's texts.
// Row i of vectors belongs to texts[i].
type vectorSpace struct {
	vocab   []string
	index   map[string]int
	idf     []float64
	texts   []string
	vectors [][]float64
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func fitVectorSpace(texts []string) (*vectorSpace, error) {
	docs := make([][]string, len(texts))
	freq := map[string]int{}
	df := map[string]int{}
	for i, text := range texts {
		docs[i] = tokenize(text)
		seen := map[string]bool{}
		for _, tok := range docs[i] {
			freq[tok]++
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
	}
	if len(freq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(freq))
	for term := range freq {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}
	sort.Strings(terms)

	vs := &vectorSpace{
		vocab: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
		texts: append([]string(nil), texts...),
	}
	n := float64(len(texts))
	for i, term := range terms {
		vs.index[term] = i
		vs.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	vs.vectors = make([][]float64, len(docs))
	for i, doc := range docs {
		vs.vectors[i] = vs.vectorize(doc)
	}
	return vs, nil
}

// Transform projects text into the fitted space. Unknown terms are dropped.
func (vs *vectorSpace) Transform(text string) []float64 {
	return vs.vectorize(tokenize(text))
}

func (vs *vectorSpace) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(vs.vocab))
	for _, tok := range tokens {
		if i, ok := vs.index[tok]; ok {
			vec[i]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= vs.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// cosine assumes both vectors are L2-normalised or zero.
func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	switch {
	case dot < 0:
		return 0
	case dot > 1:
		return 1
	}
	return dot
}
