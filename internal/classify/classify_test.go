package classify

import (
	"testing"

	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want model.Category
	}{
		{"fix bug in login", model.CategoryDevelopment},
		{"pick up dry cleaning", model.CategoryShopping},
		{"random thought", model.CategoryGeneral},
		{"Send the quarterly REPORT", model.CategoryWork},
		{"book doctor appointment", model.CategoryHealth},
		{"wash the car", model.CategoryHome},
		{"", model.CategoryGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.text))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// "commit" (development) outranks "email" (work).
	assert.Equal(t, model.CategoryDevelopment, Classify("email about the commit"))
	// "call" (work) outranks "buy" (shopping).
	assert.Equal(t, model.CategoryWork, Classify("call store to buy tickets"))
	// "get" (shopping) outranks "gym" (health).
	assert.Equal(t, model.CategoryShopping, Classify("get new gym shoes"))
}

func TestBucket(t *testing.T) {
	assert.Equal(t, "shopping", Bucket("buy milk"))
	assert.Equal(t, "work", Bucket("call mom"))
	assert.Equal(t, "health", Bucket("go for a run"))
	assert.Equal(t, "home", Bucket("cook dinner"))
	assert.Equal(t, "general", Bucket("random thought"))
}

func TestBucketTaxonomyIsSeparate(t *testing.T) {
	// Development keywords are not part of the bucket rules.
	assert.Equal(t, model.CategoryDevelopment, Classify("git rebase"))
	assert.Equal(t, "general", Bucket("git rebase"))
	// "purchase" only exists in the prediction ladder.
	assert.Equal(t, model.CategoryShopping, Classify("purchase tickets"))
	assert.Equal(t, "general", Bucket("purchase tickets"))
	assert.Equal(t, []string{"shopping", "work", "health", "home", "general"}, bucketLabels())
}

func TestClassifyIsIdempotent(t *testing.T) {
	texts := []string{"buy bread", "deploy api", "walk the dog", "clean kitchen", "dream"}
	first := make([]model.Category, len(texts))
	for i, text := range texts {
		first[i] = Classify(text)
	}
	for i, text := range texts {
		assert.Equal(t, first[i], Classify(text))
		assert.Equal(t, Bucket(text), Bucket(text))
	}
}

// bucketLabels lists every label Bucket can return, in rule order.
func bucketLabels() []string {
	out := make([]string, 0, len(bucketRules)+1)
	for _, r := range bucketRules {
		out = append(out, string(r.category))
	}
	return append(out, bucketGeneral)
}
