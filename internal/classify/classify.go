// Package classify holds the static keyword rules used to label tasks.
//
// Two taxonomies live here and are kept apart on purpose: Classify feeds
// category prediction, Bucket feeds the learner's fallback categorisation.
package classify

import (
	"strings"

	"github.com/sandeepkv93/taskbrain/internal/model"
)

type rule struct {
	category model.Category
	keywords []string
}

// Order is precedence: the first rule with a matching keyword wins.
var predictionRules = []rule{
	{model.CategoryDevelopment, []string{"git", "code", "programming", "development", "api", "database", "deploy", "fix bug", "commit"}},
	{model.CategoryWork, []string{"meeting", "call", "work", "email", "send", "presentation", "report"}},
	{model.CategoryShopping, []string{"buy", "shop", "grocery", "get", "pick up", "purchase"}},
	{model.CategoryHealth, []string{"exercise", "gym", "run", "walk", "health", "doctor", "workout"}},
	{model.CategoryHome, []string{"clean", "wash", "cook", "home", "house", "repair", "organize"}},
}

var bucketRules = []rule{
	{"shopping", []string{"buy", "shop", "grocery", "get", "pick up"}},
	{"work", []string{"meeting", "call", "work", "email", "send"}},
	{"health", []string{"exercise", "gym", "run", "walk", "health"}},
	{"home", []string{"clean", "wash", "cook", "home", "house"}},
}

const bucketGeneral = "general"

// Classify returns the prediction category for text. It never fails and
// falls back to general.
func Classify(text string) model.Category {
	if c, ok := match(predictionRules, text); ok {
		return c
	}
	return model.CategoryGeneral
}

// Bucket returns the fallback learning bucket for text.
func Bucket(text string) string {
	if c, ok := match(bucketRules, text); ok {
		return string(c)
	}
	return bucketGeneral
}

func match(rules []rule, text string) (model.Category, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category, true
			}
		}
	}
	return "", false
}
