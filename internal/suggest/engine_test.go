package suggest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/taskbrain/internal/learner"
	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/sandeepkv93/taskbrain/internal/timepattern"
)

var monday930 = time.Date(2026, 2, 9, 9, 30, 0, 0, time.UTC)

type fakeSource struct {
	snap       learner.Snapshot
	similar    []model.SimilarTask
	lastLimit  int
	similarHit int
}

func (f *fakeSource) Snapshot(string) learner.Snapshot { return f.snap }

func (f *fakeSource) SimilarTasks(_, _ string, limit int) []model.SimilarTask {
	f.similarHit++
	f.lastLimit = limit
	return f.similar
}

func records(texts ...string) []model.TaskRecord {
	out := make([]model.TaskRecord, len(texts))
	for i, text := range texts {
		out[i] = model.NewTaskRecord(text, monday930)
	}
	return out
}

func fixedEngine(src Source, at time.Time) *Engine {
	return NewEngine(src, WithClock(func() time.Time { return at }), WithLocation(time.UTC))
}

func TestDefaultsBoundaries(t *testing.T) {
	cases := []struct {
		hour  int
		first string
		count int
	}{
		{5, "Prepare for tomorrow", 1},
		{6, "Plan your day", 2},
		{9, "Plan your day", 2},
		{10, "Focus on important work", 1},
		{11, "Focus on important work", 1},
		{12, "Follow up on pending items", 1},
		{16, "Follow up on pending items", 1},
		{17, "Plan tomorrow", 1},
		{20, "Plan tomorrow", 1},
		{21, "Prepare for tomorrow", 1},
		{0, "Prepare for tomorrow", 1},
	}
	for _, tc := range cases {
		got := Defaults(tc.hour)
		require.Len(t, got, tc.count, "hour %d", tc.hour)
		assert.Equal(t, tc.first, got[0].Task, "hour %d", tc.hour)
		for _, s := range got {
			assert.Equal(t, model.KindDefault, s.Kind)
			assert.NoError(t, s.Validate())
		}
	}

	morning := Defaults(7)
	assert.Equal(t, "Good morning routine", morning[0].Reason)
	assert.Equal(t, 0.6, morning[0].Confidence)
	assert.Equal(t, "Check your calendar", morning[1].Task)
	assert.Equal(t, 0.5, morning[1].Confidence)

	morning[0].Task = "mutated"
	assert.Equal(t, "Plan your day", Defaults(7)[0].Task)
}

func TestSuggestionsForNewUser(t *testing.T) {
	e := fixedEngine(&fakeSource{}, time.Date(2026, 2, 9, 18, 0, 0, 0, time.UTC))
	got := e.Suggestions("new")
	require.Len(t, got, 1)
	assert.Equal(t, "Plan tomorrow", got[0].Task)
	assert.Equal(t, "Evening planning", got[0].Reason)
}

func TestSuggestionsFromTimePatterns(t *testing.T) {
	l := learner.New(learner.NewStore(), learner.WithLocation(time.UTC))
	for i := 0; i < 3; i++ {
		l.LearnAt(context.Background(), "u1", "standup", monday930.Add(time.Duration(i)*7*24*time.Hour))
	}
	e := fixedEngine(l, monday930)

	got := e.Suggestions("u1")
	require.Len(t, got, 2)
	assert.Equal(t, model.Suggestion{
		Task:       "standup",
		Reason:     "Common morning task for you",
		Confidence: 0.8,
		Kind:       model.KindTimePeriod,
	}, got[0])
	assert.Equal(t, "standup", got[1].Task)
	assert.Equal(t, "You usually do this on Monday at 9:00", got[1].Reason)
	assert.InDelta(t, 0.6, got[1].Confidence, 1e-9)
	assert.Equal(t, model.KindTimePattern, got[1].Kind)
}

func TestTimeSuggestionThresholds(t *testing.T) {
	patterns := timepattern.Patterns{
		"day_0_hour_9": {"a"},
		"morning":      {"a", "b"},
	}
	assert.Empty(t, timeSuggestions(patterns, monday930))

	patterns = timepattern.Patterns{
		"day_0_hour_9": {"a", "b", "b", "a", "c", "a", "a"},
		"morning":      {"x", "y", "y", "z"},
	}
	got := timeSuggestions(patterns, monday930)
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Task)
	assert.Equal(t, 0.9, got[0].Confidence)
	assert.Equal(t, "y", got[1].Task)
	assert.Equal(t, 0.5, got[1].Confidence)
	assert.Equal(t, "x", got[2].Task)
	assert.Equal(t, 0.25, got[2].Confidence)
}

func TestCategorySuggestions(t *testing.T) {
	cats := []learner.Category{
		{Name: "type_0", Tasks: records("pay rent", "pay bills", "pay bills", "call bank")},
		{Name: "home", Tasks: records("clean kitchen", "wash car")},
	}
	got := categorySuggestions(cats)
	require.Len(t, got, 1)
	assert.Equal(t, "pay bills", got[0].Task)
	assert.Equal(t, "Popular task in your type 0 category", got[0].Reason)
	assert.InDelta(t, 0.4, got[0].Confidence, 1e-9)
	assert.Equal(t, model.KindCategoryPattern, got[0].Kind)

	big := []learner.Category{{Name: "work", Tasks: records(make([]string, 12)...)}}
	assert.Equal(t, 0.7, categorySuggestions(big)[0].Confidence)
}

func TestThemeSuggestions(t *testing.T) {
	assert.Empty(t, themeSuggestions(records("budget review", "budget meeting", "Budget sync", "x")))

	tasks := records("old budget item", "review budget", "Budget meeting", "send budget", "email report", "report draft")
	got := themeSuggestions(tasks)
	require.Len(t, got, 2)
	assert.Equal(t, "Consider another budget-related task", got[0].Task)
	assert.Equal(t, "You've been focusing on budget lately", got[0].Reason)
	assert.InDelta(t, 0.6, got[0].Confidence, 1e-9)
	assert.Equal(t, "Consider another report-related task", got[1].Task)
	assert.InDelta(t, 0.4, got[1].Confidence, 1e-9)
}

func TestSuggestionsSortedAndCapped(t *testing.T) {
	src := &fakeSource{snap: learner.Snapshot{
		Tasks: records("budget plan", "budget plan", "report plan", "report plan", "budget report"),
		Categories: []learner.Category{
			{Name: "type_0", Tasks: records("budget plan", "budget plan", "budget report")},
			{Name: "type_1", Tasks: records("report plan", "report plan", "report plan")},
		},
		Patterns: timepattern.Patterns{
			"day_0_hour_9": {"budget plan", "budget plan", "report plan", "report plan", "budget report"},
			"morning":      {"budget plan", "budget plan", "report plan", "report plan", "budget report"},
		},
	}}
	got := fixedEngine(src, monday930).Suggestions("u1")

	require.Len(t, got, MaxSuggestions)
	for i, s := range got {
		assert.NoError(t, s.Validate())
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Confidence, s.Confidence)
		}
	}
	assert.Equal(t, model.KindTimePattern, got[0].Kind)
	assert.Equal(t, 0.9, got[0].Confidence)
}

func TestCompletions(t *testing.T) {
	src := &fakeSource{similar: []model.SimilarTask{
		{Text: "buy milk", Similarity: 0.9},
		{Text: "buy bread", Similarity: 0.5},
		{Text: "call mom", Similarity: 0.1},
	}}
	e := fixedEngine(src, monday930)

	assert.Empty(t, e.Completions("u1", "bu", 3))
	assert.Equal(t, 0, src.similarHit)

	got := e.Completions("u1", "buy", 0)
	assert.Equal(t, DefaultCompletionLimit, src.lastLimit)
	assert.Equal(t, []model.Completion{
		{Completion: "buy milk", Confidence: 0.9, Kind: model.KindLearnedCompletion},
	}, got)
}

func TestCompletionsPrefixCountsCharacters(t *testing.T) {
	src := &fakeSource{similar: []model.SimilarTask{{Text: "日本語の勉強", Similarity: 0.8}}}
	e := fixedEngine(src, monday930)

	assert.Empty(t, e.Completions("u1", "日本", 3))
	assert.Equal(t, 0, src.similarHit)

	got := e.Completions("u1", "日本語", 3)
	assert.Equal(t, 1, src.similarHit)
	require.Len(t, got, 1)
	assert.Equal(t, "日本語の勉強", got[0].Completion)
}

func TestCompletionsWithLearner(t *testing.T) {
	l := learner.New(learner.NewStore())
	for _, text := range []string{"buy milk", "buy bread", "call mom"} {
		l.Learn(context.Background(), "u1", text)
	}
	got := NewEngine(l).Completions("u1", "buy milk", 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "buy milk", got[0].Completion)
	for _, c := range got {
		assert.Greater(t, c.Confidence, 0.5)
	}
}
