// Package suggest ranks likely next tasks from a user's learned history.
package suggest

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandeepkv93/taskbrain/internal/learner"
	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/sandeepkv93/taskbrain/internal/timepattern"
)

const (
	MaxSuggestions         = 5
	DefaultCompletionLimit = 3

	minDayHourTexts     = 2
	minPeriodTexts      = 3
	minCategoryTasks    = 3
	minTasksForThemes   = 5
	recentThemeWindow   = 5
	maxThemes           = 3
	minThemeCount       = 2
	minCompletionPrefix = 3
	completionThreshold = 0.5
)

// Source is the learned state the engine reads from.
type Source interface {
	Snapshot(userID string) learner.Snapshot
	SimilarTasks(userID, partial string, limit int) []model.SimilarTask
}

type Engine struct {
	source Source
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{source: source, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Suggestions returns at most five suggestions, highest confidence first.
func (e *Engine) Suggestions(userID string) []model.Suggestion {
	now := e.now().In(e.loc)
	snap := e.source.Snapshot(userID)
	if len(snap.Tasks) == 0 {
		return Defaults(now.Hour())
	}

	var out []model.Suggestion
	out = append(out, timeSuggestions(snap.Patterns, now)...)
	out = append(out, categorySuggestions(snap.Categories)...)
	out = append(out, themeSuggestions(snap.Tasks)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	if out == nil {
		out = []model.Suggestion{}
	}
	return out
}

// Completions returns learned tasks similar to partial with similarity
// above one half.
func (e *Engine) Completions(userID, partial string, limit int) []model.Completion {
	out := []model.Completion{}
	if utf8.RuneCountInString(partial) < minCompletionPrefix {
		return out
	}
	if limit <= 0 {
		limit = DefaultCompletionLimit
	}
	for _, s := range e.source.SimilarTasks(userID, partial, limit) {
		if s.Similarity > completionThreshold {
			out = append(out, model.Completion{
				Completion: s.Text,
				Confidence: s.Similarity,
				Kind:       model.KindLearnedCompletion,
			})
		}
	}
	return out
}

func timeSuggestions(patterns timepattern.Patterns, now time.Time) []model.Suggestion {
	var out []model.Suggestion
	day, hour := model.ISOWeekday(now), now.Hour()

	if texts := patterns[timepattern.DayHourKey(day, hour)]; len(texts) >= minDayHourTexts {
		top := mostCommon(texts, 1)
		out = append(out, model.Suggestion{
			Task:       top[0].text,
			Reason:     fmt.Sprintf("You usually do this on %s at %d:00", model.WeekdayName(day), hour),
			Confidence: min(float64(len(texts))/5.0, 0.9),
			Kind:       model.KindTimePattern,
		})
	}

	period := timepattern.PeriodOf(hour)
	if texts := patterns[string(period)]; len(texts) >= minPeriodTexts {
		for _, c := range mostCommon(texts, 2) {
			out = append(out, model.Suggestion{
				Task:       c.text,
				Reason:     fmt.Sprintf("Common %s task for you", period),
				Confidence: min(float64(c.count)/float64(len(texts)), 0.8),
				Kind:       model.KindTimePeriod,
			})
		}
	}
	return out
}

func categorySuggestions(categories []learner.Category) []model.Suggestion {
	var out []model.Suggestion
	for _, c := range categories {
		if len(c.Tasks) < minCategoryTasks {
			continue
		}
		texts := make([]string, len(c.Tasks))
		for i, t := range c.Tasks {
			texts[i] = t.Text
		}
		out = append(out, model.Suggestion{
			Task:       mostCommon(texts, 1)[0].text,
			Reason:     fmt.Sprintf("Popular task in your %s category", strings.ReplaceAll(c.Name, "_", " ")),
			Confidence: min(float64(len(c.Tasks))/10.0, 0.7),
			Kind:       model.KindCategoryPattern,
		})
	}
	return out
}

func themeSuggestions(tasks []model.TaskRecord) []model.Suggestion {
	if len(tasks) < minTasksForThemes {
		return nil
	}
	var words []string
	for _, t := range tasks[len(tasks)-recentThemeWindow:] {
		for _, w := range strings.Fields(t.Text) {
			if len(w) > 3 {
				words = append(words, strings.ToLower(w))
			}
		}
	}

	var out []model.Suggestion
	for _, c := range mostCommon(words, maxThemes) {
		if c.count < minThemeCount {
			continue
		}
		out = append(out, model.Suggestion{
			Task:       fmt.Sprintf("Consider another %s-related task", c.text),
			Reason:     fmt.Sprintf("You've been focusing on %s lately", c.text),
			Confidence: min(float64(c.count)/5.0, 0.6),
			Kind:       model.KindThemeBased,
		})
	}
	return out
}

type counted struct {
	text  string
	count int
}

// mostCommon returns the n most frequent items. Ties keep first-seen order.
func mostCommon(items []string, n int) []counted {
	pos := map[string]int{}
	var counts []counted
	for _, item := range items {
		if i, ok := pos[item]; ok {
			counts[i].count++
			continue
		}
		pos[item] = len(counts)
		counts = append(counts, counted{text: item, count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
