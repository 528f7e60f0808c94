package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidKind       = errors.New("model: invalid suggestion kind")
	ErrInvalidConfidence = errors.New("model: confidence out of range")
	ErrInvalidHour       = errors.New("model: hour of day out of range")
	ErrInvalidDay        = errors.New("model: day of week out of range")
)

// Category is a label produced by keyword classification or clustering.
type Category string

const (
	CategoryDevelopment Category = "development"
	CategoryWork        Category = "work"
	CategoryShopping    Category = "shopping"
	CategoryHealth      Category = "health"
	CategoryHome        Category = "home"
	CategoryGeneral     Category = "general"
	CategoryUnknown     Category = "unknown"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryDevelopment, CategoryWork, CategoryShopping, CategoryHealth, CategoryHome, CategoryGeneral, CategoryUnknown:
		return true
	default:
		return false
	}
}

// TaskRecord is one observed task. Records are never mutated after creation.
type TaskRecord struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	HourOfDay int       `json:"hour"`
	DayOfWeek int       `json:"day"`
}

func NewTaskRecord(text string, ts time.Time) TaskRecord {
	return TaskRecord{
		Text:      text,
		Timestamp: ts,
		HourOfDay: ts.Hour(),
		DayOfWeek: ISOWeekday(ts),
	}
}

func (r TaskRecord) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("model: task text is required")
	}
	if r.Timestamp.IsZero() {
		return errors.New("model: task timestamp is required")
	}
	if r.HourOfDay < 0 || r.HourOfDay > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, r.HourOfDay)
	}
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("%w: %d", ErrInvalidDay, r.DayOfWeek)
	}
	return nil
}

// ISOWeekday numbers days Monday=0 through Sunday=6.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekdayName is the inverse of ISOWeekday.
func WeekdayName(day int) string {
	return time.Weekday((day + 1) % 7).String()
}

type SuggestionKind string

const (
	KindTimePattern       SuggestionKind = "time_pattern"
	KindTimePeriod        SuggestionKind = "time_period"
	KindCategoryPattern   SuggestionKind = "category_pattern"
	KindThemeBased        SuggestionKind = "theme_based"
	KindDefault           SuggestionKind = "default"
	KindLearnedCompletion SuggestionKind = "learned_completion"
)

func (k SuggestionKind) IsValid() bool {
	switch k {
	case KindTimePattern, KindTimePeriod, KindCategoryPattern, KindThemeBased, KindDefault, KindLearnedCompletion:
		return true
	default:
		return false
	}
}

type Suggestion struct {
	Task       string         `json:"task"`
	Reason     string         `json:"reason"`
	Confidence float64        `json:"confidence"`
	Kind       SuggestionKind `json:"type"`
}

func (s Suggestion) Validate() error {
	if strings.TrimSpace(s.Task) == "" {
		return errors.New("model: suggestion task is required")
	}
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, s.Kind)
	}
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidConfidence, s.Confidence)
	}
	return nil
}

type Completion struct {
	Completion string         `json:"completion"`
	Confidence float64        `json:"confidence"`
	Kind       SuggestionKind `json:"type"`
}

type SimilarTask struct {
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

type CategorySample struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

type Insights struct {
	TotalTasks       int              `json:"total_tasks"`
	CategoriesFound  int              `json:"categories_found"`
	TimePatterns     int              `json:"time_patterns"`
	SampleCategories []CategorySample `json:"sample_categories"`
}
