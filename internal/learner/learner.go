// Package learner keeps per-user task history and derives categories from it.
package learner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskbrain/internal/classify"
	"github.com/sandeepkv93/taskbrain/internal/logging"
	"github.com/sandeepkv93/taskbrain/internal/model"
)

const (
	minTasksForRefit   = 3
	minTasksForCluster = 4
)

// RefitStatus describes what a Learn call did to a profile's categories.
type RefitStatus string

const (
	// RefitSkipped: fewer than three tasks, nothing derived.
	RefitSkipped RefitStatus = "skipped"
	// RefitFitted: vector space fitted, too few tasks to categorise.
	RefitFitted RefitStatus = "fitted"
	// RefitClustered: categories come from clustering.
	RefitClustered RefitStatus = "clustered"
	// RefitFallback: categories come from keyword buckets.
	RefitFallback RefitStatus = "fallback"
)

// RefitOutcome reports the result of learning one task. Failures inside the
// learning path are recorded here and never returned as errors.
type RefitOutcome struct {
	Status     RefitStatus
	Tasks      int
	Categories int
	VectorErr  error
	ClusterErr error
}

func (o RefitOutcome) Degraded() bool {
	return o.VectorErr != nil || o.ClusterErr != nil
}

type Option func(*Learner)

func WithClock(now func() time.Time) Option {
	return func(l *Learner) { l.now = now }
}

// WithLocation sets the zone used to derive hour and weekday.
func WithLocation(loc *time.Location) Option {
	return func(l *Learner) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(l *Learner) {
		if logger != nil {
			l.logger = logger
		}
	}
}

type Learner struct {
	store  *Store
	logger *logging.Logger
	now    func() time.Time
	loc    *time.Location
}

func New(store *Store, opts ...Option) *Learner {
	if store == nil {
		store = NewStore()
	}
	l := &Learner{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Learner) Store() *Store {
	return l.store
}

// Predict returns the keyword category for text. Learned state plays no part.
func Predict(text string) model.Category {
	return classify.Classify(text)
}

// Learn records text for userID at the current time.
func (l *Learner) Learn(ctx context.Context, userID, text string) RefitOutcome {
	return l.LearnAt(ctx, userID, text, l.now())
}

// LearnAt records text with an explicit capture time, used when replaying
// history.
func (l *Learner) LearnAt(ctx context.Context, userID, text string, at time.Time) RefitOutcome {
	rec := model.NewTaskRecord(text, at.In(l.loc))
	p := l.store.GetOrCreate(userID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, rec)
	p.patterns.Record(rec)
	if len(p.tasks) < minTasksForRefit {
		return RefitOutcome{Status: RefitSkipped, Tasks: len(p.tasks)}
	}
	out := l.refit(p)

	ctx = logging.WithUserID(ctx, userID)
	if out.VectorErr != nil {
		l.logger.Warn(ctx, "learning update failed", zap.Int("tasks", out.Tasks), zap.Error(out.VectorErr))
	}
	if out.ClusterErr != nil {
		l.logger.Warn(ctx, "clustering failed, using keyword categories", zap.Int("tasks", out.Tasks), zap.Error(out.ClusterErr))
	}
	l.logger.Debug(ctx, "profile refit",
		zap.String("status", string(out.Status)),
		zap.Int("tasks", out.Tasks),
		zap.Int("categories", out.Categories))
	return out
}

// refit recomputes the vector space and categories. Caller holds p.mu.
func (l *Learner) refit(p *Profile) RefitOutcome {
	out := RefitOutcome{Tasks: len(p.tasks)}

	texts := make([]string, len(p.tasks))
	for i, t := range p.tasks {
		texts[i] = t.Text
	}
	if space, err := fitVectorSpace(texts); err != nil {
		out.VectorErr = err
	} else {
		p.space = space
	}

	if len(p.tasks) < minTasksForCluster {
		out.Status = RefitFitted
		out.Categories = len(p.categories)
		return out
	}

	cats, err := l.cluster(p)
	if err != nil {
		out.ClusterErr = err
		cats = bucketCategories(p.tasks)
		out.Status = RefitFallback
	} else {
		out.Status = RefitClustered
	}
	p.categories = cats
	out.Categories = len(cats)
	return out
}

func (l *Learner) cluster(p *Profile) ([]Category, error) {
	if p.space == nil {
		return nil, fmt.Errorf("learner: no vector space fitted")
	}
	if len(p.space.vectors) != len(p.tasks) {
		return nil, fmt.Errorf("learner: vector space covers %d of %d tasks", len(p.space.vectors), len(p.tasks))
	}
	labels, err := kmeans(p.space.vectors, clusterCount(len(p.tasks)))
	if err != nil {
		return nil, err
	}
	var cats []Category
	for i, label := range labels {
		if label == len(cats) {
			cats = append(cats, Category{Name: fmt.Sprintf("type_%d", label)})
		}
		cats[label].Tasks = append(cats[label].Tasks, p.tasks[i])
	}
	return cats, nil
}

// bucketCategories groups tasks by keyword bucket in order of first use.
func bucketCategories(tasks []model.TaskRecord) []Category {
	var cats []Category
	pos := map[string]int{}
	for _, t := range tasks {
		name := classify.Bucket(t.Text)
		i, ok := pos[name]
		if !ok {
			i = len(cats)
			pos[name] = i
			cats = append(cats, Category{Name: name})
		}
		cats[i].Tasks = append(cats[i].Tasks, t)
	}
	return cats
}
