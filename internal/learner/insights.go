package learner

import (
	"sort"

	"github.com/sandeepkv93/taskbrain/internal/model"
)

const (
	sampleCategories = 3
	samplesPerGroup  = 3
)

// Snapshot copies a user's learned state. Unknown users get an empty
// snapshot and no profile is created.
func (l *Learner) Snapshot(userID string) Snapshot {
	p, ok := l.store.Get(userID)
	if !ok {
		return Snapshot{UserID: userID}
	}
	return p.snapshot(userID)
}

func (l *Learner) Insights(userID string) model.Insights {
	snap := l.Snapshot(userID)
	out := model.Insights{
		TotalTasks:       len(snap.Tasks),
		CategoriesFound:  len(snap.Categories),
		TimePatterns:     len(snap.Patterns),
		SampleCategories: []model.CategorySample{},
	}
	for i, c := range snap.Categories {
		if i == sampleCategories {
			break
		}
		sample := model.CategorySample{Name: c.Name, Tasks: []string{}}
		for j, t := range c.Tasks {
			if j == samplesPerGroup {
				break
			}
			sample.Tasks = append(sample.Tasks, t.Text)
		}
		out.SampleCategories = append(out.SampleCategories, sample)
	}
	return out
}

// SimilarTasks ranks the user's fitted tasks by cosine similarity to
// partial. Without a fitted vector space the result is empty.
func (l *Learner) SimilarTasks(userID, partial string, limit int) []model.SimilarTask {
	out := []model.SimilarTask{}
	if limit <= 0 {
		return out
	}
	p, ok := l.store.Get(userID)
	if !ok {
		return out
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.space == nil {
		return out
	}
	query := p.space.Transform(partial)
	for i, vec := range p.space.vectors {
		out = append(out, model.SimilarTask{Text: p.space.texts[i], Similarity: cosine(query, vec)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
