package learner

import (
	"sort"
	"sync"

	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/sandeepkv93/taskbrain/internal/timepattern"
)

// Category is a named group of tasks, either a discovered cluster (type_N)
// or a keyword bucket.
type Category struct {
	Name  string
	Tasks []model.TaskRecord
}

// Profile is one user's learned state. Every field is guarded by mu.
type Profile struct {
	mu         sync.Mutex
	tasks      []model.TaskRecord
	space      *vectorSpace
	categories []Category
	patterns   timepattern.Patterns
}

func newProfile() *Profile {
	return &Profile{patterns: timepattern.Patterns{}}
}

// Store owns every user's profile. Profiles are created on first write and
// live for the lifetime of the store. The map lock is held only for lookup;
// work on a profile is serialised by that profile's own lock.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewStore() *Store {
	return &Store{profiles: map[string]*Profile{}}
}

// Get returns the profile for userID without creating it.
func (s *Store) Get(userID string) (*Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	return p, ok
}

func (s *Store) GetOrCreate(userID string) *Profile {
	if p, ok := s.Get(userID); ok {
		return p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p
	}
	p := newProfile()
	s.profiles[userID] = p
	return p
}

// Users lists known user ids in sorted order.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot is a read-only copy of a profile.
type Snapshot struct {
	UserID     string
	Tasks      []model.TaskRecord
	Categories []Category
	Patterns   timepattern.Patterns
	Fitted     bool
}

func (p *Profile) snapshot(userID string) Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	cats := make([]Category, len(p.categories))
	for i, c := range p.categories {
		cats[i] = Category{Name: c.Name, Tasks: append([]model.TaskRecord(nil), c.Tasks...)}
	}
	return Snapshot{
		UserID:     userID,
		Tasks:      append([]model.TaskRecord(nil), p.tasks...),
		Categories: cats,
		Patterns:   p.patterns.Clone(),
		Fitted:     p.space != nil,
	}
}
