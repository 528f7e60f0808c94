// Package assistant captures tasks and serves what has been learned from them.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/taskbrain/internal/learner"
	"github.com/sandeepkv93/taskbrain/internal/logging"
	"github.com/sandeepkv93/taskbrain/internal/metrics"
	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/sandeepkv93/taskbrain/internal/storage"
	"github.com/sandeepkv93/taskbrain/internal/suggest"
	"github.com/sandeepkv93/taskbrain/internal/tracker"
)

var (
	ErrInvalidInput = errors.New("assistant: invalid input")
	ErrTracker      = errors.New("assistant: task tracker failed")
)

type CreatedTask struct {
	ExternalID string               `json:"external_id"`
	Text       string               `json:"text"`
	Category   model.Category       `json:"category"`
	CreatedAt  time.Time            `json:"-"`
	Refit      learner.RefitOutcome `json:"-"`
}

type BulkResult struct {
	Created []CreatedTask `json:"created_tasks"`
	Count   int           `json:"count"`
}

type Option func(*Service)

// WithRepository enables the audit log. Without it tasks are not persisted.
func WithRepository(repo storage.Repository) Option {
	return func(s *Service) { s.repo = repo }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type Service struct {
	learner *learner.Learner
	engine  *suggest.Engine
	tracker tracker.Tracker
	repo    storage.Repository
	metrics *metrics.Recorder
	logger  *logging.Logger
	now     func() time.Time
	loc     *time.Location
}

func New(l *learner.Learner, tr tracker.Tracker, opts ...Option) *Service {
	s := &Service{
		learner: l,
		tracker: tr,
		logger:  logging.NewNop(),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("assistant")
	s.engine = suggest.NewEngine(l, suggest.WithClock(s.now), suggest.WithLocation(s.loc))
	return s
}

// CreateTask predicts a category, creates the remote task, appends it to the
// audit log and learns from it. A tracker failure leaves learned state
// untouched; an audit log failure is logged and otherwise ignored.
func (s *Service) CreateTask(ctx context.Context, userID, text string) (CreatedTask, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(text) == "" {
		return CreatedTask{}, fmt.Errorf("%w: text and user_id required", ErrInvalidInput)
	}
	ctx = logging.WithUserID(ctx, userID)
	category := learner.Predict(text)
	s.logger.Info(ctx, "predicted category", zap.String("category", string(category)))

	start := time.Now()
	externalID, err := s.tracker.CreateTask(ctx, userID, text, category)
	if err != nil {
		s.metrics.TrackerRequest("error", time.Since(start))
		s.metrics.TaskCaptured(string(category), "tracker_error")
		s.logger.Error(ctx, "remote task creation failed", zap.Error(err))
		return CreatedTask{}, fmt.Errorf("%w: %w", ErrTracker, err)
	}
	s.metrics.TrackerRequest("ok", time.Since(start))

	at := s.now()
	if s.repo != nil {
		if _, err := s.repo.AppendTask(ctx, storage.TaskLogEntry{
			UserID:     userID,
			Text:       text,
			CreatedAt:  at,
			ExternalID: externalID,
		}); err != nil {
			s.logger.Warn(ctx, "task log append failed", zap.String("external_id", externalID), zap.Error(err))
		}
	}

	outcome := s.learner.LearnAt(ctx, userID, text, at)
	s.metrics.Refit(string(outcome.Status), outcome.Degraded())
	s.metrics.TaskCaptured(string(category), "ok")
	s.metrics.SetProfiles(len(s.learner.Store().Users()))

	return CreatedTask{
		ExternalID: externalID,
		Text:       text,
		Category:   category,
		CreatedAt:  at,
		Refit:      outcome,
	}, nil
}

// CreateBulk creates each non-blank text in order. It stops at the first
// failure and returns what was created before it alongside the error.
func (s *Service) CreateBulk(ctx context.Context, userID string, texts []string) (BulkResult, error) {
	if strings.TrimSpace(userID) == "" || len(texts) == 0 {
		return BulkResult{Created: []CreatedTask{}}, fmt.Errorf("%w: tasks array and user_id required", ErrInvalidInput)
	}
	out := BulkResult{Created: []CreatedTask{}}
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		created, err := s.CreateTask(ctx, userID, text)
		if err != nil {
			return out, err
		}
		out.Created = append(out.Created, created)
		out.Count = len(out.Created)
	}
	return out, nil
}

func (s *Service) Predict(text string) model.Category {
	return learner.Predict(text)
}

func (s *Service) Suggestions(userID string) []model.Suggestion {
	out := s.engine.Suggestions(userID)
	for _, sug := range out {
		s.metrics.SuggestionServed(string(sug.Kind))
	}
	return out
}

func (s *Service) Completions(userID, partial string, limit int) []model.Completion {
	out := s.engine.Completions(userID, partial, limit)
	s.metrics.CompletionsServed(len(out))
	return out
}

func (s *Service) Insights(userID string) model.Insights {
	return s.learner.Insights(userID)
}

// LoggedTasks counts audit log entries for userID, or all entries when
// userID is empty. It is zero when no repository is configured.
func (s *Service) LoggedTasks(ctx context.Context, userID string) (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	return s.repo.CountTasks(ctx, userID)
}

func (s *Service) Users() []string {
	return s.learner.Store().Users()
}
