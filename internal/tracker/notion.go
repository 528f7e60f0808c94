package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sandeepkv93/taskbrain/internal/logging"
	"github.com/sandeepkv93/taskbrain/internal/model"
)

const (
	notionVersion        = "2022-06-28"
	defaultNotionBaseURL = "https://api.notion.com/v1"
	defaultDatabaseTitle = "Daily Tasks"
	defaultRatePerSecond = 3
	defaultTimeout       = 30 * time.Second
	databaseCacheTTL     = 24 * time.Hour

	statusTodo = "Todo"
	statusDone = "Done"
)

var (
	ErrMissingToken      = errors.New("tracker: notion token required")
	ErrMissingParentPage = errors.New("tracker: parent page id required to create the database")
)

// APIError is a non-2xx response from Notion.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("tracker: notion returned %d", e.Status)
	}
	return fmt.Sprintf("tracker: notion returned %d (%s): %s", e.Status, e.Code, e.Message)
}

type NotionConfig struct {
	Token         string
	ParentPageID  string
	DatabaseTitle string
	BaseURL       string
	RatePerSecond float64
	Timeout       time.Duration
}

// NotionTracker writes tasks as pages in a Notion database. The database is
// found by title or created under ParentPageID on first use, and its id is
// cached.
type NotionTracker struct {
	cfg     NotionConfig
	client  *http.Client
	limiter *rate.Limiter
	ids     *cache.Cache
	logger  *logging.Logger
}

func NewNotionTracker(cfg NotionConfig, logger *logging.Logger) (*NotionTracker, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.DatabaseTitle == "" {
		cfg.DatabaseTitle = defaultDatabaseTitle
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNotionBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRatePerSecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &NotionTracker{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		ids:     cache.New(databaseCacheTTL, time.Hour),
		logger:  logger.Named("notion"),
	}, nil
}

func (n *NotionTracker) CreateTask(ctx context.Context, userID, text string, category model.Category) (string, error) {
	if err := validate(userID, text); err != nil {
		return "", err
	}
	dbID, err := n.ensureDatabase(ctx)
	if err != nil {
		return "", err
	}

	props := map[string]any{
		"Task":   titleProp(text),
		"Status": map[string]any{"select": map[string]any{"name": statusTodo}},
		"User":   map[string]any{"rich_text": []any{textObj(userID)}},
	}
	if label := categoryLabel(category); label != "" {
		props["Category"] = map[string]any{"select": map[string]any{"name": label}}
	}

	var page struct {
		ID string `json:"id"`
	}
	body := map[string]any{
		"parent":     map[string]any{"database_id": dbID},
		"properties": props,
	}
	if err := n.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return "", fmt.Errorf("create page: %w", err)
	}
	n.logger.Debug(ctx, "notion page created", zap.String("page_id", page.ID))
	return page.ID, nil
}

// ensureDatabase returns the task database id, searching before creating.
// A failed search falls through to creation.
func (n *NotionTracker) ensureDatabase(ctx context.Context) (string, error) {
	if id, ok := n.ids.Get(n.cfg.DatabaseTitle); ok {
		return id.(string), nil
	}

	var found struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	search := map[string]any{
		"query":  n.cfg.DatabaseTitle,
		"filter": map[string]any{"value": "database", "property": "object"},
	}
	err := n.do(ctx, http.MethodPost, "/search", search, &found)
	switch {
	case err == nil && len(found.Results) > 0:
		n.ids.SetDefault(n.cfg.DatabaseTitle, found.Results[0].ID)
		return found.Results[0].ID, nil
	case err != nil:
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		n.logger.Warn(ctx, "notion database search failed", zap.Error(err))
	}

	if n.cfg.ParentPageID == "" {
		return "", ErrMissingParentPage
	}
	var created struct {
		ID string `json:"id"`
	}
	body := map[string]any{
		"parent": map[string]any{"type": "page_id", "page_id": n.cfg.ParentPageID},
		"title":  []any{map[string]any{"type": "text", "text": map[string]any{"content": n.cfg.DatabaseTitle}}},
		"properties": map[string]any{
			"Task": map[string]any{"title": map[string]any{}},
			"Status": map[string]any{"select": map[string]any{"options": []any{
				map[string]any{"name": statusTodo, "color": "yellow"},
				map[string]any{"name": statusDone, "color": "green"},
			}}},
			"Category": map[string]any{"select": map[string]any{}},
			"User":     map[string]any{"rich_text": map[string]any{}},
		},
	}
	if err := n.do(ctx, http.MethodPost, "/databases", body, &created); err != nil {
		return "", fmt.Errorf("create database: %w", err)
	}
	n.logger.Info(ctx, "notion database created", zap.String("database_id", created.ID))
	n.ids.SetDefault(n.cfg.DatabaseTitle, created.ID)
	return created.ID, nil
}

func (n *NotionTracker) do(ctx context.Context, method, path string, in, out any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, n.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.Token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func textObj(content string) map[string]any {
	return map[string]any{"type": "text", "text": map[string]any{"content": content}}
}

func titleProp(content string) map[string]any {
	return map[string]any{"title": []any{textObj(content)}}
}
