package http

import "github.com/sandeepkv93/taskbrain/internal/model"

// TaskRequest is the body of POST /task.
type TaskRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

type TaskResponse struct {
	ExternalID        string         `json:"external_id"`
	PredictedCategory model.Category `json:"predicted_category"`
}

// BulkRequest is the body of POST /tasks/bulk.
type BulkRequest struct {
	Tasks  []string `json:"tasks"`
	UserID string   `json:"user_id"`
}

type BulkTask struct {
	ExternalID string         `json:"external_id"`
	Text       string         `json:"text"`
	Category   model.Category `json:"category"`
}

type BulkResponse struct {
	CreatedTasks []BulkTask `json:"created_tasks"`
	Count        int        `json:"count"`
	Error        string     `json:"error,omitempty"`
}

type SuggestionsResponse struct {
	UserID      string             `json:"user_id"`
	Suggestions []model.Suggestion `json:"suggestions"`
}

type CompletionsResponse struct {
	UserID      string             `json:"user_id"`
	Completions []model.Completion `json:"completions"`
}

type PredictResponse struct {
	Text     string         `json:"text"`
	Category model.Category `json:"category"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	TasksLogged int    `json:"tasks_logged"`
}
