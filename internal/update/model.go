package update

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/taskbrain/internal/assistant"
	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/sandeepkv93/taskbrain/internal/scheduler"
)

type View string

const (
	ViewCapture     View = "Capture"
	ViewSuggestions View = "Suggestions"
	ViewInsights    View = "Insights"
)

const (
	recentLimit       = 20
	notificationLimit = 40
	completionLimit   = 3
)

// Service is the slice of the assistant the terminal UI drives.
type Service interface {
	CreateTask(ctx context.Context, userID, text string) (assistant.CreatedTask, error)
	CreateBulk(ctx context.Context, userID string, texts []string) (assistant.BulkResult, error)
	Predict(text string) model.Category
	Suggestions(userID string) []model.Suggestion
	Completions(userID, partial string, limit int) []model.Completion
	Insights(userID string) model.Insights
}

type Config struct {
	UserID    string
	StatePath string
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Capture     string
	Suggestions string
	Insights    string
	Help        string
	Quit        string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView   View
	UserID        string
	Service       Service
	Scheduler     *scheduler.Engine
	Recent        []assistant.CreatedTask
	Suggestions   []model.Suggestion
	Completions   []model.Completion
	Insights      model.Insights
	BoundaryLog   []scheduler.Event
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Pending       int
	Quitting      bool
	LastError     error

	stateFilePath    string
	now              func() time.Time
	captureInput     textinput.Model
	commandInput     textinput.Model
	suggestionList   list.Model
	insightsViewport viewport.Model
	syncSpinner      spinner.Model
	helpModel        help.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TaskCreatedMsg reports a finished single capture.
type TaskCreatedMsg struct {
	Task assistant.CreatedTask
}

// BulkCreatedMsg reports a finished bulk capture. Result holds the tasks
// created before Err, if any.
type BulkCreatedMsg struct {
	Result assistant.BulkResult
	Err    error
}

// SchedulerEventMsg carries a scheduler event into the update loop.
type SchedulerEventMsg struct {
	Event scheduler.Event
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithScheduler(engine *scheduler.Engine) Option {
	return func(m *Model) { m.Scheduler = engine }
}

func NewModel(svc Service, cfg Config, opts ...Option) Model {
	m := Model{
		CurrentView:   ViewCapture,
		UserID:        strings.TrimSpace(cfg.UserID),
		Service:       svc,
		stateFilePath: strings.TrimSpace(cfg.StatePath),
		now:           time.Now,
		Keys: GlobalKeyMap{
			Capture:     "1",
			Suggestions: "2",
			Insights:    "3",
			Help:        "?",
			Quit:        "q",
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.stateFilePath != "" {
		if state, err := loadSessionState(m.stateFilePath); err == nil && state.UserID != "" {
			m.UserID = state.UserID
		}
	}
	if m.UserID == "" {
		m.UserID = "local"
	}
	m.initBubbleComponents()
	m.refresh()
	return m
}

func (m *Model) initBubbleComponents() {
	m.captureInput = textinput.New()
	m.captureInput.Prompt = "add> "
	m.captureInput.Placeholder = "what needs doing?"
	m.captureInput.CharLimit = 256
	m.captureInput.Width = 48
	m.captureInput.Focus()

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 512
	m.commandInput.Width = 48

	m.suggestionList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.suggestionList.Title = "Suggestions"
	m.suggestionList.SetShowHelp(false)
	m.suggestionList.SetFilteringEnabled(false)

	m.insightsViewport = viewport.New(56, 16)

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}
