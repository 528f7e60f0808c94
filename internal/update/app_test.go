package update

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbrain/internal/assistant"
	"github.com/sandeepkv93/taskbrain/internal/model"
	"github.com/sandeepkv93/taskbrain/internal/scheduler"
)

type fakeService struct {
	created     []string
	bulk        [][]string
	refreshes   int
	createErr   error
	bulkErr     error
	completions []model.Completion
}

func (f *fakeService) CreateTask(_ context.Context, userID, text string) (assistant.CreatedTask, error) {
	if f.createErr != nil {
		return assistant.CreatedTask{}, f.createErr
	}
	f.created = append(f.created, userID+":"+text)
	return assistant.CreatedTask{ExternalID: "ext-1", Text: text, Category: model.CategoryShopping}, nil
}

func (f *fakeService) CreateBulk(_ context.Context, _ string, texts []string) (assistant.BulkResult, error) {
	f.bulk = append(f.bulk, texts)
	res := assistant.BulkResult{Created: []assistant.CreatedTask{{ExternalID: "ext-1", Text: texts[0]}}, Count: 1}
	return res, f.bulkErr
}

func (f *fakeService) Predict(string) model.Category { return model.CategoryShopping }

func (f *fakeService) Suggestions(string) []model.Suggestion {
	f.refreshes++
	return []model.Suggestion{
		{Task: "Review calendar", Reason: "Good way to start the day", Confidence: 0.8, Kind: model.KindDefault},
		{Task: "Check email", Reason: "Stay on top of communications", Confidence: 0.7, Kind: model.KindDefault},
	}
}

func (f *fakeService) Completions(string, string, int) []model.Completion { return f.completions }

func (f *fakeService) Insights(string) model.Insights {
	return model.Insights{TotalTasks: 2, SampleCategories: []model.CategorySample{}}
}

var monday = time.Date(2026, 2, 9, 9, 30, 0, 0, time.UTC)

func newTestModel(t *testing.T, svc *fakeService, cfg Config, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return monday })}, opts...)
	return NewModel(svc, cfg, opts...)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeRunes(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next
}

func runPalette(t *testing.T, m Model, command string) (Model, tea.Cmd) {
	t.Helper()
	m = m.switchView(ViewSuggestions)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if !m.Palette.Active {
		t.Fatalf("expected palette to open")
	}
	m = typeRunes(t, m, command)
	return press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestNewModelDefaults(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Config{})
	if m.CurrentView != ViewCapture {
		t.Fatalf("expected default view %q, got %q", ViewCapture, m.CurrentView)
	}
	if m.UserID != "local" {
		t.Fatalf("expected default user local, got %q", m.UserID)
	}
	if len(m.Suggestions) != 2 || svc.refreshes != 1 {
		t.Fatalf("expected suggestions loaded once, got %d after %d refreshes", len(m.Suggestions), svc.refreshes)
	}
	if m.Insights.TotalTasks != 2 {
		t.Fatalf("expected insights loaded, got %+v", m.Insights)
	}
}

func TestCaptureEnterStartsCreate(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Config{UserID: "alice"})
	m.captureInput.SetValue("buy milk")

	next, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected create command")
	}
	if next.Pending != 1 {
		t.Fatalf("expected one pending capture, got %d", next.Pending)
	}
	if next.captureInput.Value() != "" {
		t.Fatalf("expected input cleared, got %q", next.captureInput.Value())
	}

	msg := createTaskCmd(svc, "alice", "buy milk")()
	created, ok := msg.(TaskCreatedMsg)
	if !ok {
		t.Fatalf("expected TaskCreatedMsg, got %T", msg)
	}
	if len(svc.created) != 1 || svc.created[0] != "alice:buy milk" {
		t.Fatalf("unexpected service calls: %v", svc.created)
	}

	updated, _ := next.Update(created)
	done := updated.(Model)
	if done.Pending != 0 {
		t.Fatalf("expected pending cleared, got %d", done.Pending)
	}
	if len(done.Recent) != 1 || done.Recent[0].Text != "buy milk" {
		t.Fatalf("expected capture recorded, got %+v", done.Recent)
	}
	if !strings.Contains(done.Status.Text, "shopping") {
		t.Fatalf("expected category in status, got %q", done.Status.Text)
	}
	if svc.refreshes != 2 {
		t.Fatalf("expected refresh after capture, got %d", svc.refreshes)
	}
}

func TestCaptureEmptyInputIsRejected(t *testing.T) {
	m := newTestModel(t, &fakeService{}, Config{})
	next, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || next.Pending != 0 {
		t.Fatalf("expected no capture for empty input")
	}
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestCaptureFailureSurfacesError(t *testing.T) {
	svc := &fakeService{createErr: errors.New("tracker down")}
	m := newTestModel(t, svc, Config{})
	m.Pending = 1

	msg := createTaskCmd(svc, "local", "x")()
	updated, _ := m.Update(msg)
	next := updated.(Model)
	if next.Pending != 0 {
		t.Fatalf("expected pending cleared, got %d", next.Pending)
	}
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "tracker down" {
		t.Fatalf("unexpected error state: %+v %v", next.Status, next.LastError)
	}
	if len(next.Recent) != 0 {
		t.Fatalf("expected nothing recorded, got %+v", next.Recent)
	}
}

func TestCaptureViewOwnsShortcutKeys(t *testing.T) {
	m := newTestModel(t, &fakeService{}, Config{})
	m = typeRunes(t, m, "q2")
	if m.Quitting || m.CurrentView != ViewCapture {
		t.Fatalf("expected keys typed into capture input")
	}
	if m.captureInput.Value() != "q2" {
		t.Fatalf("expected input q2, got %q", m.captureInput.Value())
	}
}

func TestViewSwitching(t *testing.T) {
	m := newTestModel(t, &fakeService{}, Config{})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentView != ViewSuggestions {
		t.Fatalf("expected suggestions view, got %q", m.CurrentView)
	}
	m = typeRunes(t, m, "3")
	if m.CurrentView != ViewInsights {
		t.Fatalf("expected insights view, got %q", m.CurrentView)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.CurrentView != ViewCapture {
		t.Fatalf("expected capture view, got %q", m.CurrentView)
	}

	updated, _ := m.Update(SwitchViewMsg{View: View("Unknown")})
	if updated.(Model).CurrentView != ViewCapture {
		t.Fatalf("expected view unchanged for unknown view")
	}
}

func TestQuitOutsideCapture(t *testing.T) {
	m := newTestModel(t, &fakeService{}, Config{})
	m = m.switchView(ViewInsights)
	next, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !next.Quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
}

func TestSuggestionsEnterCapturesSelected(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Config{})
	m = m.switchView(ViewSuggestions)
	next, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || next.Pending != 1 {
		t.Fatalf("expected capture of selected suggestion")
	}
	if !strings.Contains(next.Status.Text, "Review calendar") {
		t.Fatalf("expected first suggestion captured, got %q", next.Status.Text)
	}
}

func TestPaletteUserSwitchPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tui.json")
	svc := &fakeService{}
	m := newTestModel(t, svc, Config{UserID: "alice", StatePath: path})

	next, _ := runPalette(t, m, "user bob")
	if next.UserID != "bob" {
		t.Fatalf("expected user bob, got %q", next.UserID)
	}
	if next.Palette.Active {
		t.Fatalf("expected palette closed after command")
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	reloaded := newTestModel(t, svc, Config{UserID: "alice", StatePath: path})
	if reloaded.UserID != "bob" {
		t.Fatalf("expected persisted user bob, got %q", reloaded.UserID)
	}
}

func TestPalettePredictAndComplete(t *testing.T) {
	svc := &fakeService{completions: []model.Completion{{Completion: "daily standup", Confidence: 0.71, Kind: model.KindLearnedCompletion}}}
	m := newTestModel(t, svc, Config{})

	next, _ := runPalette(t, m, "predict buy milk")
	if next.Status.Text != "predicted category: shopping" {
		t.Fatalf("unexpected predict status: %q", next.Status.Text)
	}

	next, _ = runPalette(t, next, "complete sta")
	if len(next.Completions) != 1 || next.CurrentView != ViewSuggestions {
		t.Fatalf("expected completions shown, got %+v in %q", next.Completions, next.CurrentView)
	}
	if !strings.Contains(next.View(), "daily standup") {
		t.Fatalf("expected completion rendered")
	}
}

func TestPaletteAddAndBulk(t *testing.T) {
	svc := &fakeService{bulkErr: errors.New("rate limited")}
	m := newTestModel(t, svc, Config{})

	next, cmd := runPalette(t, m, "add buy milk")
	if cmd == nil || next.Pending != 1 {
		t.Fatalf("expected capture queued from palette")
	}

	next, cmd = runPalette(t, next, "bulk a; b")
	if cmd == nil || next.Pending != 2 {
		t.Fatalf("expected bulk queued, pending=%d", next.Pending)
	}

	msg := createBulkCmd(svc, "local", []string{"a", "b"})()
	updated, _ := next.Update(msg)
	done := updated.(Model)
	if done.Pending != 1 {
		t.Fatalf("expected one pending left, got %d", done.Pending)
	}
	if !done.Status.IsError || !strings.Contains(done.Status.Text, "captured 1 task(s) before error") {
		t.Fatalf("unexpected bulk status: %+v", done.Status)
	}
	if len(done.Recent) != 1 {
		t.Fatalf("expected partial result recorded, got %+v", done.Recent)
	}
}

func TestPaletteErrors(t *testing.T) {
	m := newTestModel(t, &fakeService{}, Config{})
	next, _ := runPalette(t, m, "snooze all")
	if !next.Status.IsError || !strings.Contains(next.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", next.Status)
	}

	m = m.switchView(ViewSuggestions)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Palette.Active {
		t.Fatalf("expected esc to close palette")
	}
}

func TestPaletteRefreshGoesThroughScheduler(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, Config{})
	m, _ = runPalette(t, m, "refresh")
	if svc.refreshes != 2 || m.Status.Text != "refreshed suggestions and insights" {
		t.Fatalf("expected direct refresh without scheduler, got %d refreshes, status %q", svc.refreshes, m.Status.Text)
	}

	engine := scheduler.NewEngine(4)
	svc = &fakeService{}
	m = newTestModel(t, svc, Config{}, WithScheduler(engine))
	m, _ = runPalette(t, m, "refresh")
	if svc.refreshes != 1 || m.Status.Text != "refresh queued" {
		t.Fatalf("expected queued refresh, got %d refreshes, status %q", svc.refreshes, m.Status.Text)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one refresh event queued, got %d", engine.Pending())
	}
}

func TestInitSchedulesBoundary(t *testing.T) {
	engine := scheduler.NewEngine(4)
	m := newTestModel(t, &fakeService{}, Config{}, WithScheduler(engine))
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected init command")
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected one boundary queued, got %d", engine.Pending())
	}
}

func TestBoundaryEventRefreshesAndReschedules(t *testing.T) {
	engine := scheduler.NewEngine(4)
	svc := &fakeService{}
	m := newTestModel(t, svc, Config{}, WithScheduler(engine))

	ev := scheduler.BoundaryEvent(monday)
	updated, cmd := m.Update(SchedulerEventMsg{Event: ev})
	next := updated.(Model)
	if cmd == nil {
		t.Fatalf("expected wait command")
	}
	if svc.refreshes != 2 {
		t.Fatalf("expected refresh on boundary, got %d", svc.refreshes)
	}
	if len(next.BoundaryLog) != 1 || next.BoundaryLog[0].ID != ev.ID {
		t.Fatalf("unexpected boundary log: %+v", next.BoundaryLog)
	}
	if engine.Pending() != 1 {
		t.Fatalf("expected next boundary queued, got %d", engine.Pending())
	}
	if next.Status.Text != "morning suggestions ready" {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}

	updated, _ = next.Update(SchedulerEventMsg{Event: scheduler.Event{ID: "manual", Kind: scheduler.KindRefresh, At: monday}})
	if engine.Pending() != 1 {
		t.Fatalf("expected refresh event not to reschedule, got %d queued", engine.Pending())
	}
	if updated.(Model).Status.Text != "suggestions refreshed" {
		t.Fatalf("unexpected status after refresh event")
	}
}

func TestViewRendersHeaderAndHelp(t *testing.T) {
	m := newTestModel(t, &fakeService{}, Config{UserID: "alice"})
	m = m.switchView(ViewSuggestions)
	m = typeRunes(t, m, "?")
	out := m.View()
	for _, want := range []string{"taskbrain | view: Suggestions | user: alice", "Review calendar", "help:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}
