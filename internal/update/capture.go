package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbrain/internal/assistant"
)

func createTaskCmd(svc Service, userID, text string) tea.Cmd {
	return func() tea.Msg {
		task, err := svc.CreateTask(context.Background(), userID, text)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TaskCreatedMsg{Task: task}
	}
}

func createBulkCmd(svc Service, userID string, texts []string) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.CreateBulk(context.Background(), userID, texts)
		return BulkCreatedMsg{Result: res, Err: err}
	}
}

// startCapture queues text for creation and starts the spinner.
func (m Model) startCapture(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" {
		m.Status = StatusBar{Text: "nothing to capture", IsError: true}
		return m, nil
	}
	if m.Service == nil {
		m.Status = StatusBar{Text: "assistant not configured", IsError: true}
		return m, nil
	}
	m.Pending++
	m.Status = StatusBar{Text: fmt.Sprintf("capturing: %s", text)}
	return m, tea.Batch(createTaskCmd(m.Service, m.UserID, text), m.syncSpinner.Tick)
}

func (m Model) startBulk(texts []string) (Model, tea.Cmd) {
	if m.Service == nil {
		m.Status = StatusBar{Text: "assistant not configured", IsError: true}
		return m, nil
	}
	m.Pending++
	m.Status = StatusBar{Text: fmt.Sprintf("capturing %d task(s)", len(texts))}
	return m, tea.Batch(createBulkCmd(m.Service, m.UserID, texts), m.syncSpinner.Tick)
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.captureInput.Value()
		m.captureInput.SetValue("")
		return m.startCapture(text)
	case "esc":
		m.captureInput.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.captureInput, cmd = m.captureInput.Update(msg)
	return m, cmd
}

func (m Model) handleSuggestionsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if len(m.Suggestions) == 0 {
			return m, nil
		}
		idx := m.suggestionList.Index()
		if idx < 0 || idx >= len(m.Suggestions) {
			return m, nil
		}
		return m.startCapture(m.Suggestions[idx].Task)
	case "r":
		m.refresh()
		m.Status = StatusBar{Text: "suggestions refreshed"}
		return m, nil
	}
	var cmd tea.Cmd
	m.suggestionList, cmd = m.suggestionList.Update(msg)
	return m, cmd
}

func (m Model) handleInsightsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "r" {
		m.refresh()
		m.Status = StatusBar{Text: "insights refreshed"}
		return m, nil
	}
	var cmd tea.Cmd
	m.insightsViewport, cmd = m.insightsViewport.Update(msg)
	return m, cmd
}

func (m *Model) recordCaptured(tasks ...assistant.CreatedTask) {
	m.Recent = append(m.Recent, tasks...)
	if len(m.Recent) > recentLimit {
		m.Recent = m.Recent[len(m.Recent)-recentLimit:]
	}
}

func (m *Model) finishPending() {
	if m.Pending > 0 {
		m.Pending--
	}
}
