package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbrain/internal/scheduler"
	"github.com/sandeepkv93/taskbrain/internal/views"
)

const boundaryLogLimit = 20

func (m Model) Init() tea.Cmd {
	if m.Scheduler == nil {
		return textinput.Blink
	}
	if err := m.Scheduler.Schedule(scheduler.BoundaryEvent(m.now())); err != nil {
		return tea.Batch(textinput.Blink, func() tea.Msg { return AppErrorMsg{Err: err} })
	}
	return tea.Batch(textinput.Blink, waitForSchedulerCmd(m.Scheduler.C()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case spinner.TickMsg:
		if m.Pending > 0 {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m = m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.finishPending()
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case TaskCreatedMsg:
		m.finishPending()
		m.recordCaptured(typed.Task)
		m.refresh()
		m.Status = StatusBar{Text: fmt.Sprintf("captured %q as %s", typed.Task.Text, typed.Task.Category)}
		m.notify("Captured", m.Status.Text, "info")
		return m, nil
	case BulkCreatedMsg:
		m.finishPending()
		m.recordCaptured(typed.Result.Created...)
		m.refresh()
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("captured %d task(s) before error: %v", typed.Result.Count, typed.Err), IsError: true}
			m.notify("Error", m.Status.Text, "error")
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("captured %d task(s)", typed.Result.Count)}
		m.notify("Captured", m.Status.Text, "info")
		return m, nil
	case SchedulerEventMsg:
		return m.handleSchedulerEvent(typed.Event)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if keyStr == "tab" {
		return m.switchView(nextView(m.CurrentView)), nil
	}
	// The capture input owns every other key while it is focused.
	if m.CurrentView == ViewCapture {
		if keyStr == "/" && m.captureInput.Value() == "" {
			return m.openPalette(), nil
		}
		return m.handleCaptureKey(msg)
	}

	switch keyStr {
	case "/":
		return m.openPalette(), nil
	case m.Keys.Capture:
		return m.switchView(ViewCapture), nil
	case m.Keys.Suggestions:
		return m.switchView(ViewSuggestions), nil
	case m.Keys.Insights:
		return m.switchView(ViewInsights), nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewSuggestions:
		return m.handleSuggestionsKey(msg)
	case ViewInsights:
		return m.handleInsightsKey(msg)
	}
	return m, nil
}

func (m Model) switchView(v View) Model {
	m.CurrentView = v
	if v == ViewCapture {
		m.captureInput.Focus()
	} else {
		m.captureInput.Blur()
	}
	return m
}

// handleSchedulerEvent refreshes learned state and, for period changes,
// queues the next boundary so the loop keeps running.
func (m Model) handleSchedulerEvent(ev scheduler.Event) (Model, tea.Cmd) {
	m.BoundaryLog = append(m.BoundaryLog, ev)
	if len(m.BoundaryLog) > boundaryLogLimit {
		m.BoundaryLog = m.BoundaryLog[len(m.BoundaryLog)-boundaryLogLimit:]
	}
	m.refresh()
	if ev.Kind == scheduler.KindPeriodBoundary {
		m.Status = StatusBar{Text: fmt.Sprintf("%s suggestions ready", ev.Period)}
	} else {
		m.Status = StatusBar{Text: "suggestions refreshed"}
	}
	m.notify("Scheduler", m.Status.Text, "info")
	if m.Scheduler == nil {
		return m, nil
	}
	if ev.Kind == scheduler.KindPeriodBoundary {
		next := ev.At
		if now := m.now(); now.After(next) {
			next = now
		}
		if err := m.Scheduler.Schedule(scheduler.BoundaryEvent(next)); err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
	}
	return m, waitForSchedulerCmd(m.Scheduler.C())
}

func waitForSchedulerCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	switch m.CurrentView {
	case ViewCapture:
		leftPane = m.renderCaptureView()
	case ViewSuggestions:
		leftPane = m.renderSuggestionsView()
	case ViewInsights:
		leftPane = m.renderInsightsView()
	}
	rightPane := strings.TrimSpace(strings.Join([]string{m.renderCommandPalette(), m.renderHelpIfVisible()}, "\n"))

	notification := ""
	if len(m.BoundaryLog) > 0 {
		last := m.BoundaryLog[len(m.BoundaryLog)-1]
		notification = fmt.Sprintf("last-refresh: %s @ %s", last.ID, last.At.Format("15:04"))
	}
	notification = strings.TrimSpace(strings.Join([]string{notification, m.renderNotificationsView()}, "\n"))

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("taskbrain | view: %s | user: %s", m.CurrentView, m.UserID),
		Tabs:         []string{string(ViewCapture), string(ViewSuggestions), string(ViewInsights)},
		ActiveTab:    string(m.CurrentView),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: notification,
		Footer:       fmt.Sprintf("keys: tab next | %s capture | %s suggest | %s insights | / cmd | %s help | %s quit", m.Keys.Capture, m.Keys.Suggestions, m.Keys.Insights, m.Keys.Help, m.Keys.Quit),
	})
}
