package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/taskbrain/internal/commands"
	"github.com/sandeepkv93/taskbrain/internal/scheduler"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.captureInput.Blur()
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	if m.CurrentView == ViewCapture {
		m.captureInput.Focus()
	}
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m = m.closePalette()
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m, follow = m.startCapture(a.Text)
			return commands.Result{Message: fmt.Sprintf("capturing: %s", a.Text)}, nil
		},
		Bulk: func(b commands.BulkArgs) (commands.Result, error) {
			m, follow = m.startBulk(b.Texts)
			return commands.Result{Message: fmt.Sprintf("capturing %d task(s)", len(b.Texts))}, nil
		},
		User: func(u commands.UserArgs) (commands.Result, error) {
			m.UserID = u.UserID
			m.Recent = nil
			m.Completions = nil
			m.refresh()
			if err := m.persistSessionState(); err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("switched user but could not save state: %v", err)}
			}
			return commands.Result{Message: fmt.Sprintf("active user: %s", u.UserID)}, nil
		},
		Complete: func(c commands.CompleteArgs) (commands.Result, error) {
			if m.Service == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "assistant not configured"}
			}
			m.Completions = m.Service.Completions(m.UserID, c.Partial, completionLimit)
			m.CurrentView = ViewSuggestions
			return commands.Result{Message: fmt.Sprintf("%d completion(s) for %q", len(m.Completions), c.Partial)}, nil
		},
		Predict: func(p commands.PredictArgs) (commands.Result, error) {
			if m.Service == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "assistant not configured"}
			}
			return commands.Result{Message: fmt.Sprintf("predicted category: %s", m.Service.Predict(p.Text))}, nil
		},
		Refresh: func() (commands.Result, error) {
			if m.Scheduler != nil {
				if err := m.Scheduler.Schedule(scheduler.RefreshEvent(m.now())); err == nil {
					return commands.Result{Message: "refresh queued"}, nil
				}
			}
			m.refresh()
			return commands.Result{Message: "refreshed suggestions and insights"}, nil
		},
	})
	m = m.closePalette()
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	if !m.Status.IsError {
		m.Status = StatusBar{Text: res.Message}
	}
	m.notify("Command", res.Message, "info")
	return m, follow
}
