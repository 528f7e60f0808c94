package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/sandeepkv93/taskbrain/internal/timepattern"
	"github.com/sandeepkv93/taskbrain/internal/views"
)

// refresh reloads suggestions and insights for the active user.
func (m *Model) refresh() {
	if m.Service == nil {
		return
	}
	m.Suggestions = m.Service.Suggestions(m.UserID)
	m.Insights = m.Service.Insights(m.UserID)
	m.syncBubbleData()
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Suggestions))
	for _, s := range m.Suggestions {
		items = append(items, listItem{
			title:       s.Task,
			description: fmt.Sprintf("%s | %.2f", s.Reason, s.Confidence),
		})
	}
	_ = m.suggestionList.SetItems(items)
	if len(items) > 0 && m.suggestionList.Index() >= len(items) {
		m.suggestionList.Select(0)
	}
	m.insightsViewport.SetContent(views.RenderMarkdown(views.InsightsMarkdown(m.insightsData())))
}

func (m Model) insightsData() views.InsightsData {
	samples := make([]views.CategorySampleData, 0, len(m.Insights.SampleCategories))
	for _, s := range m.Insights.SampleCategories {
		samples = append(samples, views.CategorySampleData{Name: s.Name, Tasks: s.Tasks})
	}
	return views.InsightsData{
		UserID:          m.UserID,
		TotalTasks:      m.Insights.TotalTasks,
		CategoriesFound: m.Insights.CategoriesFound,
		TimePatterns:    m.Insights.TimePatterns,
		Samples:         samples,
	}
}

func (m Model) renderCaptureView() string {
	recent := make([]views.CapturedItemData, 0, len(m.Recent))
	for _, task := range m.Recent {
		recent = append(recent, views.CapturedItemData{
			ExternalID: task.ExternalID,
			Text:       task.Text,
			Category:   string(task.Category),
			At:         task.CreatedAt.Format("15:04"),
		})
	}
	return views.RenderCapturePanel(views.CapturePanelData{
		UserID:    m.UserID,
		InputView: m.captureInput.View(),
		Pending:   m.Pending > 0,
		Spinner:   m.syncSpinner.View(),
		Recent:    recent,
	})
}

func (m Model) renderSuggestionsView() string {
	items := make([]views.SuggestionItemData, 0, len(m.Suggestions))
	for _, s := range m.Suggestions {
		items = append(items, views.SuggestionItemData{
			Task:       s.Task,
			Reason:     s.Reason,
			Kind:       string(s.Kind),
			Confidence: s.Confidence,
		})
	}
	completions := make([]views.CompletionItemData, 0, len(m.Completions))
	for _, c := range m.Completions {
		completions = append(completions, views.CompletionItemData{Text: c.Completion, Confidence: c.Confidence})
	}
	return views.RenderSuggestionsPanel(views.SuggestionsPanelData{
		UserID:      m.UserID,
		Period:      string(timepattern.PeriodOf(m.now().Hour())),
		ListView:    m.suggestionList.View(),
		Items:       items,
		Completions: completions,
	})
}

func (m Model) renderInsightsView() string {
	return views.RenderInsightsPanel(m.insightsViewport.View())
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	})
	if len(m.Notifications) > notificationLimit {
		m.Notifications = m.Notifications[len(m.Notifications)-notificationLimit:]
	}
}
