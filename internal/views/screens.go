package views

import (
	"fmt"
	"strings"
)

type CapturedItemData struct {
	ExternalID string
	Text       string
	Category   string
	At         string
}

type CapturePanelData struct {
	UserID    string
	InputView string
	Pending   bool
	Spinner   string
	Recent    []CapturedItemData
}

type SuggestionItemData struct {
	Task       string
	Reason     string
	Kind       string
	Confidence float64
}

type CompletionItemData struct {
	Text       string
	Confidence float64
}

type SuggestionsPanelData struct {
	UserID      string
	Period      string
	ListView    string
	Items       []SuggestionItemData
	Completions []CompletionItemData
}

type CategorySampleData struct {
	Name  string
	Tasks []string
}

type InsightsData struct {
	UserID          string
	TotalTasks      int
	CategoriesFound int
	TimePatterns    int
	Samples         []CategorySampleData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderCapturePanel(data CapturePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("capture (%s):\n", data.UserID))
	b.WriteString(data.InputView + "\n")
	b.WriteString("actions: [enter]capture [esc]clear\n")
	if data.Pending {
		b.WriteString(fmt.Sprintf("%s saving...\n", data.Spinner))
	}
	b.WriteString("\nrecent:\n")
	if len(data.Recent) == 0 {
		b.WriteString("  (nothing captured yet)")
		return b.String()
	}
	for i := len(data.Recent) - 1; i >= 0; i-- {
		item := data.Recent[i]
		b.WriteString(fmt.Sprintf("- %s %s [%s]", item.At, item.Text, item.Category))
		if item.ExternalID != "" {
			b.WriteString(" " + shortID(item.ExternalID))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderSuggestionsPanel(data SuggestionsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("suggestions (%s, %s):\n", data.UserID, data.Period))
	b.WriteString("actions: [j/k]move [enter]capture selected [r]refresh\n")
	b.WriteString(data.ListView + "\n")
	if len(data.Items) == 0 {
		b.WriteString("(no suggestions)\n")
	}
	for _, item := range data.Items {
		b.WriteString(fmt.Sprintf("%s %s (%s)\n", confidenceBadge(item.Confidence), item.Task, item.Kind))
		b.WriteString(fmt.Sprintf("    %s\n", item.Reason))
	}
	if len(data.Completions) > 0 {
		b.WriteString("\ncompletions:\n")
		for _, c := range data.Completions {
			b.WriteString(fmt.Sprintf("- %s %.2f\n", c.Text, c.Confidence))
		}
	}
	return strings.TrimSpace(b.String())
}

// InsightsMarkdown renders the learned profile as markdown for glamour.
func InsightsMarkdown(data InsightsData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# Insights for %s\n\n", data.UserID))
	b.WriteString(fmt.Sprintf("- **Tasks learned:** %d\n", data.TotalTasks))
	b.WriteString(fmt.Sprintf("- **Categories found:** %d\n", data.CategoriesFound))
	b.WriteString(fmt.Sprintf("- **Time patterns:** %d\n", data.TimePatterns))
	if len(data.Samples) == 0 {
		b.WriteString("\n_No categories yet. Capture a few more tasks._\n")
		return b.String()
	}
	for _, s := range data.Samples {
		b.WriteString(fmt.Sprintf("\n## %s\n\n", s.Name))
		for _, task := range s.Tasks {
			b.WriteString(fmt.Sprintf("- %s\n", task))
		}
	}
	return b.String()
}

func RenderInsightsPanel(viewportView string) string {
	return "insights:\nactions: [j/k]scroll [r]refresh\n" + viewportView
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func confidenceBadge(c float64) string {
	switch {
	case c >= 0.7:
		return "[HIGH]"
	case c >= 0.4:
		return "[MED]"
	default:
		return "[LOW]"
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
