package update

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func isKnownView(v View) bool {
	switch v {
	case ViewCapture, ViewSuggestions, ViewInsights:
		return true
	default:
		return false
	}
}

func nextView(v View) View {
	switch v {
	case ViewCapture:
		return ViewSuggestions
	case ViewSuggestions:
		return ViewInsights
	default:
		return ViewCapture
	}
}
