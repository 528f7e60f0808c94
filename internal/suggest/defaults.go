package suggest

import "github.com/sandeepkv93/taskbrain/internal/model"

type defaultRow struct {
	from, to int
	items    []model.Suggestion
}

func def(task, reason string, confidence float64) model.Suggestion {
	return model.Suggestion{Task: task, Reason: reason, Confidence: confidence, Kind: model.KindDefault}
}

// Hours outside every row fall through to the night routine.
var defaultTable = []defaultRow{
	{6, 10, []model.Suggestion{
		def("Plan your day", "Good morning routine", 0.6),
		def("Check your calendar", "Start day organized", 0.5),
	}},
	{10, 12, []model.Suggestion{def("Focus on important work", "Peak productivity time", 0.7)}},
	{12, 17, []model.Suggestion{def("Follow up on pending items", "Good time for follow-ups", 0.6)}},
	{17, 21, []model.Suggestion{def("Plan tomorrow", "Evening planning", 0.7)}},
}

var nightDefaults = []model.Suggestion{def("Prepare for tomorrow", "Wind down routine", 0.5)}

// Defaults returns the fixed suggestions for a user with no history.
func Defaults(hour int) []model.Suggestion {
	items := nightDefaults
	for _, row := range defaultTable {
		if hour >= row.from && hour < row.to {
			items = row.items
			break
		}
	}
	return append([]model.Suggestion(nil), items...)
}
